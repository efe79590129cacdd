package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/MaximoGamba/DemoEcommers/internal/cart"
	"github.com/MaximoGamba/DemoEcommers/internal/config"
	"github.com/MaximoGamba/DemoEcommers/internal/coupon"
	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/MaximoGamba/DemoEcommers/internal/metrics"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/MaximoGamba/DemoEcommers/internal/payment"
	"github.com/shopspring/decimal"
)

// Step is the checkout screen the shopper is on. Failure during submission is
// not a step of its own: a declined payment or a refused order returns the
// flow to the confirmation screen with a message.
type Step string

const (
	StepShippingInfo  Step = "shipping_info"
	StepPaymentMethod Step = "payment_method"
	StepConfirm       Step = "confirm"
	StepSubmitting    Step = "submitting"
	StepSucceeded     Step = "succeeded"
)

// OrderBackend is the order slice of the REST client.
type OrderBackend interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
}

// Notifier is told about a placed order. Failures are logged and swallowed;
// notification never blocks checkout.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
}

// Result mirrors cart.Result: a failed Result keeps the flow alive with a
// message for the shopper, an error means something the flow cannot absorb.
type Result struct {
	Success bool
	Message string
	Order   *models.Order
}

// Orchestrator drives the checkout flow: shipping form, payment method,
// confirmation, submission. The live cart stays mutable until the order is
// accepted; totals are recomputed from the cart snapshot on every read.
type Orchestrator struct {
	holder   *cart.Holder
	coupons  *coupon.Validator
	backend  OrderBackend
	provider payment.Provider
	notifier Notifier
	shipping config.Shipping
	logger   *slog.Logger

	mu            sync.Mutex
	step          Step
	info          ShippingInfo
	method        models.PaymentMethod
	appliedCoupon *models.CouponValidation
}

func NewOrchestrator(
	holder *cart.Holder,
	coupons *coupon.Validator,
	backend OrderBackend,
	provider payment.Provider,
	shipping config.Shipping,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		holder:   holder,
		coupons:  coupons,
		backend:  backend,
		provider: provider,
		shipping: shipping,
		logger:   logger,
		step:     StepShippingInfo,
	}
}

// WithNotifier attaches an order notifier. Meant for wiring at startup, not
// for concurrent use.
func (o *Orchestrator) WithNotifier(n Notifier) *Orchestrator {
	o.notifier = n

	return o
}

func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.step
}

// ShippingInfo returns the draft's current shipping form.
func (o *Orchestrator) ShippingInfo() ShippingInfo {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.info
}

func (o *Orchestrator) PaymentMethod() models.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.method
}

// SetShippingInfo validates and stores the shipping form, advancing to the
// payment method screen. Allowed from any pre-submission step so the shopper
// can go back and edit.
func (o *Orchestrator) SetShippingInfo(info ShippingInfo) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step == StepSubmitting || o.step == StepSucceeded {
		return appErrors.ValidationError("El pedido ya fue enviado")
	}

	// checkout does not start against an empty cart
	if o.holder.Cart().IsEmpty() {
		return appErrors.BusinessError("Tu carrito está vacío")
	}

	normalized := info.normalized()
	if err := normalized.validateFields(); err != nil {
		return err
	}

	o.info = normalized
	o.step = StepPaymentMethod

	return nil
}

// SelectPaymentMethod stores the chosen method and advances to confirmation.
func (o *Orchestrator) SelectPaymentMethod(method models.PaymentMethod) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.step == StepSubmitting || o.step == StepSucceeded {
		return appErrors.ValidationError("El pedido ya fue enviado")
	}

	if o.step == StepShippingInfo {
		return appErrors.ValidationError("Completá primero los datos de envío")
	}

	if !method.Valid() {
		return appErrors.ValidationError("Medio de pago inválido")
	}

	o.method = method
	o.step = StepConfirm

	return nil
}

// Back steps to the previous screen. From confirmation it returns to method
// selection, from method selection to the shipping form.
func (o *Orchestrator) Back() {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.step {
	case StepConfirm:
		o.step = StepPaymentMethod
	case StepPaymentMethod:
		o.step = StepShippingInfo
	}
}

// ApplyCoupon validates a code against the current cart subtotal and keeps it
// when accepted. A rejected coupon clears any previously applied one.
func (o *Orchestrator) ApplyCoupon(ctx context.Context, code string) (*models.CouponValidation, error) {
	subtotal := o.Subtotal()

	validation, err := o.coupons.Validate(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if validation.Valid {
		o.appliedCoupon = validation
	} else {
		o.appliedCoupon = nil
	}

	return validation, nil
}

func (o *Orchestrator) RemoveCoupon() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.appliedCoupon = nil
}

func (o *Orchestrator) AppliedCoupon() *models.CouponValidation {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.appliedCoupon
}

// Subtotal is the live cart total before shipping and discount.
func (o *Orchestrator) Subtotal() decimal.Decimal {
	return o.holder.Total()
}

// ShippingCost applies the flat-fee rule: free strictly above the threshold,
// the flat fee otherwise. An empty cart ships for nothing.
func (o *Orchestrator) ShippingCost() decimal.Decimal {
	subtotal := o.Subtotal()
	if subtotal.IsZero() {
		return decimal.Zero
	}

	if subtotal.GreaterThan(o.shipping.FreeThresholdAmount()) {
		return decimal.Zero
	}

	return o.shipping.FlatFeeAmount()
}

func (o *Orchestrator) Discount() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.appliedCoupon.Discount()
}

// Total is subtotal plus shipping minus discount, clamped at zero.
func (o *Orchestrator) Total() decimal.Decimal {
	total := o.Subtotal().Add(o.ShippingCost()).Sub(o.Discount())
	if total.IsNegative() {
		return decimal.Zero
	}

	return total
}

// Confirm finalizes the confirmation screen. Methods that route through the
// payment gateway get a live payment session back; the caller walks it and
// then calls CompletePayment. Direct methods (transfer, cash on delivery)
// submit immediately and return a nil session with the submission's Result.
func (o *Orchestrator) Confirm(ctx context.Context) (*payment.Session, Result, error) {
	o.mu.Lock()

	if o.step != StepConfirm {
		o.mu.Unlock()

		return nil, Result{}, appErrors.ValidationError("Todavía no llegaste a la confirmación")
	}

	if o.holder.Cart().IsEmpty() {
		o.mu.Unlock()

		return nil, Result{Message: "Tu carrito está vacío"}, nil
	}

	method := o.method
	o.mu.Unlock()

	if method.SimulatorRouted() {
		session := payment.NewSession(o.provider, o.Total(), o.logger)

		return session, Result{Success: true}, nil
	}

	result, err := o.submit(ctx, method, "")

	return nil, result, err
}

// CompletePayment submits the order after the gateway session reached a
// verdict. An approved session overrides the draft's payment method with the
// one actually used in the gateway and attaches the payment reference to the
// local order copy. A declined or cancelled session returns the flow to the
// confirmation screen.
func (o *Orchestrator) CompletePayment(ctx context.Context, session *payment.Session) (Result, error) {
	switch session.State() {
	case payment.StateApproved:
		charge := session.Result()
		method := payment.MapMethod(session.Method())

		return o.submit(ctx, method, charge.Reference)
	case payment.StateDeclined:
		metrics.RecordCheckoutSubmission(metrics.ResultRejected)

		return Result{Message: session.Result().Reason}, nil
	case payment.StateCancelled:
		return Result{Message: "Pago cancelado"}, nil
	default:
		return Result{}, appErrors.ValidationError("El pago todavía no terminó")
	}
}

// submit sends the order. On a business refusal the flow returns to the
// confirmation screen with the server's message and the cart untouched; only
// a success clears the local cart.
func (o *Orchestrator) submit(ctx context.Context, method models.PaymentMethod, reference string) (Result, error) {
	o.mu.Lock()
	o.step = StepSubmitting
	req := &models.CreateOrderRequest{
		ShippingAddress: o.info.Address,
		ShippingCity:    o.info.City,
		ShippingZipCode: o.info.ZipCode,
		ContactPhone:    o.info.Phone,
		Notes:           o.info.Notes,
		PaymentMethod:   method,
		CouponCode:      o.appliedCoupon.CanonicalCode(),
	}
	o.mu.Unlock()

	order, err := o.backend.CreateOrder(ctx, req)
	if err != nil {
		o.mu.Lock()
		o.step = StepConfirm
		o.mu.Unlock()

		// declined payments are recoverable the same way refusals are: back
		// to the confirmation screen with the server's message
		if appErrors.IsBusiness(err) || appErrors.IsPaymentDeclined(err) {
			metrics.RecordCheckoutSubmission(metrics.ResultRejected)

			return Result{Message: appErrors.UserMessage(err, "No se pudo crear el pedido")}, nil
		}

		metrics.RecordCheckoutSubmission(metrics.ResultError)

		return Result{}, err
	}

	// the backend has no field for the gateway reference; keep it on the
	// local copy for the confirmation screen
	if reference != "" {
		order.PaymentReference = reference
	}

	o.mu.Lock()
	o.step = StepSucceeded
	o.appliedCoupon = nil
	o.mu.Unlock()

	o.holder.ResetLocal()
	metrics.RecordCheckoutSubmission(metrics.ResultSuccess)
	o.logger.Info("order placed",
		slog.String("order_number", order.OrderNumber),
		slog.String("method", string(method)),
		slog.String("total", order.Total.String()),
	)

	if o.notifier != nil {
		if err := o.notifier.OrderPlaced(ctx, order); err != nil {
			o.logger.Warn("order notification failed",
				slog.String("order_number", order.OrderNumber),
				slog.String("error", err.Error()),
			)
		}
	}

	return Result{Success: true, Message: "Pedido creado", Order: order}, nil
}

// Reset returns the orchestrator to a fresh flow, keeping nothing from the
// previous one.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.step = StepShippingInfo
	o.info = ShippingInfo{}
	o.method = ""
	o.appliedCoupon = nil
}
