package checkout_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/MaximoGamba/DemoEcommers/internal/cart"
	"github.com/MaximoGamba/DemoEcommers/internal/checkout"
	"github.com/MaximoGamba/DemoEcommers/internal/config"
	"github.com/MaximoGamba/DemoEcommers/internal/coupon"
	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/MaximoGamba/DemoEcommers/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubCartBackend serves a fixed cart; mutations are not exercised here.
type stubCartBackend struct {
	cart *models.Cart
}

func (s *stubCartBackend) GetCart(ctx context.Context) (*models.Cart, error) {
	return s.cart, nil
}

func (s *stubCartBackend) AddItem(ctx context.Context, req models.AddItemRequest) (*models.Cart, error) {
	return s.cart, nil
}

func (s *stubCartBackend) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	return s.cart, nil
}

func (s *stubCartBackend) RemoveItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	return s.cart, nil
}

func (s *stubCartBackend) ClearCart(ctx context.Context) (*models.Cart, error) {
	return models.NewEmptyCart(), nil
}

func (s *stubCartBackend) TransferCart(ctx context.Context, userID int64) (*models.Cart, error) {
	return s.cart, nil
}

type mockCouponBackend struct {
	mock.Mock
}

func (m *mockCouponBackend) ValidateCoupon(ctx context.Context, code string, amount decimal.Decimal) (*models.CouponValidation, error) {
	args := m.Called(ctx, code, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CouponValidation), args.Error(1)
}

type mockOrderBackend struct {
	mock.Mock
}

func (m *mockOrderBackend) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

// fakeProvider approves or declines deterministically.
type fakeProvider struct {
	approve bool
	balance decimal.Decimal
}

func (f *fakeProvider) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	if req.Method == payment.MethodAccountMoney && req.Amount.GreaterThan(f.balance) {
		return payment.ChargeResult{Reason: "Saldo insuficiente en tu cuenta", InsufficientFunds: true}, nil
	}

	if !f.approve {
		return payment.ChargeResult{Reason: "El pago fue rechazado. Intentá con otro medio de pago."}, nil
	}

	return payment.ChargeResult{Approved: true, Reference: payment.NewReference()}, nil
}

func (f *fakeProvider) WalletBalance() decimal.Decimal {
	return f.balance
}

type harness struct {
	orchestrator *checkout.Orchestrator
	holder       *cart.Holder
	orders       *mockOrderBackend
	coupons      *mockCouponBackend
	provider     *fakeProvider
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, cartTotal int64) *harness {
	t.Helper()

	logger := testLogger()

	snapshot := models.NewEmptyCart()
	if cartTotal > 0 {
		snapshot = &models.Cart{
			ID:        1,
			ItemCount: 1,
			Total:     decimal.NewFromInt(cartTotal),
			Items: []models.CartItem{
				{ID: 1, VariantID: 5, Quantity: 1, UnitPrice: decimal.NewFromInt(cartTotal), Subtotal: decimal.NewFromInt(cartTotal)},
			},
		}
	}

	holder := cart.NewHolder(&stubCartBackend{cart: snapshot}, logger)
	require.NoError(t, holder.Refresh(context.Background()))

	coupons := new(mockCouponBackend)
	orders := new(mockOrderBackend)

	provider := &fakeProvider{approve: true, balance: decimal.NewFromInt(150000)}

	shipping := config.Shipping{FreeThreshold: 50000, FlatFee: 2999}

	orchestrator := checkout.NewOrchestrator(
		holder,
		coupon.NewValidator(coupons, logger),
		orders,
		provider,
		shipping,
		logger,
	)

	return &harness{
		orchestrator: orchestrator,
		holder:       holder,
		orders:       orders,
		coupons:      coupons,
		provider:     provider,
	}
}

func validShipping() checkout.ShippingInfo {
	return checkout.ShippingInfo{
		Address: "Av. Corrientes 1234",
		City:    "Buenos Aires",
		ZipCode: "1043",
		Phone:   "1155667788",
	}
}

func advanceToConfirm(t *testing.T, h *harness, method models.PaymentMethod) {
	t.Helper()

	require.NoError(t, h.orchestrator.SetShippingInfo(validShipping()))
	require.NoError(t, h.orchestrator.SelectPaymentMethod(method))
	require.Equal(t, checkout.StepConfirm, h.orchestrator.Step())
}

func TestOrchestrator_StepProgression(t *testing.T) {
	t.Run("Shipping Then Method Then Confirm", func(t *testing.T) {
		h := newHarness(t, 10000)

		assert.Equal(t, checkout.StepShippingInfo, h.orchestrator.Step())
		require.NoError(t, h.orchestrator.SetShippingInfo(validShipping()))
		assert.Equal(t, checkout.StepPaymentMethod, h.orchestrator.Step())
		require.NoError(t, h.orchestrator.SelectPaymentMethod(models.PaymentCashOnDelivery))
		assert.Equal(t, checkout.StepConfirm, h.orchestrator.Step())
	})

	t.Run("Method Selection Requires Shipping First", func(t *testing.T) {
		h := newHarness(t, 10000)

		err := h.orchestrator.SelectPaymentMethod(models.PaymentCashOnDelivery)

		require.Error(t, err)
		assert.Equal(t, checkout.StepShippingInfo, h.orchestrator.Step())
	})

	t.Run("Invalid Shipping Form Rejected", func(t *testing.T) {
		h := newHarness(t, 10000)

		info := validShipping()
		info.Address = "x"

		err := h.orchestrator.SetShippingInfo(info)

		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("Unknown Payment Method Rejected", func(t *testing.T) {
		h := newHarness(t, 10000)

		require.NoError(t, h.orchestrator.SetShippingInfo(validShipping()))

		require.Error(t, h.orchestrator.SelectPaymentMethod("BITCOIN"))
	})

	t.Run("Back Walks The Steps In Reverse", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentCashOnDelivery)

		h.orchestrator.Back()
		assert.Equal(t, checkout.StepPaymentMethod, h.orchestrator.Step())
		h.orchestrator.Back()
		assert.Equal(t, checkout.StepShippingInfo, h.orchestrator.Step())
	})

	t.Run("Notes Are Sanitized", func(t *testing.T) {
		h := newHarness(t, 10000)

		info := validShipping()
		info.Notes = "dejar en portería <script>alert(1)</script>"

		require.NoError(t, h.orchestrator.SetShippingInfo(info))
		assert.Equal(t, "dejar en portería", h.orchestrator.ShippingInfo().Notes)
	})
}

func TestOrchestrator_Totals(t *testing.T) {
	t.Run("Flat Fee At Or Below Threshold", func(t *testing.T) {
		h := newHarness(t, 50000)

		assert.True(t, h.orchestrator.ShippingCost().Equal(decimal.NewFromInt(2999)))
		assert.True(t, h.orchestrator.Total().Equal(decimal.NewFromInt(52999)))
	})

	t.Run("Free Shipping Strictly Above Threshold", func(t *testing.T) {
		h := newHarness(t, 50001)

		assert.True(t, h.orchestrator.ShippingCost().IsZero())
		assert.True(t, h.orchestrator.Total().Equal(decimal.NewFromInt(50001)))
	})

	t.Run("Empty Cart Ships For Nothing", func(t *testing.T) {
		h := newHarness(t, 0)

		assert.True(t, h.orchestrator.ShippingCost().IsZero())
		assert.True(t, h.orchestrator.Total().IsZero())
	})

	t.Run("Coupon Discount Lowers Total", func(t *testing.T) {
		h := newHarness(t, 10000)

		h.coupons.On("ValidateCoupon", mock.Anything, "SAVE10", decimal.NewFromInt(10000)).
			Return(&models.CouponValidation{
				Valid:              true,
				Coupon:             &models.Coupon{Code: "SAVE10"},
				ApplicableDiscount: decimal.NewFromInt(1000),
			}, nil)

		validation, err := h.orchestrator.ApplyCoupon(context.Background(), "save10")

		require.NoError(t, err)
		assert.True(t, validation.Valid)
		// 10000 + 2999 - 1000
		assert.True(t, h.orchestrator.Total().Equal(decimal.NewFromInt(11999)))
	})

	t.Run("Rejected Coupon Clears Previous One", func(t *testing.T) {
		h := newHarness(t, 10000)

		h.coupons.On("ValidateCoupon", mock.Anything, "SAVE10", mock.Anything).
			Return(&models.CouponValidation{
				Valid:              true,
				Coupon:             &models.Coupon{Code: "SAVE10"},
				ApplicableDiscount: decimal.NewFromInt(1000),
			}, nil)
		h.coupons.On("ValidateCoupon", mock.Anything, "OLD", mock.Anything).
			Return(&models.CouponValidation{Valid: false, Message: "Cupón expirado"}, nil)

		_, err := h.orchestrator.ApplyCoupon(context.Background(), "SAVE10")
		require.NoError(t, err)
		require.False(t, h.orchestrator.Discount().IsZero())

		_, err = h.orchestrator.ApplyCoupon(context.Background(), "OLD")
		require.NoError(t, err)

		assert.True(t, h.orchestrator.Discount().IsZero())
		assert.Nil(t, h.orchestrator.AppliedCoupon())
	})

	t.Run("Total Clamped At Zero", func(t *testing.T) {
		h := newHarness(t, 1000)

		h.coupons.On("ValidateCoupon", mock.Anything, "MEGA", mock.Anything).
			Return(&models.CouponValidation{
				Valid:              true,
				Coupon:             &models.Coupon{Code: "MEGA"},
				ApplicableDiscount: decimal.NewFromInt(99999),
			}, nil)

		_, err := h.orchestrator.ApplyCoupon(context.Background(), "MEGA")
		require.NoError(t, err)

		assert.True(t, h.orchestrator.Total().IsZero())
	})
}

func TestOrchestrator_Confirm(t *testing.T) {
	t.Run("Empty Cart Cannot Start Checkout", func(t *testing.T) {
		h := newHarness(t, 0)

		err := h.orchestrator.SetShippingInfo(validShipping())

		require.Error(t, err)
		assert.True(t, appErrors.IsBusiness(err))
		assert.Equal(t, checkout.StepShippingInfo, h.orchestrator.Step())
	})

	t.Run("Cart Emptied Mid-Flow Refused At Confirm", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentCashOnDelivery)

		h.holder.ResetLocal()

		session, result, err := h.orchestrator.Confirm(context.Background())

		require.NoError(t, err)
		assert.Nil(t, session)
		assert.False(t, result.Success)
		assert.Equal(t, "Tu carrito está vacío", result.Message)
		h.orders.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("Direct Method Submits Immediately", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentCashOnDelivery)

		h.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *models.CreateOrderRequest) bool {
			return req.PaymentMethod == models.PaymentCashOnDelivery && req.ShippingAddress == "Av. Corrientes 1234"
		})).Return(&models.Order{ID: 1, OrderNumber: "PED-1", Status: models.OrderStatusPending}, nil)

		session, result, err := h.orchestrator.Confirm(context.Background())

		require.NoError(t, err)
		assert.Nil(t, session)
		assert.True(t, result.Success)
		require.NotNil(t, result.Order)
		assert.Equal(t, checkout.StepSucceeded, h.orchestrator.Step())
		assert.True(t, h.holder.IsEmpty())
	})

	t.Run("Gateway Method Returns A Live Session", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentCreditCard)

		session, result, err := h.orchestrator.Confirm(context.Background())

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.True(t, result.Success)
		assert.True(t, session.Amount().Equal(decimal.NewFromInt(12999)))
		assert.Equal(t, checkout.StepConfirm, h.orchestrator.Step())
		h.orders.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("Business Rejection Returns To Confirm With Cart Intact", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentCashOnDelivery)

		h.orders.On("CreateOrder", mock.Anything, mock.Anything).
			Return(nil, appErrors.BusinessError("Stock insuficiente"))

		session, result, err := h.orchestrator.Confirm(context.Background())

		require.NoError(t, err)
		assert.Nil(t, session)
		assert.False(t, result.Success)
		assert.Equal(t, "Stock insuficiente", result.Message)
		assert.Equal(t, checkout.StepConfirm, h.orchestrator.Step())
		assert.False(t, h.holder.IsEmpty())
	})

	t.Run("Declined Payment From Backend Returns To Confirm", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentBankTransfer)

		h.orders.On("CreateOrder", mock.Anything, mock.Anything).
			Return(nil, appErrors.PaymentDeclinedError("El pago fue rechazado por el emisor"))

		session, result, err := h.orchestrator.Confirm(context.Background())

		require.NoError(t, err)
		assert.Nil(t, session)
		assert.False(t, result.Success)
		assert.Equal(t, "El pago fue rechazado por el emisor", result.Message)
		assert.Equal(t, checkout.StepConfirm, h.orchestrator.Step())
		assert.False(t, h.holder.IsEmpty())
	})

	t.Run("Transport Failure Is An Error, Cart Intact", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentBankTransfer)

		h.orders.On("CreateOrder", mock.Anything, mock.Anything).
			Return(nil, appErrors.TransportError("down"))

		_, _, err := h.orchestrator.Confirm(context.Background())

		require.Error(t, err)
		assert.True(t, appErrors.IsTransport(err))
		assert.Equal(t, checkout.StepConfirm, h.orchestrator.Step())
		assert.False(t, h.holder.IsEmpty())
	})
}

func TestOrchestrator_CompletePayment(t *testing.T) {
	card := payment.CardDetails{
		Number:     "4509 9535 6623 3704",
		HolderName: "JUAN PEREZ",
		Expiry:     "11/26",
		CVV:        "123",
	}

	t.Run("Approved Session Submits With Gateway Method And Reference", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentMercadoPago)

		session, _, err := h.orchestrator.Confirm(context.Background())
		require.NoError(t, err)

		_, err = session.SelectMethod(payment.MethodCredit)
		require.NoError(t, err)
		require.NoError(t, session.SubmitCard(card, 1))
		charge, err := session.ConfirmPayment(context.Background())
		require.NoError(t, err)
		require.True(t, charge.Approved)

		h.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *models.CreateOrderRequest) bool {
			// the shopper switched to credit card inside the gateway
			return req.PaymentMethod == models.PaymentCreditCard
		})).Return(&models.Order{ID: 2, OrderNumber: "PED-2", Status: models.OrderStatusPending}, nil)

		result, err := h.orchestrator.CompletePayment(context.Background(), session)

		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.Order)
		assert.Equal(t, charge.Reference, result.Order.PaymentReference)
		assert.True(t, h.holder.IsEmpty())
	})

	t.Run("Declined Session Keeps Cart And Stays On Confirm", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentCreditCard)

		session, _, err := h.orchestrator.Confirm(context.Background())
		require.NoError(t, err)

		h.provider.approve = false

		_, err = session.SelectMethod(payment.MethodCredit)
		require.NoError(t, err)
		require.NoError(t, session.SubmitCard(card, 1))
		charge, err := session.ConfirmPayment(context.Background())
		require.NoError(t, err)
		require.False(t, charge.Approved)

		result, err := h.orchestrator.CompletePayment(context.Background(), session)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Message)
		assert.Equal(t, checkout.StepConfirm, h.orchestrator.Step())
		assert.False(t, h.holder.IsEmpty())
		h.orders.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("Unfinished Session Refused", func(t *testing.T) {
		h := newHarness(t, 10000)
		advanceToConfirm(t, h, models.PaymentCreditCard)

		session, _, err := h.orchestrator.Confirm(context.Background())
		require.NoError(t, err)

		_, err = h.orchestrator.CompletePayment(context.Background(), session)

		require.Error(t, err)
	})
}

func TestOrchestrator_Reset(t *testing.T) {
	h := newHarness(t, 10000)
	advanceToConfirm(t, h, models.PaymentCashOnDelivery)

	h.orchestrator.Reset()

	assert.Equal(t, checkout.StepShippingInfo, h.orchestrator.Step())
	assert.Empty(t, h.orchestrator.ShippingInfo().Address)
	assert.Nil(t, h.orchestrator.AppliedCoupon())
}
