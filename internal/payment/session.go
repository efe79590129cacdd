package payment

import (
	"context"
	"log/slog"
	"sync"

	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/shopspring/decimal"
)

// State is the gateway screen the shopper is on.
type State string

const (
	StateSelectMethod State = "select_method"
	StateCardForm     State = "card_form"
	StateProcessing   State = "processing"
	StateApproved     State = "approved"
	StateDeclined     State = "declined"
	StateCancelled    State = "cancelled"
)

// Result is a screen-level outcome: whether the action took effect and what
// to tell the shopper when it did not.
type Result struct {
	Success bool
	Message string
}

// Session walks a shopper through one simulated gateway interaction:
// pick a method, fill the card form when the method needs one, process, land
// on approved or declined. Declined is recoverable via Retry; Cancel is only
// honored before processing starts.
type Session struct {
	provider Provider
	amount   decimal.Decimal
	logger   *slog.Logger

	mu     sync.Mutex
	state  State
	method Method
	card   *CardDetails
	quotas int
	result ChargeResult
}

func NewSession(provider Provider, amount decimal.Decimal, logger *slog.Logger) *Session {
	return &Session{
		provider: provider,
		amount:   amount,
		logger:   logger,
		state:    StateSelectMethod,
		quotas:   1,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) Amount() decimal.Decimal {
	return s.amount
}

// Method returns the gateway method the shopper selected, empty before any
// selection.
func (s *Session) Method() Method {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.method
}

// Result returns the charge verdict, meaningful once the session reaches
// StateApproved or StateDeclined.
func (s *Session) Result() ChargeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.result
}

// Methods lists the gateway's payment choices.
func (s *Session) Methods() []Method {
	return []Method{MethodAccountMoney, MethodCredit, MethodDebit, MethodTransfer}
}

// SelectMethod picks how to pay. Wallet payments above the demo balance are
// refused on the spot and the session stays on the selection screen. Card
// methods advance to the form; wallet and transfer go straight to processing
// on the next ConfirmPayment call.
func (s *Session) SelectMethod(method Method) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSelectMethod && s.state != StateDeclined {
		return Result{}, appErrors.ValidationError("No se puede cambiar el medio de pago ahora")
	}

	if method == MethodAccountMoney && s.amount.GreaterThan(s.provider.WalletBalance()) {
		s.state = StateSelectMethod

		return Result{Message: "Saldo insuficiente en tu cuenta"}, nil
	}

	s.method = method
	s.card = nil
	s.quotas = 1

	if method == MethodCredit || method == MethodDebit {
		s.state = StateCardForm
	} else {
		s.state = StateSelectMethod
	}

	return Result{Success: true}, nil
}

// SubmitCard validates and attaches the card form. Only meaningful from the
// card form screen.
func (s *Session) SubmitCard(card CardDetails, quotas int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCardForm {
		return appErrors.ValidationError("No hay un formulario de tarjeta activo")
	}

	if err := ValidateCard(card); err != nil {
		return err
	}

	if quotas < 1 {
		quotas = 1
	}

	s.card = &card
	s.quotas = quotas

	return nil
}

// ConfirmPayment runs the charge. Card methods require a submitted card
// first. The session is in StateProcessing for the duration; on return it has
// landed on StateApproved or StateDeclined.
func (s *Session) ConfirmPayment(ctx context.Context) (ChargeResult, error) {
	s.mu.Lock()

	if s.method == "" {
		s.mu.Unlock()

		return ChargeResult{}, appErrors.ValidationError("Elegí un medio de pago")
	}

	if (s.method == MethodCredit || s.method == MethodDebit) && s.card == nil {
		s.mu.Unlock()

		return ChargeResult{}, appErrors.ValidationError("Completá los datos de la tarjeta")
	}

	if s.state != StateSelectMethod && s.state != StateCardForm {
		s.mu.Unlock()

		return ChargeResult{}, appErrors.ValidationError("El pago ya está en proceso")
	}

	s.state = StateProcessing
	req := ChargeRequest{
		Amount:       s.amount,
		Method:       s.method,
		Card:         s.card,
		Installments: s.quotas,
	}
	s.mu.Unlock()

	result, err := s.provider.Charge(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateDeclined
		s.result = ChargeResult{Reason: appErrors.UserMessage(err, "El pago no pudo procesarse")}

		return s.result, err
	}

	s.result = result
	s.logger.Info("payment verdict",
		slog.String("method", string(s.method)),
		slog.Bool("approved", result.Approved),
	)

	switch {
	case result.Approved:
		s.state = StateApproved
	case result.InsufficientFunds:
		s.state = StateSelectMethod
	default:
		s.state = StateDeclined
	}

	return result, nil
}

// Retry returns a declined session to the method selection screen.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDeclined {
		return appErrors.ValidationError("No hay un pago rechazado para reintentar")
	}

	s.state = StateSelectMethod
	s.card = nil
	s.result = ChargeResult{}

	return nil
}

// Cancel abandons the gateway. It is refused once processing has started and
// after a verdict was reached.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateSelectMethod, StateCardForm, StateDeclined:
		s.state = StateCancelled

		return nil
	default:
		return appErrors.ValidationError("El pago ya está en proceso y no se puede cancelar")
	}
}
