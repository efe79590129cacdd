package payment

import (
	"context"

	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/shopspring/decimal"
)

// Method identifies how the shopper pays inside the simulated gateway. These
// are the gateway's own identifiers; MapMethod translates them to the order's
// PaymentMethod enum.
type Method string

const (
	MethodAccountMoney Method = "account_money"
	MethodCredit       Method = "credit"
	MethodDebit        Method = "debit"
	MethodTransfer     Method = "transfer"
)

// MapMethod translates a gateway method to the order-level payment method
// sent to the backend.
func MapMethod(m Method) models.PaymentMethod {
	switch m {
	case MethodAccountMoney:
		return models.PaymentMercadoPago
	case MethodTransfer:
		return models.PaymentBankTransfer
	case MethodCredit:
		return models.PaymentCreditCard
	case MethodDebit:
		return models.PaymentDebitCard
	default:
		return models.PaymentMercadoPago
	}
}

// ChargeRequest describes one payment attempt. Card is nil for wallet and
// transfer methods.
type ChargeRequest struct {
	Amount       decimal.Decimal
	Method       Method
	Card         *CardDetails
	Installments int
	OrderRef     string
}

// ChargeResult is the gateway's verdict. Declined charges are results, not
// errors: Approved=false with a Reason the shopper can read. Errors are
// reserved for faults that prevented a verdict.
type ChargeResult struct {
	Approved  bool
	Reason    string
	Reference string
	// InsufficientFunds marks a wallet refusal decided locally, without a
	// gateway round-trip. The shopper stays on method selection.
	InsufficientFunds bool
}

// Provider is a payment gateway. The built-in Simulator implements it with
// configurable outcomes; pkg/stripe implements it against a real processor.
type Provider interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	WalletBalance() decimal.Decimal
}
