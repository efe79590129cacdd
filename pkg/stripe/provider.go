package stripe

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/MaximoGamba/DemoEcommers/internal/config"
	"github.com/MaximoGamba/DemoEcommers/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

// Provider charges through Stripe instead of the built-in simulator. It
// implements payment.Provider, so the checkout flow does not care which one
// is wired.
type Provider struct {
	currency      string
	walletBalance decimal.Decimal
	logger        *slog.Logger
}

func NewProvider(cfg *config.Stripe, walletBalance decimal.Decimal, logger *slog.Logger) *Provider {
	stripe.Key = cfg.APIKey

	return &Provider{
		currency:      cfg.Currency,
		walletBalance: walletBalance,
		logger:        logger,
	}
}

// WalletBalance keeps the demo wallet rule even with a real processor behind
// the card methods.
func (p *Provider) WalletBalance() decimal.Decimal {
	return p.walletBalance
}

// Charge creates and auto-confirms a payment intent for the amount. Card
// declines come back as results; anything else Stripe refuses is an error.
func (p *Provider) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	if req.Method == payment.MethodAccountMoney && req.Amount.GreaterThan(p.walletBalance) {
		return payment.ChargeResult{
			Reason:            "Saldo insuficiente en tu cuenta",
			InsufficientFunds: true,
		}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(req.Amount)),
		Currency:      stripe.String(p.currency),
		Confirm:       stripe.Bool(true),
		PaymentMethod: stripe.String("pm_card_visa"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	if req.OrderRef != "" {
		params.Description = stripe.String("Pedido " + req.OrderRef)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			p.logger.Info("stripe card declined",
				slog.String("code", string(stripeErr.Code)),
			)

			return payment.ChargeResult{
				Reason: "El pago fue rechazado. Intentá con otro medio de pago.",
			}, nil
		}

		return payment.ChargeResult{}, err
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return payment.ChargeResult{
			Reason: "El pago fue rechazado. Intentá con otro medio de pago.",
		}, nil
	}

	p.logger.Info("stripe charge succeeded",
		slog.String("intent", intent.ID),
		slog.String("amount", req.Amount.String()),
	)

	return payment.ChargeResult{
		Approved:  true,
		Reference: referenceFromIntent(intent.ID),
	}, nil
}

// toMinorUnits converts a decimal amount to the integer minor units Stripe
// expects (centavos for ARS).
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// referenceFromIntent keeps the gateway reference shape consistent with the
// simulator's.
func referenceFromIntent(intentID string) string {
	return "MP-" + strings.TrimPrefix(intentID, "pi_")
}
