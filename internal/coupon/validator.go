package coupon

import (
	"context"
	"log/slog"
	"strings"

	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/MaximoGamba/DemoEcommers/internal/metrics"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/shopspring/decimal"
)

// Backend is the coupon slice of the REST client.
type Backend interface {
	ValidateCoupon(ctx context.Context, code string, amount decimal.Decimal) (*models.CouponValidation, error)
}

// Validator checks coupon codes against the backend. It holds no state of its
// own: validation is stateless and idempotent, the checkout draft owns the
// applied coupon.
type Validator struct {
	backend Backend
	logger  *slog.Logger
}

func NewValidator(backend Backend, logger *slog.Logger) *Validator {
	return &Validator{backend: backend, logger: logger}
}

// Normalize canonicalizes user input: surrounding whitespace stripped, letters
// upper-cased. "  save10 " and "SAVE10" are the same coupon.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a coupon code against a purchase amount. An invalid coupon
// is a result, not an error: the backend explains why in the validation
// payload. Errors are reserved for empty input and transport failures.
func (v *Validator) Validate(ctx context.Context, code string, amount decimal.Decimal) (*models.CouponValidation, error) {
	normalized := Normalize(code)
	if normalized == "" {
		return nil, appErrors.ValidationError("Ingresá un código de cupón")
	}

	validation, err := v.backend.ValidateCoupon(ctx, normalized, amount)
	if err != nil {
		metrics.RecordCouponValidation(metrics.ResultError)
		v.logger.Warn("coupon validation failed",
			slog.String("code", normalized),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	if validation.Valid {
		metrics.RecordCouponValidation(metrics.ResultSuccess)
		v.logger.Info("coupon accepted",
			slog.String("code", normalized),
			slog.String("discount", validation.Discount().String()),
		)
	} else {
		metrics.RecordCouponValidation(metrics.ResultRejected)
		v.logger.Info("coupon rejected",
			slog.String("code", normalized),
			slog.String("reason", validation.Message),
		)
	}

	return validation, nil
}
