package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coupon struct {
	ID             int64           `json:"id"`
	Code           string          `json:"codigo"`
	Description    string          `json:"descripcion"`
	DiscountAmount decimal.Decimal `json:"montoDescuento"`
	MinimumAmount  decimal.Decimal `json:"montoMinimo"`
	ExpiresAt      *time.Time      `json:"fechaExpiracion"`
}

// CouponValidation is the outcome of submitting a code plus a purchase
// amount. A business rejection (expired, minimum not met, unknown code)
// arrives as Valid=false with a reason; it is not an error. Transport
// failures never produce this value.
type CouponValidation struct {
	Valid              bool            `json:"valido"`
	Message            string          `json:"mensaje"`
	Coupon             *Coupon         `json:"cupon"`
	ApplicableDiscount decimal.Decimal `json:"descuentoAplicable"`
}

// CanonicalCode returns the accepted coupon's server-side code, empty when
// the validation was rejected.
func (v *CouponValidation) CanonicalCode() string {
	if v == nil || !v.Valid || v.Coupon == nil {
		return ""
	}

	return v.Coupon.Code
}

// Discount is the amount to subtract from the order total, zero for a
// rejected validation.
func (v *CouponValidation) Discount() decimal.Decimal {
	if v == nil || !v.Valid {
		return decimal.Zero
	}

	return v.ApplicableDiscount
}
