package checkout

import (
	"errors"
	"strings"

	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// ShippingInfo is the first checkout screen's form. Notes is free text typed
// by the shopper and gets sanitized before it travels.
type ShippingInfo struct {
	Address string `validate:"required,min=5"`
	City    string `validate:"required,min=2"`
	ZipCode string `validate:"omitempty,min=4,max=10"`
	Phone   string `validate:"required,min=6,max=20"`
	Notes   string `validate:"omitempty,max=500"`
}

var (
	validate = validator.New()
	sanitize = bluemonday.StrictPolicy()
)

// clean trims and strips any markup from a free-text field.
func clean(s string) string {
	return strings.TrimSpace(sanitize.Sanitize(s))
}

// normalized returns a copy with whitespace trimmed and free text sanitized.
func (s ShippingInfo) normalized() ShippingInfo {
	return ShippingInfo{
		Address: strings.TrimSpace(s.Address),
		City:    strings.TrimSpace(s.City),
		ZipCode: strings.TrimSpace(s.ZipCode),
		Phone:   strings.TrimSpace(s.Phone),
		Notes:   clean(s.Notes),
	}
}

func (s ShippingInfo) validateFields() error {
	if err := validate.Struct(s); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return appErrors.AddValidationError(errs[0].Field(), errs[0].Tag())
		}

		return appErrors.ValidationError("Revisá los datos de envío")
	}

	return nil
}
