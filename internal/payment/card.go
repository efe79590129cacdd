package payment

import (
	"strings"
	"unicode"

	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/shopspring/decimal"
)

// CardDetails is the card form's payload. Number and Expiry hold the
// display-formatted values ("4509 9535 6623 3704", "11/26").
type CardDetails struct {
	Number     string
	HolderName string
	Expiry     string
	CVV        string
}

// Digits strips everything but digits from the card number.
func (c CardDetails) Digits() string {
	return digitsOnly(c.Number)
}

// Brand guesses the card network from the leading digit.
func (c CardDetails) Brand() string {
	return CardBrand(c.Number)
}

func digitsOnly(s string) string {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// FormatCardNumber groups digits in blocks of four, capped at 16 digits:
// "4509953566233704" becomes "4509 9535 6623 3704".
func FormatCardNumber(input string) string {
	digits := digitsOnly(input)
	if len(digits) > 16 {
		digits = digits[:16]
	}

	var b strings.Builder

	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}

		b.WriteRune(r)
	}

	return b.String()
}

// FormatExpiry inserts the slash after the month, capped at MMYY:
// "1126" becomes "11/26".
func FormatExpiry(input string) string {
	digits := digitsOnly(input)
	if len(digits) > 4 {
		digits = digits[:4]
	}

	if len(digits) <= 2 {
		return digits
	}

	return digits[:2] + "/" + digits[2:]
}

// FormatCVV keeps digits only, capped at 4.
func FormatCVV(input string) string {
	digits := digitsOnly(input)
	if len(digits) > 4 {
		digits = digits[:4]
	}

	return digits
}

// CardBrand maps the leading digit to a network name. Unknown prefixes come
// back as "TARJETA".
func CardBrand(number string) string {
	digits := digitsOnly(number)
	if digits == "" {
		return "TARJETA"
	}

	switch digits[0] {
	case '4':
		return "VISA"
	case '5':
		return "MASTERCARD"
	case '3':
		return "AMEX"
	default:
		return "TARJETA"
	}
}

// ValidateCard checks the form fields before any charge attempt. The number
// must carry exactly 16 digits after stripping separators, matching the input
// cap. Returns the first problem found as a validation error.
func ValidateCard(card CardDetails) error {
	digits := card.Digits()
	if len(digits) != 16 {
		return appErrors.ValidationError("Número de tarjeta inválido")
	}

	if strings.TrimSpace(card.HolderName) == "" {
		return appErrors.ValidationError("Ingresá el nombre del titular")
	}

	expiry := digitsOnly(card.Expiry)
	if len(expiry) != 4 {
		return appErrors.ValidationError("Fecha de vencimiento inválida")
	}

	month := int(expiry[0]-'0')*10 + int(expiry[1]-'0')
	if month < 1 || month > 12 {
		return appErrors.ValidationError("Mes de vencimiento inválido")
	}

	if len(card.CVV) < 3 || len(card.CVV) > 4 {
		return appErrors.ValidationError("Código de seguridad inválido")
	}

	return nil
}

// DemoCard is a pre-filled test card shown in the simulated gateway.
type DemoCard struct {
	Brand  string
	Number string
	Expiry string
	CVV    string
}

// DemoCards returns the test cards the simulator accepts out of the box.
func DemoCards() []DemoCard {
	return []DemoCard{
		{Brand: "VISA", Number: "4509 9535 6623 3704", Expiry: "11/26", CVV: "123"},
		{Brand: "MASTERCARD", Number: "5031 7557 3453 0604", Expiry: "12/27", CVV: "456"},
	}
}

// InstallmentOption is one financing choice for a card payment.
type InstallmentOption struct {
	Quotas     int
	PerQuota   decimal.Decimal
	Total      decimal.Decimal
	Surcharge  bool
	Multiplier decimal.Decimal
}

// InstallmentOptions returns the financing choices for an amount: 1, 3 and 6
// interest-free quotas plus 12 quotas at a 1.35 total multiplier.
func InstallmentOptions(amount decimal.Decimal) []InstallmentOption {
	one := decimal.NewFromInt(1)
	financed := decimal.NewFromFloat(1.35)

	options := make([]InstallmentOption, 0, 4)

	for _, quotas := range []int{1, 3, 6} {
		q := decimal.NewFromInt(int64(quotas))
		options = append(options, InstallmentOption{
			Quotas:     quotas,
			PerQuota:   amount.Div(q).Round(2),
			Total:      amount,
			Multiplier: one,
		})
	}

	total := amount.Mul(financed).Round(2)
	options = append(options, InstallmentOption{
		Quotas:     12,
		PerQuota:   total.Div(decimal.NewFromInt(12)).Round(2),
		Total:      total,
		Surcharge:  true,
		Multiplier: financed,
	})

	return options
}
