package decimal

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/ubl/internal/model"
)

// Precision limits for UBL numeric fields
const (
	// AmountScale is the maximum fraction digits of a monetary amount (BR-DEC rules)
	AmountScale = 2
	// QuantityScale is the maximum fraction digits accepted for quantities and unit prices
	QuantityScale = 6
)

// Scale returns the number of significant fraction digits of d.
// Trailing zeros do not count: 10.50 has scale 1.
func Scale(d decimal.Decimal) int32 {
	exp := -d.Exponent()
	if exp <= 0 {
		return 0
	}
	for s := int32(0); s < exp; s++ {
		if d.Equal(d.Truncate(s)) {
			return s
		}
	}
	return exp
}

// CheckAmount verifies a monetary amount can be written without rounding
func CheckAmount(field string, d decimal.Decimal) error {
	if Scale(d) > AmountScale {
		return model.NewNumericFormatError(field, d.String(), "amount allows at most 2 fraction digits")
	}
	return nil
}

// CheckQuantity verifies a quantity or unit price can be written without rounding
func CheckQuantity(field string, d decimal.Decimal) error {
	if Scale(d) > QuantityScale {
		return model.NewNumericFormatError(field, d.String(), "quantity allows at most 6 fraction digits")
	}
	return nil
}

// FormatAmount renders an amount with exactly two fraction digits, e.g. 1234.50.
// No exponent, no thousands separator.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}

// FormatQuantity renders a quantity or price with the digits it needs.
// Integral values keep no fraction: 2, 2.5, 0.125.
func FormatQuantity(d decimal.Decimal) string {
	return d.StringFixed(Scale(d))
}

// FormatPercent renders a tax rate the way Peppol samples do: 21, 5.5
func FormatPercent(d decimal.Decimal) string {
	return FormatQuantity(d)
}
