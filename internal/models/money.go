package models

import (
	"github.com/shopspring/decimal"
)

// Money is an amount with two fractional digits. It is stored in a DECIMAL
// column and serialized as a bare JSON number ("40.00", never "\"40\"").
type Money struct {
	decimal.Decimal
}

// MaxAmount is the largest value a DECIMAL(10,2) column holds.
var MaxAmount = decimal.New(9999999999, -2)

// NewMoney rounds d half-up to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

// MoneyFromFloat is a convenience for seeds and tests.
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// MarshalJSON writes the amount as a JSON number with exactly two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

// Exceeds reports whether m does not fit a DECIMAL(10,2) column.
func (m Money) Exceeds() bool {
	return m.GreaterThan(MaxAmount)
}
