// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Currency values are serialized as JSON numbers with 2 implied
	// decimals, not as strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point drift across repeated
// additions.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: prefer NewMoneyFromString for exact values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromInt creates a Money value from an integer.
func NewMoneyFromInt(n int64) Money {
	return decimal.NewFromInt(n)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds a monetary value to 2 decimal places.
// Applied at computation boundaries (subtotal, GST, grand total);
// intermediate accumulation keeps full precision.
func Round2(m Money) Money {
	return m.Round(2)
}

// Percent returns amount * pct / 100, rounded to 2 decimal places.
func Percent(amount, pct Money) Money {
	return Round2(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}
