// Package core holds the domain records and the pure aggregation functions
// that the pages and exports are built from.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-supplied amount string into a decimal with
// two-decimal currency semantics. The amount must be strictly positive;
// zero, negative, and malformed inputs are rejected. A third decimal place
// is rounded half-up.
//
// Examples:
//
//	ParseAmount("10.50") -> 10.5, nil
//	ParseAmount("0")     -> error
//	ParseAmount("-5")    -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// FormatAmount renders a decimal with exactly two decimal places, the way
// every table and export row shows amounts.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
