// Package core provides money parsing and handling utilities.
//
// This file contains the parsing of raw form amounts into decimal magnitudes
// and the display formatting used by exports.
package core

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// displayFractionDigits matches the default locale rendering of numbers
// (at most three fraction digits).
const displayFractionDigits = 3

// ParseAmount converts a raw amount string to a positive magnitude.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. The
// input sign is discarded, since the sign of a stored amount is derived from
// the transaction type. Non-numbers and zero are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("-40")   -> 40, nil
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimPrefix(s, "+")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Abs()
	if d.IsZero() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders a signed amount with thousands separators,
// e.g. -1250 -> "-1,250" and 1234.5 -> "1,234.5".
func FormatAmount(d decimal.Decimal) string {
	return humanize.Commaf(d.Round(displayFractionDigits).InexactFloat64())
}

// FormatFixed renders an amount with two decimals, as shown on summary cards.
func FormatFixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}
