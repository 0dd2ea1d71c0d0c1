// Package core provides price parsing and conversion utilities.
//
// Prices are carried as decimals in memory and persisted as integer cents,
// so range filters and sums stay exact.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

// PriceToCents converts a price to cents, rounding half away from zero on the third decimal.
//
// Examples:
//
//	PriceToCents(12.34)  -> 1234
//	PriceToCents(12.345) -> 1235
//	PriceToCents(12.344) -> 1234
func PriceToCents(p decimal.Decimal) int64 {
	return p.Shift(2).Round(0).IntPart()
}

// PriceFromCents is the inverse of PriceToCents.
func PriceFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// PriceText renders a price with exactly two decimals ("44.60", "10.00").
// Search matches against this text.
func PriceText(p decimal.Decimal) string {
	return PriceFromCents(PriceToCents(p)).StringFixed(2)
}

// ParsePrice accepts dot or comma decimal separators. Negative values are rejected.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidPrice
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	return d, nil
}
