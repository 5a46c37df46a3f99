package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity represents an ingredient amount in the owning category's unit.
// Decimal arithmetic keeps the ledger conservation checks exact for
// fractional amounts (grams, litres).
type Quantity = decimal.Decimal

// ZeroQuantity returns the zero amount.
func ZeroQuantity() Quantity {
	return decimal.Zero
}

// ParseQuantity parses a decimal quantity from its string form.
func ParseQuantity(s string) (Quantity, error) {
	q, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return q, nil
}

// MinQuantity returns the smaller of two quantities.
func MinQuantity(a, b Quantity) Quantity {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ClampQuantity returns q, or zero when q is negative.
func ClampQuantity(q Quantity) Quantity {
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}
