package entities

import "errors"

var (
	// ErrNotFound indicates a referenced order, line item, recipe, category,
	// ingredient, batch, or reservation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock indicates a deduction larger than a batch's
	// remaining quantity. The reservation manager caps its deductions at the
	// remaining quantity, so seeing this error means a caller bypassed it.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity indicates a zero or negative quantity supplied to a
	// mutating operation.
	ErrInvalidQuantity = errors.New("invalid quantity")
)
