package entities

import "fmt"

// CategoryID identifies an ingredient category.
type CategoryID string

// Category is the unit-of-measure-bearing grouping that recipes reference.
// The unit is authoritative: every stock batch and every recipe line naming
// this category is interpreted in this unit.
type Category struct {
	ID          CategoryID
	Name        string
	Description string
	Unit        string
}

// NewCategory creates a validated Category.
func NewCategory(id CategoryID, name, description, unit string) (*Category, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("category id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("category name cannot be empty")
	}
	if unit == "" {
		return nil, fmt.Errorf("category unit cannot be empty")
	}

	return &Category{
		ID:          id,
		Name:        name,
		Description: description,
		Unit:        unit,
	}, nil
}
