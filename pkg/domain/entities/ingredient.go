package entities

import "fmt"

// IngredientID identifies a purchasable raw material.
type IngredientID string

// Ingredient is a specific purchasable raw material belonging to exactly one
// category. PackageSize is the quantity (in the category unit) contained in
// one purchased unit, e.g. 5000g per bag of flour.
type Ingredient struct {
	ID          IngredientID
	Name        string
	PackageSize Quantity
	CategoryID  CategoryID
}

// NewIngredient creates a validated Ingredient.
func NewIngredient(id IngredientID, name string, packageSize Quantity, categoryID CategoryID) (*Ingredient, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("ingredient id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("ingredient name cannot be empty")
	}
	if !packageSize.IsPositive() {
		return nil, fmt.Errorf("package size must be positive, got %s", packageSize)
	}
	if string(categoryID) == "" {
		return nil, fmt.Errorf("category id cannot be empty")
	}

	return &Ingredient{
		ID:          id,
		Name:        name,
		PackageSize: packageSize,
		CategoryID:  categoryID,
	}, nil
}
