package services

import (
	"fmt"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

// ScenarioValidator checks the referential integrity of a loaded scenario
// before any planning runs, so dangling references surface as one validation
// report instead of mid-allocation failures.
type ScenarioValidator struct{}

// NewScenarioValidator creates a new scenario validator
func NewScenarioValidator() *ScenarioValidator {
	return &ScenarioValidator{}
}

// Scenario bundles the data sets the validator cross-checks.
type Scenario struct {
	Categories  []*entities.Category
	Ingredients []*entities.Ingredient
	Recipes     []*entities.Recipe
	Orders      []*entities.Order
	LineItems   []*entities.LineItem
	Batches     []*entities.StockBatch
}

// ValidationResult contains the results of scenario validation
type ValidationResult struct {
	EmptyCategories []entities.CategoryID
	Errors          []string
}

// Valid reports whether the scenario can be planned as-is. Empty categories
// are a warning, not an error.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate cross-checks every reference in the scenario: ingredients to
// categories, recipe lines to categories, line items to orders and recipes,
// and batches to ingredients. It also flags categories no ingredient
// belongs to, since requirements in those categories can never be reserved.
func (v *ScenarioValidator) Validate(s *Scenario) *ValidationResult {
	result := &ValidationResult{
		EmptyCategories: make([]entities.CategoryID, 0),
		Errors:          make([]string, 0),
	}

	categories := make(map[entities.CategoryID]bool, len(s.Categories))
	for _, category := range s.Categories {
		if categories[category.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate category %s", category.ID))
		}
		categories[category.ID] = true
	}

	ingredients := make(map[entities.IngredientID]bool, len(s.Ingredients))
	populated := make(map[entities.CategoryID]bool)
	for _, ingredient := range s.Ingredients {
		if ingredients[ingredient.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate ingredient %s", ingredient.ID))
		}
		ingredients[ingredient.ID] = true
		if !categories[ingredient.CategoryID] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("ingredient %s references unknown category %s", ingredient.ID, ingredient.CategoryID))
			continue
		}
		populated[ingredient.CategoryID] = true
	}

	recipes := make(map[entities.RecipeID]bool, len(s.Recipes))
	for _, recipe := range s.Recipes {
		recipes[recipe.ID] = true
		for _, line := range recipe.Lines {
			if !categories[line.CategoryID] {
				result.Errors = append(result.Errors,
					fmt.Sprintf("recipe %s references unknown category %s", recipe.ID, line.CategoryID))
			}
		}
	}

	orders := make(map[entities.OrderID]bool, len(s.Orders))
	for _, order := range s.Orders {
		orders[order.ID] = true
	}
	for _, item := range s.LineItems {
		if !orders[item.OrderID] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("line item %s references unknown order %s", item.ID, item.OrderID))
		}
		if !recipes[item.RecipeID] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("line item %s references unknown recipe %s", item.ID, item.RecipeID))
		}
	}

	for _, batch := range s.Batches {
		if !ingredients[batch.IngredientID] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("batch %s references unknown ingredient %s", batch.ID, batch.IngredientID))
		}
	}

	for id := range categories {
		if !populated[id] {
			result.EmptyCategories = append(result.EmptyCategories, id)
		}
	}

	return result
}
