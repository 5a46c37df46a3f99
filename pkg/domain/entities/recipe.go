package entities

import "fmt"

// RecipeID identifies a recipe.
type RecipeID string

// RecipeLine is one requirement line of a recipe: the category and the
// quantity needed per produced batch. A recipe may list the same category on
// more than one line.
type RecipeLine struct {
	CategoryID  CategoryID
	QtyPerBatch Quantity
}

// Recipe describes how one production batch is made. OutputYield is the
// number of product units a single batch produces.
type Recipe struct {
	ID          RecipeID
	Name        string
	OutputYield int
	Lines       []RecipeLine
}

// NewRecipe creates a validated Recipe.
func NewRecipe(id RecipeID, name string, outputYield int, lines []RecipeLine) (*Recipe, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("recipe id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("recipe name cannot be empty")
	}
	if outputYield < 1 {
		return nil, fmt.Errorf("output yield must be at least 1, got %d", outputYield)
	}
	for i, line := range lines {
		if string(line.CategoryID) == "" {
			return nil, fmt.Errorf("recipe line %d: category id cannot be empty", i)
		}
		if !line.QtyPerBatch.IsPositive() {
			return nil, fmt.Errorf("recipe line %d: quantity per batch must be positive, got %s", i, line.QtyPerBatch)
		}
	}

	return &Recipe{
		ID:          id,
		Name:        name,
		OutputYield: outputYield,
		Lines:       lines,
	}, nil
}
