package memory

import (
	"fmt"
	"sync"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe storage
type RecipeRepository struct {
	mu      sync.RWMutex
	recipes map[entities.RecipeID]*entities.Recipe
	order   []entities.RecipeID
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{
		recipes: make(map[entities.RecipeID]*entities.Recipe),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes into the repository
func (r *RecipeRepository) LoadRecipes(recipes []*entities.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, recipe := range recipes {
		if _, exists := r.recipes[recipe.ID]; !exists {
			r.order = append(r.order, recipe.ID)
		}
		copied := *recipe
		copied.Lines = append([]entities.RecipeLine(nil), recipe.Lines...)
		r.recipes[recipe.ID] = &copied
	}
	return nil
}

// GetRecipe returns the recipe with the given id
func (r *RecipeRepository) GetRecipe(id entities.RecipeID) (*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, exists := r.recipes[id]
	if !exists {
		return nil, fmt.Errorf("recipe %s: %w", id, entities.ErrNotFound)
	}
	copied := *recipe
	copied.Lines = append([]entities.RecipeLine(nil), recipe.Lines...)
	return &copied, nil
}

// GetAllRecipes returns all recipes in insertion order
func (r *RecipeRepository) GetAllRecipes() ([]*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var recipes []*entities.Recipe
	for _, id := range r.order {
		recipe := r.recipes[id]
		copied := *recipe
		copied.Lines = append([]entities.RecipeLine(nil), recipe.Lines...)
		recipes = append(recipes, &copied)
	}
	return recipes, nil
}
