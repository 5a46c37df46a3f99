package memory

import (
	"fmt"
	"sync"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// CatalogRepository provides in-memory category and ingredient storage
type CatalogRepository struct {
	mu          sync.RWMutex
	categories  map[entities.CategoryID]*entities.Category
	ingredients map[entities.IngredientID]*entities.Ingredient
	// insertion order, for deterministic listings
	categoryOrder   []entities.CategoryID
	ingredientOrder []entities.IngredientID
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		categories:  make(map[entities.CategoryID]*entities.Category),
		ingredients: make(map[entities.IngredientID]*entities.Ingredient),
	}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// LoadCategories loads categories into the repository
func (r *CatalogRepository) LoadCategories(categories []*entities.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range categories {
		if _, exists := r.categories[c.ID]; !exists {
			r.categoryOrder = append(r.categoryOrder, c.ID)
		}
		copied := *c
		r.categories[c.ID] = &copied
	}
	return nil
}

// LoadIngredients loads ingredients into the repository
func (r *CatalogRepository) LoadIngredients(ingredients []*entities.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ing := range ingredients {
		if _, exists := r.ingredients[ing.ID]; !exists {
			r.ingredientOrder = append(r.ingredientOrder, ing.ID)
		}
		copied := *ing
		r.ingredients[ing.ID] = &copied
	}
	return nil
}

// GetCategory returns the category with the given id
func (r *CatalogRepository) GetCategory(id entities.CategoryID) (*entities.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.categories[id]
	if !exists {
		return nil, fmt.Errorf("category %s: %w", id, entities.ErrNotFound)
	}
	copied := *c
	return &copied, nil
}

// GetAllCategories returns all categories in insertion order
func (r *CatalogRepository) GetAllCategories() ([]*entities.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var categories []*entities.Category
	for _, id := range r.categoryOrder {
		copied := *r.categories[id]
		categories = append(categories, &copied)
	}
	return categories, nil
}

// GetIngredient returns the ingredient with the given id
func (r *CatalogRepository) GetIngredient(id entities.IngredientID) (*entities.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ing, exists := r.ingredients[id]
	if !exists {
		return nil, fmt.Errorf("ingredient %s: %w", id, entities.ErrNotFound)
	}
	copied := *ing
	return &copied, nil
}

// GetIngredientsInCategory returns the ingredients belonging to a category
// in insertion order.
func (r *CatalogRepository) GetIngredientsInCategory(categoryID entities.CategoryID) ([]*entities.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.categories[categoryID]; !exists {
		return nil, fmt.Errorf("category %s: %w", categoryID, entities.ErrNotFound)
	}

	var ingredients []*entities.Ingredient
	for _, id := range r.ingredientOrder {
		ing := r.ingredients[id]
		if ing.CategoryID == categoryID {
			copied := *ing
			ingredients = append(ingredients, &copied)
		}
	}
	return ingredients, nil
}
