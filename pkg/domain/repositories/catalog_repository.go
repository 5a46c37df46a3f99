package repositories

import "github.com/bakeplan/bakeplan/pkg/domain/entities"

// CatalogRepository provides access to ingredient categories and the
// purchasable ingredients belonging to them.
type CatalogRepository interface {
	GetCategory(id entities.CategoryID) (*entities.Category, error)
	GetAllCategories() ([]*entities.Category, error)
	GetIngredient(id entities.IngredientID) (*entities.Ingredient, error)
	GetIngredientsInCategory(categoryID entities.CategoryID) ([]*entities.Ingredient, error)
	LoadCategories(categories []*entities.Category) error
	LoadIngredients(ingredients []*entities.Ingredient) error
}
