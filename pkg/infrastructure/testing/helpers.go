package testing

import (
	"time"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/repositories/memory"
)

// Repos bundles the in-memory stores a test scenario runs against.
type Repos struct {
	Catalog      *memory.CatalogRepository
	Recipes      *memory.RecipeRepository
	Orders       *memory.OrderRepository
	Stock        *memory.StockRepository
	Reservations *memory.ReservationRepository
}

// BuildBakeryTestData builds the two-batch flour scenario used throughout
// the service tests: one open order for 7 sourdough loaves needing 700 g of
// flour, covered by a 300 g batch expiring first and a 500 g batch expiring
// later, plus a butter category with no stock at all.
func BuildBakeryTestData() *Repos {
	repos := &Repos{
		Catalog:      memory.NewCatalogRepository(),
		Recipes:      memory.NewRecipeRepository(),
		Orders:       memory.NewOrderRepository(),
		Stock:        memory.NewStockRepository(),
		Reservations: memory.NewReservationRepository(),
	}

	categories := []*entities.Category{
		mustCategory("flour", "Flour", "Bread and pastry flour", "g"),
		mustCategory("butter", "Butter", "Unsalted butter", "g"),
	}
	if err := repos.Catalog.LoadCategories(categories); err != nil {
		panic(err)
	}

	ingredients := []*entities.Ingredient{
		mustIngredient("wheat-flour", "Wheat Flour T550", qty("1000"), "flour"),
		mustIngredient("rye-flour", "Rye Flour T1150", qty("1000"), "flour"),
		mustIngredient("butter-82", "Butter 82%", qty("250"), "butter"),
	}
	if err := repos.Catalog.LoadIngredients(ingredients); err != nil {
		panic(err)
	}

	recipes := []*entities.Recipe{
		mustRecipe("sourdough", "Sourdough Loaf", 1, []entities.RecipeLine{
			{CategoryID: "flour", QtyPerBatch: qty("100")},
		}),
		mustRecipe("croissant", "Croissant Dozen", 12, []entities.RecipeLine{
			{CategoryID: "flour", QtyPerBatch: qty("50")},
			{CategoryID: "butter", QtyPerBatch: qty("60")},
		}),
	}
	if err := repos.Recipes.LoadRecipes(recipes); err != nil {
		panic(err)
	}

	orderDate := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	orders := []*entities.Order{
		mustOrder("ord-1", "cafe-luna", entities.StatusNew, orderDate, ""),
	}
	if err := repos.Orders.LoadOrders(orders); err != nil {
		panic(err)
	}

	items := []*entities.LineItem{
		mustLineItem("li-1", "ord-1", "sourdough", 7),
	}
	if err := repos.Orders.LoadLineItems(items); err != nil {
		panic(err)
	}

	early := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	batches := []*entities.StockBatch{
		mustBatch("batch-early", "wheat-flour", qty("300"), "WF-001", &early),
		mustBatch("batch-late", "rye-flour", qty("500"), "RF-001", &late),
	}
	for _, batch := range batches {
		if err := repos.Stock.SaveBatch(batch); err != nil {
			panic(err)
		}
	}

	return repos
}

func qty(s string) entities.Quantity {
	q, err := entities.ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

func mustCategory(id entities.CategoryID, name, description, unit string) *entities.Category {
	c, err := entities.NewCategory(id, name, description, unit)
	if err != nil {
		panic(err)
	}
	return c
}

func mustIngredient(id entities.IngredientID, name string, packageSize entities.Quantity, categoryID entities.CategoryID) *entities.Ingredient {
	i, err := entities.NewIngredient(id, name, packageSize, categoryID)
	if err != nil {
		panic(err)
	}
	return i
}

func mustRecipe(id entities.RecipeID, name string, outputYield int, lines []entities.RecipeLine) *entities.Recipe {
	r, err := entities.NewRecipe(id, name, outputYield, lines)
	if err != nil {
		panic(err)
	}
	return r
}

func mustOrder(id entities.OrderID, customerID string, status entities.OrderStatus, orderDate time.Time, notes string) *entities.Order {
	o, err := entities.NewOrder(id, customerID, status, orderDate, notes)
	if err != nil {
		panic(err)
	}
	return o
}

func mustLineItem(id entities.LineItemID, orderID entities.OrderID, recipeID entities.RecipeID, quantity int) *entities.LineItem {
	li, err := entities.NewLineItem(id, orderID, recipeID, quantity)
	if err != nil {
		panic(err)
	}
	return li
}

func mustBatch(id entities.BatchID, ingredientID entities.IngredientID, remaining entities.Quantity, batchNumber string, expiry *time.Time) *entities.StockBatch {
	b, err := entities.NewStockBatch(id, ingredientID, remaining, batchNumber, expiry)
	if err != nil {
		panic(err)
	}
	return b
}
