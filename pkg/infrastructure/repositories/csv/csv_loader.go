package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

// Loader reads bakery scenario data from CSV files. Each file carries a
// header row that is validated before any row is parsed, and parse errors
// name the offending row.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadCategories loads ingredient categories from a CSV file
func (l *Loader) LoadCategories(filename string) ([]*entities.Category, error) {
	records, err := readRecords(filename, "categories",
		[]string{"category_id", "name", "description", "unit"})
	if err != nil {
		return nil, err
	}

	var categories []*entities.Category
	for i, record := range records {
		category, err := entities.NewCategory(
			entities.CategoryID(record[0]), record[1], record[2], record[3])
		if err != nil {
			return nil, fmt.Errorf("categories CSV row %d: %w", i+2, err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// LoadIngredients loads ingredients from a CSV file
func (l *Loader) LoadIngredients(filename string) ([]*entities.Ingredient, error) {
	records, err := readRecords(filename, "ingredients",
		[]string{"ingredient_id", "name", "package_size", "category_id"})
	if err != nil {
		return nil, err
	}

	var ingredients []*entities.Ingredient
	for i, record := range records {
		packageSize, err := entities.ParseQuantity(record[2])
		if err != nil {
			return nil, fmt.Errorf("ingredients CSV row %d: invalid package_size %q", i+2, record[2])
		}
		ingredient, err := entities.NewIngredient(
			entities.IngredientID(record[0]), record[1], packageSize, entities.CategoryID(record[3]))
		if err != nil {
			return nil, fmt.Errorf("ingredients CSV row %d: %w", i+2, err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// LoadRecipes loads recipes from a CSV file holding one row per recipe line.
// Rows sharing a recipe_id are grouped into one recipe; the name and yield
// come from the first row of each group.
func (l *Loader) LoadRecipes(filename string) ([]*entities.Recipe, error) {
	records, err := readRecords(filename, "recipes",
		[]string{"recipe_id", "name", "output_yield", "category_id", "qty_per_batch"})
	if err != nil {
		return nil, err
	}

	type recipeDraft struct {
		name        string
		outputYield int
		lines       []entities.RecipeLine
	}
	drafts := make(map[entities.RecipeID]*recipeDraft)
	var order []entities.RecipeID

	for i, record := range records {
		id := entities.RecipeID(record[0])
		qtyPerBatch, err := entities.ParseQuantity(record[4])
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: invalid qty_per_batch %q", i+2, record[4])
		}

		draft, exists := drafts[id]
		if !exists {
			outputYield, err := strconv.Atoi(record[2])
			if err != nil {
				return nil, fmt.Errorf("recipes CSV row %d: invalid output_yield %q", i+2, record[2])
			}
			draft = &recipeDraft{name: record[1], outputYield: outputYield}
			drafts[id] = draft
			order = append(order, id)
		}
		draft.lines = append(draft.lines, entities.RecipeLine{
			CategoryID:  entities.CategoryID(record[3]),
			QtyPerBatch: qtyPerBatch,
		})
	}

	var recipes []*entities.Recipe
	for _, id := range order {
		draft := drafts[id]
		recipe, err := entities.NewRecipe(id, draft.name, draft.outputYield, draft.lines)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV: recipe %s: %w", id, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// LoadOrders loads customer orders from a CSV file
func (l *Loader) LoadOrders(filename string) ([]*entities.Order, error) {
	records, err := readRecords(filename, "orders",
		[]string{"order_id", "customer_id", "status", "order_date", "notes"})
	if err != nil {
		return nil, err
	}

	var orders []*entities.Order
	for i, record := range records {
		status, err := entities.ParseOrderStatus(record[2])
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: %w", i+2, err)
		}
		orderDate, err := time.Parse("2006-01-02", record[3])
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: invalid order_date %q (expected YYYY-MM-DD)", i+2, record[3])
		}
		order, err := entities.NewOrder(
			entities.OrderID(record[0]), record[1], status, orderDate, record[4])
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: %w", i+2, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// LoadLineItems loads order line items from a CSV file
func (l *Loader) LoadLineItems(filename string) ([]*entities.LineItem, error) {
	records, err := readRecords(filename, "line items",
		[]string{"line_item_id", "order_id", "recipe_id", "quantity"})
	if err != nil {
		return nil, err
	}

	var items []*entities.LineItem
	for i, record := range records {
		quantity, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("line items CSV row %d: invalid quantity %q", i+2, record[3])
		}
		item, err := entities.NewLineItem(
			entities.LineItemID(record[0]), entities.OrderID(record[1]),
			entities.RecipeID(record[2]), quantity)
		if err != nil {
			return nil, fmt.Errorf("line items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadBatches loads stock batches from a CSV file. The expiry column may be
// empty for batches without an expiry date.
func (l *Loader) LoadBatches(filename string) ([]*entities.StockBatch, error) {
	records, err := readRecords(filename, "batches",
		[]string{"batch_id", "ingredient_id", "remaining", "batch_number", "expiry"})
	if err != nil {
		return nil, err
	}

	var batches []*entities.StockBatch
	for i, record := range records {
		remaining, err := entities.ParseQuantity(record[2])
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: invalid remaining %q", i+2, record[2])
		}

		var expiry *time.Time
		if strings.TrimSpace(record[4]) != "" {
			parsed, err := time.Parse("2006-01-02", record[4])
			if err != nil {
				return nil, fmt.Errorf("batches CSV row %d: invalid expiry %q (expected YYYY-MM-DD)", i+2, record[4])
			}
			expiry = &parsed
		}

		batch, err := entities.NewStockBatch(
			entities.BatchID(record[0]), entities.IngredientID(record[1]),
			remaining, record[3], expiry)
		if err != nil {
			return nil, fmt.Errorf("batches CSV row %d: %w", i+2, err)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// readRecords opens a CSV file, validates its header, and returns the data
// rows. Every row is checked for the expected column count.
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, records[0])
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}
