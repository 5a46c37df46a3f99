package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bakeplan/bakeplan/pkg/application/services/ledger"
	"github.com/bakeplan/bakeplan/pkg/application/services/reporting"
	"github.com/bakeplan/bakeplan/pkg/application/services/reservation"
	"github.com/bakeplan/bakeplan/pkg/application/services/resolver"
	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
	domainservices "github.com/bakeplan/bakeplan/pkg/domain/services"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/events"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/repositories/csv"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/repositories/gormdb"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/repositories/memory"
	"github.com/bakeplan/bakeplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir  string
	DatabasePath string
	OutputDir    string
	Format       string
	Verbose      bool
	Help         bool
}

// PlanCommand loads a scenario, reserves stock for every open order, and
// reports the resulting stock statuses and shopping list.
type PlanCommand struct {
	config Config
	logger *slog.Logger
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config, logger *slog.Logger) *PlanCommand {
	return &PlanCommand{
		config: config,
		logger: logger,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.ScenarioDir == "" {
		return fmt.Errorf("must specify a -scenario directory")
	}
	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	c.logger.Debug("loading scenario", "dir", c.config.ScenarioDir)

	scenario, err := c.loadScenario(files)
	if err != nil {
		return err
	}

	// Cross-check references before anything is reserved.
	validation := domainservices.NewScenarioValidator().Validate(scenario)
	if !validation.Valid() {
		return fmt.Errorf("scenario validation failed: %s", strings.Join(validation.Errors, "; "))
	}
	for _, categoryID := range validation.EmptyCategories {
		c.logger.Warn("category has no ingredients", "category", categoryID)
	}

	catalogRepo, recipeRepo, orderRepo, err := buildCollaborators(scenario)
	if err != nil {
		return err
	}
	stockRepo, reservationRepo, err := c.openStores()
	if err != nil {
		return err
	}

	eventStore := events.NewInMemoryEventStore()
	stockLedger := ledger.NewWithEvents(stockRepo, catalogRepo, eventStore)
	if err := seedStock(ctx, stockLedger, stockRepo, scenario.Batches); err != nil {
		return err
	}

	requirementResolver := resolver.New(orderRepo, recipeRepo, catalogRepo)
	manager := reservation.NewWithEvents(
		orderRepo, reservationRepo, stockRepo, catalogRepo,
		requirementResolver, stockLedger, eventStore)
	reporter := reporting.New(
		orderRepo, reservationRepo, stockRepo, catalogRepo,
		requirementResolver, stockLedger)

	openOrders, err := orderRepo.GetOpenOrders()
	if err != nil {
		return fmt.Errorf("failed to list open orders: %w", err)
	}
	c.logger.Info("reserving stock", "open_orders", len(openOrders))

	report := &output.Report{}
	for _, order := range openOrders {
		outcome, err := manager.Reserve(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to reserve order %s: %w", order.ID, err)
		}
		c.logger.Debug("order reserved",
			"order", order.ID,
			"reservations", len(outcome.Created),
			"fully_reserved", outcome.FullyReserved())

		statuses, err := reporter.OrderStockStatus(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to report order %s: %w", order.ID, err)
		}
		report.Orders = append(report.Orders, output.NewOrderReport(order, statuses))
	}

	shoppingList, err := reporter.ShoppingList(ctx)
	if err != nil {
		return fmt.Errorf("failed to build shopping list: %w", err)
	}
	report.ShoppingList = output.NewShoppingLines(shoppingList)

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}
	if err := output.Generate(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	c.logger.Info("planning complete",
		"orders", len(report.Orders),
		"shopping_list_entries", len(report.ShoppingList))
	return nil
}

// seedStock loads scenario batches into the stock store, skipping batches
// that are already present. A persistent store may carry deductions and
// active reservations from earlier runs; re-saving those batches at their
// scenario quantities would restore stock that is still committed.
func seedStock(ctx context.Context, stockLedger *ledger.StockLedger, stock repositories.StockRepository, batches []*entities.StockBatch) error {
	for _, batch := range batches {
		_, err := stock.GetBatch(batch.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("failed to check batch %s: %w", batch.ID, err)
		}
		if err := stockLedger.AddBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to seed stock: %w", err)
		}
	}
	return nil
}

// loadScenario reads all six scenario CSV files.
func (c *PlanCommand) loadScenario(files map[string]string) (*domainservices.Scenario, error) {
	loader := csv.NewLoader()
	scenario := &domainservices.Scenario{}
	var err error

	if scenario.Categories, err = loader.LoadCategories(files["Categories"]); err != nil {
		return nil, fmt.Errorf("error loading categories: %w", err)
	}
	if scenario.Ingredients, err = loader.LoadIngredients(files["Ingredients"]); err != nil {
		return nil, fmt.Errorf("error loading ingredients: %w", err)
	}
	if scenario.Recipes, err = loader.LoadRecipes(files["Recipes"]); err != nil {
		return nil, fmt.Errorf("error loading recipes: %w", err)
	}
	if scenario.Orders, err = loader.LoadOrders(files["Orders"]); err != nil {
		return nil, fmt.Errorf("error loading orders: %w", err)
	}
	if scenario.LineItems, err = loader.LoadLineItems(files["LineItems"]); err != nil {
		return nil, fmt.Errorf("error loading line items: %w", err)
	}
	if scenario.Batches, err = loader.LoadBatches(files["Batches"]); err != nil {
		return nil, fmt.Errorf("error loading batches: %w", err)
	}
	return scenario, nil
}

// buildCollaborators loads the externally-owned data sets (catalog, recipes,
// orders) into memory stores.
func buildCollaborators(scenario *domainservices.Scenario) (*memory.CatalogRepository, *memory.RecipeRepository, *memory.OrderRepository, error) {
	catalogRepo := memory.NewCatalogRepository()
	if err := catalogRepo.LoadCategories(scenario.Categories); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load categories into repository: %w", err)
	}
	if err := catalogRepo.LoadIngredients(scenario.Ingredients); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load ingredients into repository: %w", err)
	}

	recipeRepo := memory.NewRecipeRepository()
	if err := recipeRepo.LoadRecipes(scenario.Recipes); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load recipes into repository: %w", err)
	}

	orderRepo := memory.NewOrderRepository()
	if err := orderRepo.LoadOrders(scenario.Orders); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load orders into repository: %w", err)
	}
	if err := orderRepo.LoadLineItems(scenario.LineItems); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load line items into repository: %w", err)
	}

	return catalogRepo, recipeRepo, orderRepo, nil
}

// openStores returns the stock and reservation stores: SQLite-backed when a
// database path is configured, in-memory otherwise.
func (c *PlanCommand) openStores() (repositories.StockRepository, repositories.ReservationRepository, error) {
	if c.config.DatabasePath == "" {
		return memory.NewStockRepository(), memory.NewReservationRepository(), nil
	}
	db, err := gormdb.Open(c.config.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("using database", "path", c.config.DatabasePath)
	return gormdb.NewStockRepository(db), gormdb.NewReservationRepository(db), nil
}

// resolveInputFiles determines the scenario file paths and checks they exist
func (c *PlanCommand) resolveInputFiles() (map[string]string, error) {
	files := map[string]string{
		"Categories":  filepath.Join(c.config.ScenarioDir, "categories.csv"),
		"Ingredients": filepath.Join(c.config.ScenarioDir, "ingredients.csv"),
		"Recipes":     filepath.Join(c.config.ScenarioDir, "recipes.csv"),
		"Orders":      filepath.Join(c.config.ScenarioDir, "orders.csv"),
		"LineItems":   filepath.Join(c.config.ScenarioDir, "line_items.csv"),
		"Batches":     filepath.Join(c.config.ScenarioDir, "batches.csv"),
	}

	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}
	return files, nil
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Printf(`bakeplan - Ingredient reservation and shortage planning for bakeries

USAGE:
    bakeplan -scenario <directory>

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -db <file>          SQLite database for stock and reservations (optional)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json (default: text)
    -config <file>      Config file path (optional)
    -verbose            Enable verbose logging
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── categories.csv    # Ingredient categories with units
    ├── ingredients.csv   # Ingredients with package sizes
    ├── recipes.csv       # Recipe lines (one row per category used)
    ├── orders.csv        # Customer orders
    ├── line_items.csv    # Order line items
    └── batches.csv       # Stock batches on hand

CSV FILE FORMATS:

categories.csv:
    category_id,name,description,unit
    flour,Flour,Bread and pastry flour,g

ingredients.csv:
    ingredient_id,name,package_size,category_id
    wheat-flour,Wheat Flour T550,1000,flour

recipes.csv:
    recipe_id,name,output_yield,category_id,qty_per_batch
    sourdough,Sourdough Loaf,1,flour,100

orders.csv:
    order_id,customer_id,status,order_date,notes
    ord-1,cafe-luna,new,2026-03-02,

line_items.csv:
    line_item_id,order_id,recipe_id,quantity
    li-1,ord-1,sourdough,7

batches.csv:
    batch_id,ingredient_id,remaining,batch_number,expiry
    b1,wheat-flour,300,WF-001,2026-03-10

EXAMPLES:
    # Plan a scenario with text output
    bakeplan -scenario examples/bakery_basic -verbose

    # Persist stock and reservations to SQLite
    bakeplan -scenario examples/bakery_basic -db bakeplan.db

    # Generate JSON output into a directory
    bakeplan -scenario examples/bakery_basic -format json -output results/
`)
}
