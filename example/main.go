package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bakeplan/bakeplan/pkg/application/services/ledger"
	"github.com/bakeplan/bakeplan/pkg/application/services/reporting"
	"github.com/bakeplan/bakeplan/pkg/application/services/reservation"
	"github.com/bakeplan/bakeplan/pkg/application/services/resolver"
	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Create repositories
	catalogRepo := memory.NewCatalogRepository()
	recipeRepo := memory.NewRecipeRepository()
	orderRepo := memory.NewOrderRepository()
	stockRepo := memory.NewStockRepository()
	reservationRepo := memory.NewReservationRepository()

	setupBakeryScenario(catalogRepo, recipeRepo, orderRepo)

	// Create services
	stockLedger := ledger.New(stockRepo, catalogRepo)
	requirementResolver := resolver.New(orderRepo, recipeRepo, catalogRepo)
	manager := reservation.New(orderRepo, reservationRepo, stockRepo, catalogRepo, requirementResolver, stockLedger)
	reporter := reporting.New(orderRepo, reservationRepo, stockRepo, catalogRepo, requirementResolver, stockLedger)

	// Two flour batches on hand: 300 g expiring first, 500 g expiring later.
	early := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	addBatch(ctx, stockLedger, "wheat-flour", "300", "WF-001", &early)
	addBatch(ctx, stockLedger, "rye-flour", "500", "RF-001", &late)

	fmt.Println("🥖 Planning stock for Cafe Luna's order of 7 sourdough loaves...")
	fmt.Println()

	// Reserve flour for the order
	outcome, err := manager.Reserve(ctx, "ord-1")
	if err != nil {
		fmt.Printf("❌ Reservation failed: %v\n", err)
		return
	}

	fmt.Println("📊 Reservations:")
	for _, res := range outcome.Created {
		fmt.Printf("  %s g from batch %s\n", res.Qty, res.BatchID)
	}
	fmt.Printf("  Fully reserved: %v\n", outcome.FullyReserved())
	fmt.Println()

	// Show the order's stock status
	statuses, err := reporter.OrderStockStatus(ctx, "ord-1")
	if err != nil {
		fmt.Printf("❌ Reporting failed: %v\n", err)
		return
	}

	fmt.Println("📋 Stock status:")
	for _, status := range statuses {
		fmt.Printf("  %s: required %s %s, reserved %s, available %s, shortage %s (%s)\n",
			status.CategoryID, status.Required, status.Unit,
			status.Reserved, status.Available, status.Shortage, status.Level)
	}
}

func setupBakeryScenario(
	catalogRepo *memory.CatalogRepository,
	recipeRepo *memory.RecipeRepository,
	orderRepo *memory.OrderRepository,
) {
	flour, err := entities.NewCategory("flour", "Flour", "Bread and pastry flour", "g")
	must(err)
	must(catalogRepo.LoadCategories([]*entities.Category{flour}))

	packageSize := decimal.NewFromInt(1000)
	wheat, err := entities.NewIngredient("wheat-flour", "Wheat Flour T550", packageSize, "flour")
	must(err)
	rye, err := entities.NewIngredient("rye-flour", "Rye Flour T1150", packageSize, "flour")
	must(err)
	must(catalogRepo.LoadIngredients([]*entities.Ingredient{wheat, rye}))

	sourdough, err := entities.NewRecipe("sourdough", "Sourdough Loaf", 1, []entities.RecipeLine{
		{CategoryID: "flour", QtyPerBatch: decimal.NewFromInt(100)},
	})
	must(err)
	must(recipeRepo.LoadRecipes([]*entities.Recipe{sourdough}))

	order, err := entities.NewOrder("ord-1", "cafe-luna", entities.StatusNew,
		time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), "")
	must(err)
	must(orderRepo.LoadOrders([]*entities.Order{order}))

	item, err := entities.NewLineItem("li-1", "ord-1", "sourdough", 7)
	must(err)
	must(orderRepo.LoadLineItems([]*entities.LineItem{item}))
}

func addBatch(ctx context.Context, l *ledger.StockLedger, ingredientID entities.IngredientID, remaining, batchNumber string, expiry *time.Time) {
	qty, err := entities.ParseQuantity(remaining)
	must(err)
	batch, err := entities.NewStockBatch("", ingredientID, qty, batchNumber, expiry)
	must(err)
	must(l.AddBatch(ctx, batch))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
