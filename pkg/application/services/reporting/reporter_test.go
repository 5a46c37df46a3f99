package reporting

import (
	"context"
	"testing"

	"github.com/bakeplan/bakeplan/pkg/application/services/ledger"
	"github.com/bakeplan/bakeplan/pkg/application/services/reservation"
	"github.com/bakeplan/bakeplan/pkg/application/services/resolver"
	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	testhelpers "github.com/bakeplan/bakeplan/pkg/infrastructure/testing"
)

func mustQty(t *testing.T, s string) entities.Quantity {
	t.Helper()
	q, err := entities.ParseQuantity(s)
	if err != nil {
		t.Fatalf("ParseQuantity(%q) failed: %v", s, err)
	}
	return q
}

type fixture struct {
	repos    *testhelpers.Repos
	manager  *reservation.Manager
	reporter *Reporter
}

func newFixture(repos *testhelpers.Repos) *fixture {
	l := ledger.New(repos.Stock, repos.Catalog)
	r := resolver.New(repos.Orders, repos.Recipes, repos.Catalog)
	return &fixture{
		repos:    repos,
		manager:  reservation.New(repos.Orders, repos.Reservations, repos.Stock, repos.Catalog, r, l),
		reporter: New(repos.Orders, repos.Reservations, repos.Stock, repos.Catalog, r, l),
	}
}

func (f *fixture) flourStatus(t *testing.T, orderID entities.OrderID) entities.CategoryStockStatus {
	t.Helper()
	statuses, err := f.reporter.OrderStockStatus(context.Background(), orderID)
	if err != nil {
		t.Fatalf("OrderStockStatus failed: %v", err)
	}
	for _, status := range statuses {
		if status.CategoryID == "flour" {
			return status
		}
	}
	t.Fatal("no flour status in report")
	return entities.CategoryStockStatus{}
}

func TestOrderStockStatusBeforeReserve(t *testing.T) {
	f := newFixture(testhelpers.BuildBakeryTestData())

	status := f.flourStatus(t, "ord-1")
	if !status.Required.Equal(mustQty(t, "700")) {
		t.Errorf("expected 700 g required, got %s", status.Required)
	}
	if !status.Reserved.IsZero() {
		t.Errorf("expected nothing reserved, got %s", status.Reserved)
	}
	if !status.Available.Equal(mustQty(t, "800")) {
		t.Errorf("expected 800 g available, got %s", status.Available)
	}
	if !status.Shortage.IsZero() {
		t.Errorf("expected no shortage, got %s", status.Shortage)
	}
	if status.Level != entities.NotReserved {
		t.Errorf("expected NotReserved, got %s", status.Level)
	}
	if status.Unit != "g" {
		t.Errorf("expected unit g, got %q", status.Unit)
	}
}

func TestOrderStockStatusAfterReserve(t *testing.T) {
	f := newFixture(testhelpers.BuildBakeryTestData())
	if _, err := f.manager.Reserve(context.Background(), "ord-1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	status := f.flourStatus(t, "ord-1")
	if !status.Reserved.Equal(mustQty(t, "700")) {
		t.Errorf("expected 700 g reserved, got %s", status.Reserved)
	}
	if !status.Available.Equal(mustQty(t, "100")) {
		t.Errorf("expected 100 g still available, got %s", status.Available)
	}
	if !status.Shortage.IsZero() {
		t.Errorf("expected no shortage, got %s", status.Shortage)
	}
	if status.Level != entities.Fulfilled {
		t.Errorf("expected Fulfilled, got %s", status.Level)
	}
}

func TestOrderStockStatusShortage(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()

	// Demand grows to 900 g against 800 g of stock.
	extra, err := entities.NewLineItem("li-2", "ord-1", "sourdough", 2)
	if err != nil {
		t.Fatalf("NewLineItem failed: %v", err)
	}
	if err := repos.Orders.LoadLineItems([]*entities.LineItem{extra}); err != nil {
		t.Fatalf("LoadLineItems failed: %v", err)
	}

	f := newFixture(repos)
	if _, err := f.manager.Reserve(context.Background(), "ord-1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	status := f.flourStatus(t, "ord-1")
	if !status.Required.Equal(mustQty(t, "900")) {
		t.Errorf("expected 900 g required, got %s", status.Required)
	}
	if !status.Reserved.Equal(mustQty(t, "800")) {
		t.Errorf("expected 800 g reserved, got %s", status.Reserved)
	}
	if !status.Available.IsZero() {
		t.Errorf("expected nothing available, got %s", status.Available)
	}
	if !status.Shortage.Equal(mustQty(t, "100")) {
		t.Errorf("expected 100 g shortage, got %s", status.Shortage)
	}
	if status.Level != entities.AtRisk {
		t.Errorf("expected AtRisk, got %s", status.Level)
	}
}

func TestOrderStockStatusPartial(t *testing.T) {
	f := newFixture(testhelpers.BuildBakeryTestData())
	ctx := context.Background()

	outcome, err := f.manager.Reserve(ctx, "ord-1")
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	// Hand back the 400 g reservation; 300 g stays committed and the freed
	// stock still covers the rest.
	if _, err := f.manager.Release(ctx, outcome.Created[1].ID); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	status := f.flourStatus(t, "ord-1")
	if !status.Reserved.Equal(mustQty(t, "300")) {
		t.Errorf("expected 300 g reserved, got %s", status.Reserved)
	}
	if !status.Shortage.IsZero() {
		t.Errorf("expected no shortage, got %s", status.Shortage)
	}
	if status.Level != entities.Partial {
		t.Errorf("expected Partial, got %s", status.Level)
	}
}

func TestShoppingListEmptyWhenCovered(t *testing.T) {
	f := newFixture(testhelpers.BuildBakeryTestData())
	if _, err := f.manager.Reserve(context.Background(), "ord-1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	entries, err := f.reporter.ShoppingList(context.Background())
	if err != nil {
		t.Fatalf("ShoppingList failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty shopping list, got %d entries", len(entries))
	}
}

func TestShoppingListReportsShortfall(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()

	// A croissant line item adds butter demand with zero butter stock and
	// pushes flour demand past what the ledger holds.
	extra, err := entities.NewLineItem("li-2", "ord-1", "croissant", 4)
	if err != nil {
		t.Fatalf("NewLineItem failed: %v", err)
	}
	if err := repos.Orders.LoadLineItems([]*entities.LineItem{extra}); err != nil {
		t.Fatalf("LoadLineItems failed: %v", err)
	}

	f := newFixture(repos)
	entries, err := f.reporter.ShoppingList(context.Background())
	if err != nil {
		t.Fatalf("ShoppingList failed: %v", err)
	}

	// Flour: 700 + 200 required against 800 in stock. Butter: 240 against
	// nothing. Entries come back sorted by category id.
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].CategoryID != "butter" || !entries[0].Shortfall.Equal(mustQty(t, "240")) {
		t.Errorf("expected 240 g butter shortfall, got %s of %s", entries[0].Shortfall, entries[0].CategoryID)
	}
	if entries[1].CategoryID != "flour" || !entries[1].Shortfall.Equal(mustQty(t, "100")) {
		t.Errorf("expected 100 g flour shortfall, got %s of %s", entries[1].Shortfall, entries[1].CategoryID)
	}
	for _, entry := range entries {
		if len(entry.Orders) != 1 || entry.Orders[0] != "ord-1" {
			t.Errorf("expected ord-1 to be the contributing order for %s", entry.CategoryID)
		}
	}
}

func TestShoppingListCountsReservationsOnce(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()

	extra, err := entities.NewLineItem("li-2", "ord-1", "sourdough", 2)
	if err != nil {
		t.Fatalf("NewLineItem failed: %v", err)
	}
	if err := repos.Orders.LoadLineItems([]*entities.LineItem{extra}); err != nil {
		t.Fatalf("LoadLineItems failed: %v", err)
	}

	f := newFixture(repos)
	if _, err := f.manager.Reserve(context.Background(), "ord-1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	// 900 required, 800 reserved, 0 left in stock: the gap is exactly 100
	// whether or not reservations happened first.
	entries, err := f.reporter.ShoppingList(context.Background())
	if err != nil {
		t.Fatalf("ShoppingList failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !entries[0].Shortfall.Equal(mustQty(t, "100")) {
		t.Errorf("expected 100 g shortfall, got %s", entries[0].Shortfall)
	}
}
