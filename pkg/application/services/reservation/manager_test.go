package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bakeplan/bakeplan/pkg/application/services/ledger"
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

func newManager(repos *testhelpers.Repos) (*Manager, *ledger.StockLedger) {
	l := ledger.New(repos.Stock, repos.Catalog)
	r := resolver.New(repos.Orders, repos.Recipes, repos.Catalog)
	return New(repos.Orders, repos.Reservations, repos.Stock, repos.Catalog, r, l), l
}

// remainingFlour sums the category's remaining batch quantities directly
// from the store.
func remainingFlour(t *testing.T, l *ledger.StockLedger) entities.Quantity {
	t.Helper()
	available, err := l.AvailableForCategory(context.Background(), "flour")
	if err != nil {
		t.Fatalf("AvailableForCategory failed: %v", err)
	}
	return available
}

func TestReserveFullCoverage(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()
	m, l := newManager(repos)
	ctx := context.Background()

	outcome, err := m.Reserve(ctx, "ord-1")
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	if !outcome.FullyReserved() {
		t.Error("expected the order to be fully reserved")
	}
	if len(outcome.Created) != 2 {
		t.Fatalf("expected 2 reservations (one per batch), got %d", len(outcome.Created))
	}

	// 300 g drains the earlier-expiring batch, 400 g comes from the later one.
	first, second := outcome.Created[0], outcome.Created[1]
	if first.BatchID != "batch-early" || !first.Qty.Equal(mustQty(t, "300")) {
		t.Errorf("expected 300 g from batch-early first, got %s from %s", first.Qty, first.BatchID)
	}
	if second.BatchID != "batch-late" || !second.Qty.Equal(mustQty(t, "400")) {
		t.Errorf("expected 400 g from batch-late second, got %s from %s", second.Qty, second.BatchID)
	}

	categories := outcome.Categories()
	if len(categories) != 1 {
		t.Fatalf("expected 1 category allocation, got %d", len(categories))
	}
	alloc := categories[0]
	if !alloc.Required.Equal(mustQty(t, "700")) || !alloc.Reserved.Equal(mustQty(t, "700")) || !alloc.Unmet.IsZero() {
		t.Errorf("unexpected allocation: required=%s reserved=%s unmet=%s",
			alloc.Required, alloc.Reserved, alloc.Unmet)
	}

	// 800 received, 700 committed.
	if remaining := remainingFlour(t, l); !remaining.Equal(mustQty(t, "100")) {
		t.Errorf("expected 100 g remaining, got %s", remaining)
	}
}

func TestReserveShortage(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()

	// A second line item pushes total demand to 900 g against 800 g of stock.
	extra, err := entities.NewLineItem("li-2", "ord-1", "sourdough", 2)
	if err != nil {
		t.Fatalf("NewLineItem failed: %v", err)
	}
	if err := repos.Orders.LoadLineItems([]*entities.LineItem{extra}); err != nil {
		t.Fatalf("LoadLineItems failed: %v", err)
	}

	m, l := newManager(repos)
	outcome, err := m.Reserve(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	if outcome.FullyReserved() {
		t.Error("expected an unmet shortfall")
	}
	alloc := outcome.Categories()[0]
	if !alloc.Required.Equal(mustQty(t, "900")) {
		t.Errorf("expected 900 g required, got %s", alloc.Required)
	}
	if !alloc.Reserved.Equal(mustQty(t, "800")) {
		t.Errorf("expected all 800 g reserved, got %s", alloc.Reserved)
	}
	if !alloc.Unmet.Equal(mustQty(t, "100")) {
		t.Errorf("expected 100 g unmet, got %s", alloc.Unmet)
	}
	if remaining := remainingFlour(t, l); !remaining.IsZero() {
		t.Errorf("expected no stock remaining, got %s", remaining)
	}
}

func TestReserveIsIdempotent(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()
	m, l := newManager(repos)
	ctx := context.Background()

	if _, err := m.Reserve(ctx, "ord-1"); err != nil {
		t.Fatalf("first Reserve failed: %v", err)
	}
	again, err := m.Reserve(ctx, "ord-1")
	if err != nil {
		t.Fatalf("second Reserve failed: %v", err)
	}

	if len(again.Created) != 0 {
		t.Errorf("expected no new reservations on repeat, got %d", len(again.Created))
	}
	if remaining := remainingFlour(t, l); !remaining.Equal(mustQty(t, "100")) {
		t.Errorf("expected remaining stock unchanged at 100 g, got %s", remaining)
	}
}

func TestReserveTopsUpAfterRestock(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()

	extra, err := entities.NewLineItem("li-2", "ord-1", "sourdough", 2)
	if err != nil {
		t.Fatalf("NewLineItem failed: %v", err)
	}
	if err := repos.Orders.LoadLineItems([]*entities.LineItem{extra}); err != nil {
		t.Fatalf("LoadLineItems failed: %v", err)
	}

	m, l := newManager(repos)
	ctx := context.Background()

	if _, err := m.Reserve(ctx, "ord-1"); err != nil {
		t.Fatalf("first Reserve failed: %v", err)
	}

	// New delivery covers the 100 g gap.
	restock, err := entities.NewStockBatch("batch-new", "wheat-flour", mustQty(t, "250"), "WF-004", nil)
	if err != nil {
		t.Fatalf("NewStockBatch failed: %v", err)
	}
	if err := l.AddBatch(ctx, restock); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}

	outcome, err := m.Reserve(ctx, "ord-1")
	if err != nil {
		t.Fatalf("second Reserve failed: %v", err)
	}

	if !outcome.FullyReserved() {
		t.Error("expected the top-up to close the gap")
	}
	if len(outcome.Created) != 1 {
		t.Fatalf("expected 1 top-up reservation, got %d", len(outcome.Created))
	}
	if !outcome.Created[0].Qty.Equal(mustQty(t, "100")) {
		t.Errorf("expected a 100 g top-up, got %s", outcome.Created[0].Qty)
	}
	if remaining := remainingFlour(t, l); !remaining.Equal(mustQty(t, "150")) {
		t.Errorf("expected 150 g remaining after top-up, got %s", remaining)
	}
}

func TestReserveUnknownOrder(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()
	m, _ := newManager(repos)

	_, err := m.Reserve(context.Background(), "ord-ghost")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReserveStructuralErrorWritesNothing(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()

	// The second line item references a recipe that does not exist, so the
	// whole call must fail before any stock moves.
	bad, err := entities.NewLineItem("li-bad", "ord-1", "focaccia", 1)
	if err != nil {
		t.Fatalf("NewLineItem failed: %v", err)
	}
	if err := repos.Orders.LoadLineItems([]*entities.LineItem{bad}); err != nil {
		t.Fatalf("LoadLineItems failed: %v", err)
	}

	m, l := newManager(repos)
	_, err = m.Reserve(context.Background(), "ord-1")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if remaining := remainingFlour(t, l); !remaining.Equal(mustQty(t, "800")) {
		t.Errorf("expected stock untouched at 800 g, got %s", remaining)
	}
	active, err := repos.Reservations.GetAllActive()
	if err != nil {
		t.Fatalf("GetAllActive failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no reservations, got %d", len(active))
	}
}

func TestReleaseRestoresStock(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()
	m, l := newManager(repos)
	ctx := context.Background()

	outcome, err := m.Reserve(ctx, "ord-1")
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	released, err := m.Release(ctx, outcome.Created[0].ID)
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if !released {
		t.Error("expected the release to report true")
	}

	// The 300 g from batch-early is back; the 400 g reservation still holds.
	if remaining := remainingFlour(t, l); !remaining.Equal(mustQty(t, "400")) {
		t.Errorf("expected 400 g remaining, got %s", remaining)
	}

	// A second release of the same reservation is a reported no-op.
	released, err = m.Release(ctx, outcome.Created[0].ID)
	if err != nil {
		t.Fatalf("repeat Release failed: %v", err)
	}
	if released {
		t.Error("expected repeat release to report false")
	}
	if remaining := remainingFlour(t, l); !remaining.Equal(mustQty(t, "400")) {
		t.Errorf("expected stock unchanged at 400 g, got %s", remaining)
	}
}

func TestReleaseUnknownReservation(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()
	m, _ := newManager(repos)

	_, err := m.Release(context.Background(), "res-ghost")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReleaseAllForOrder(t *testing.T) {
	repos := testhelpers.BuildBakeryTestData()
	m, l := newManager(repos)
	ctx := context.Background()

	if _, err := m.Reserve(ctx, "ord-1"); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	outcome, err := m.ReleaseAllForOrder(ctx, "ord-1")
	if err != nil {
		t.Fatalf("ReleaseAllForOrder failed: %v", err)
	}
	if len(outcome.Released) != 2 {
		t.Errorf("expected 2 reservations released, got %d", len(outcome.Released))
	}
	if len(outcome.Failures) != 0 {
		t.Errorf("expected no failures, got %d", len(outcome.Failures))
	}

	// Conservation: everything deducted came back.
	if remaining := remainingFlour(t, l); !remaining.Equal(mustQty(t, "800")) {
		t.Errorf("expected all 800 g restored, got %s", remaining)
	}
	active, err := repos.Reservations.GetAllActive()
	if err != nil {
		t.Fatalf("GetAllActive failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active reservations, got %d", len(active))
	}
}

func TestTwoOrdersContendForStock(t *testing.T) {
	repos := contentionScenario(t)
	m, l := newManager(repos)
	ctx := context.Background()

	first, err := m.Reserve(ctx, "ord-a")
	if err != nil {
		t.Fatalf("Reserve ord-a failed: %v", err)
	}
	if !first.FullyReserved() {
		t.Error("expected the first order to be fully covered")
	}

	second, err := m.Reserve(ctx, "ord-b")
	if err != nil {
		t.Fatalf("Reserve ord-b failed: %v", err)
	}
	alloc := second.Categories()[0]
	if !alloc.Reserved.Equal(mustQty(t, "100")) {
		t.Errorf("expected the second order to get the 100 g left, got %s", alloc.Reserved)
	}
	if !alloc.Unmet.Equal(mustQty(t, "300")) {
		t.Errorf("expected 300 g unmet for the second order, got %s", alloc.Unmet)
	}
	if remaining := remainingFlour(t, l); !remaining.IsZero() {
		t.Errorf("expected no stock remaining, got %s", remaining)
	}

	// Cancelling the first order frees its 400 g for the second.
	if _, err := m.ReleaseAllForOrder(ctx, "ord-a"); err != nil {
		t.Fatalf("ReleaseAllForOrder failed: %v", err)
	}
	retry, err := m.Reserve(ctx, "ord-b")
	if err != nil {
		t.Fatalf("retry Reserve ord-b failed: %v", err)
	}
	if !retry.FullyReserved() {
		t.Error("expected the second order to be covered after the release")
	}
}

// contentionScenario sets up two 400 g orders against a single 500 g batch.
func contentionScenario(t *testing.T) *testhelpers.Repos {
	t.Helper()
	repos := testhelpers.BuildBakeryTestData()

	orderDate := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	var orders []*entities.Order
	for _, id := range []entities.OrderID{"ord-a", "ord-b"} {
		order, err := entities.NewOrder(id, "cafe-luna", entities.StatusNew, orderDate, "")
		if err != nil {
			t.Fatalf("NewOrder failed: %v", err)
		}
		orders = append(orders, order)
	}
	if err := repos.Orders.LoadOrders(orders); err != nil {
		t.Fatalf("LoadOrders failed: %v", err)
	}

	itemA, err := entities.NewLineItem("li-a", "ord-a", "sourdough", 4)
	if err != nil {
		t.Fatalf("NewLineItem failed: %v", err)
	}
	itemB, err := entities.NewLineItem("li-b", "ord-b", "sourdough", 4)
	if err != nil {
		t.Fatalf("NewLineItem failed: %v", err)
	}
	if err := repos.Orders.LoadLineItems([]*entities.LineItem{itemA, itemB}); err != nil {
		t.Fatalf("LoadLineItems failed: %v", err)
	}

	// Shrink stock to a single 500 g batch.
	if err := repos.Stock.UpdateBatchQuantity("batch-early", mustQty(t, "0"), orderDate); err != nil {
		t.Fatalf("UpdateBatchQuantity failed: %v", err)
	}
	return repos
}
