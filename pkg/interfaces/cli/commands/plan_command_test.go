package commands

import (
	"context"
	"testing"

	"github.com/bakeplan/bakeplan/pkg/application/services/ledger"
	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/repositories/memory"
)

func mustQty(t *testing.T, s string) entities.Quantity {
	t.Helper()
	q, err := entities.ParseQuantity(s)
	if err != nil {
		t.Fatalf("ParseQuantity(%q) failed: %v", s, err)
	}
	return q
}

func mustBatch(t *testing.T, id entities.BatchID, remaining string) *entities.StockBatch {
	t.Helper()
	batch, err := entities.NewStockBatch(id, "wheat-flour", mustQty(t, remaining), "", nil)
	if err != nil {
		t.Fatalf("NewStockBatch failed: %v", err)
	}
	return batch
}

func TestSeedStockSkipsExistingBatches(t *testing.T) {
	ctx := context.Background()
	stockRepo := memory.NewStockRepository()
	stockLedger := ledger.New(stockRepo, memory.NewCatalogRepository())

	scenario := []*entities.StockBatch{mustBatch(t, "b1", "300")}
	if err := seedStock(ctx, stockLedger, stockRepo, scenario); err != nil {
		t.Fatalf("seedStock failed: %v", err)
	}

	// A prior run deducted stock that is still held by active reservations.
	if err := stockLedger.Deduct(ctx, "b1", mustQty(t, "200")); err != nil {
		t.Fatalf("Deduct failed: %v", err)
	}

	// A second run re-seeds the same scenario plus a batch the CSV gained.
	rerun := []*entities.StockBatch{
		mustBatch(t, "b1", "300"),
		mustBatch(t, "b2", "500"),
	}
	if err := seedStock(ctx, stockLedger, stockRepo, rerun); err != nil {
		t.Fatalf("seedStock failed: %v", err)
	}

	b1, err := stockRepo.GetBatch("b1")
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if !b1.Remaining.Equal(mustQty(t, "100")) {
		t.Errorf("expected deducted batch to keep 100 remaining, got %s", b1.Remaining)
	}

	b2, err := stockRepo.GetBatch("b2")
	if err != nil {
		t.Fatalf("expected the new batch to be seeded: %v", err)
	}
	if !b2.Remaining.Equal(mustQty(t, "500")) {
		t.Errorf("expected 500 remaining in the new batch, got %s", b2.Remaining)
	}
}
