package gormdb

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

func mustQty(t *testing.T, s string) entities.Quantity {
	t.Helper()
	q, err := entities.ParseQuantity(s)
	if err != nil {
		t.Fatalf("ParseQuantity(%q) failed: %v", s, err)
	}
	return q
}

func openTestDB(t *testing.T) *StockRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "bakeplan.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return NewStockRepository(db)
}

func TestStockRepositoryRoundTrip(t *testing.T) {
	repo := openTestDB(t)

	expiry := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	batch, err := entities.NewStockBatch("b1", "wheat-flour", mustQty(t, "300.5"), "WF-001", &expiry)
	if err != nil {
		t.Fatalf("NewStockBatch failed: %v", err)
	}
	if err := repo.SaveBatch(batch); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	got, err := repo.GetBatch("b1")
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if !got.Remaining.Equal(mustQty(t, "300.5")) {
		t.Errorf("expected 300.5 remaining, got %s", got.Remaining)
	}
	if got.Expiry == nil || !got.Expiry.Equal(expiry) {
		t.Errorf("expiry did not survive the round trip: %v", got.Expiry)
	}

	if _, err := repo.GetBatch("missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStockRepositorySaveBatchOverwrite(t *testing.T) {
	repo := openTestDB(t)

	first, err := entities.NewStockBatch("b1", "wheat-flour", mustQty(t, "300"), "WF-001", nil)
	if err != nil {
		t.Fatalf("NewStockBatch failed: %v", err)
	}
	second, err := entities.NewStockBatch("b2", "wheat-flour", mustQty(t, "500"), "WF-002", nil)
	if err != nil {
		t.Fatalf("NewStockBatch failed: %v", err)
	}
	for _, batch := range []*entities.StockBatch{first, second} {
		if err := repo.SaveBatch(batch); err != nil {
			t.Fatalf("SaveBatch failed: %v", err)
		}
	}

	// Re-saving an existing id overwrites the row instead of failing the insert.
	first.Remaining = mustQty(t, "250")
	if err := repo.SaveBatch(first); err != nil {
		t.Fatalf("SaveBatch overwrite failed: %v", err)
	}

	got, err := repo.GetBatch("b1")
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if !got.Remaining.Equal(mustQty(t, "250")) {
		t.Errorf("expected 250 remaining after overwrite, got %s", got.Remaining)
	}

	// The overwrite must not reset the insert sequence the FIFO tie-break uses.
	batches, err := repo.GetBatchesForIngredient("wheat-flour")
	if err != nil {
		t.Fatalf("GetBatchesForIngredient failed: %v", err)
	}
	if len(batches) != 2 || batches[0].ID != "b1" || batches[1].ID != "b2" {
		t.Fatalf("expected receipt order b1,b2 after overwrite, got %v", batchIDs(batches))
	}
}

func batchIDs(batches []*entities.StockBatch) []entities.BatchID {
	ids := make([]entities.BatchID, 0, len(batches))
	for _, b := range batches {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestStockRepositoryUpdateBatchQuantity(t *testing.T) {
	repo := openTestDB(t)

	batch, err := entities.NewStockBatch("b1", "wheat-flour", mustQty(t, "300"), "", nil)
	if err != nil {
		t.Fatalf("NewStockBatch failed: %v", err)
	}
	if err := repo.SaveBatch(batch); err != nil {
		t.Fatalf("SaveBatch failed: %v", err)
	}

	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	if err := repo.UpdateBatchQuantity("b1", mustQty(t, "120"), now); err != nil {
		t.Fatalf("UpdateBatchQuantity failed: %v", err)
	}
	got, err := repo.GetBatch("b1")
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if !got.Remaining.Equal(mustQty(t, "120")) {
		t.Errorf("expected 120 remaining, got %s", got.Remaining)
	}

	if err := repo.UpdateBatchQuantity("missing", mustQty(t, "10"), now); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReservationRepositoryLifecycle(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "bakeplan.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	repo := NewReservationRepository(db)

	a, err := entities.NewReservation("li-1", "b1", mustQty(t, "100"), nil)
	if err != nil {
		t.Fatalf("NewReservation failed: %v", err)
	}
	b, err := entities.NewReservation("li-1", "b2", mustQty(t, "50"), nil)
	if err != nil {
		t.Fatalf("NewReservation failed: %v", err)
	}
	for _, res := range []*entities.Reservation{a, b} {
		if err := repo.Add(res); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := repo.MarkReleased(a.ID); err != nil {
		t.Fatalf("MarkReleased failed: %v", err)
	}

	active, err := repo.GetActiveForLineItems([]entities.LineItemID{"li-1"})
	if err != nil {
		t.Fatalf("GetActiveForLineItems failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != b.ID {
		t.Fatalf("expected only the second reservation to stay active, got %d", len(active))
	}

	all, err := repo.GetForLineItem("li-1")
	if err != nil {
		t.Fatalf("GetForLineItem failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected both reservations including the released one, got %d", len(all))
	}

	if err := repo.MarkReleased("missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
