package memory

import (
	"errors"
	"testing"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

func newReservation(t *testing.T, lineItemID entities.LineItemID, qty string) *entities.Reservation {
	t.Helper()
	res, err := entities.NewReservation(lineItemID, "b1", mustQty(t, qty), nil)
	if err != nil {
		t.Fatalf("NewReservation failed: %v", err)
	}
	return res
}

func TestReservationRepositoryAddAndGet(t *testing.T) {
	repo := NewReservationRepository()

	res := newReservation(t, "li-1", "100")
	if err := repo.Add(res); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := repo.Get(res.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != entities.ReservationActive {
		t.Errorf("expected active status, got %s", got.Status)
	}

	if err := repo.Add(res); err == nil {
		t.Error("expected duplicate Add to fail")
	}
	if _, err := repo.Get("missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReservationRepositoryActiveFiltering(t *testing.T) {
	repo := NewReservationRepository()

	a := newReservation(t, "li-1", "100")
	b := newReservation(t, "li-1", "50")
	c := newReservation(t, "li-2", "25")
	for _, res := range []*entities.Reservation{a, b, c} {
		if err := repo.Add(res); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := repo.MarkReleased(b.ID); err != nil {
		t.Fatalf("MarkReleased failed: %v", err)
	}

	active, err := repo.GetActiveForLineItems([]entities.LineItemID{"li-1", "li-2"})
	if err != nil {
		t.Fatalf("GetActiveForLineItems failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active reservations, got %d", len(active))
	}
	if active[0].ID != a.ID || active[1].ID != c.ID {
		t.Errorf("expected insertion order a, c, got %s, %s", active[0].ID, active[1].ID)
	}

	// GetForLineItem keeps released rows, for history.
	all, err := repo.GetForLineItem("li-1")
	if err != nil {
		t.Fatalf("GetForLineItem failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 reservations for li-1 including released, got %d", len(all))
	}
}

func TestReservationRepositoryMarkReleased(t *testing.T) {
	repo := NewReservationRepository()

	res := newReservation(t, "li-1", "100")
	if err := repo.Add(res); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := repo.MarkReleased(res.ID); err != nil {
		t.Fatalf("MarkReleased failed: %v", err)
	}
	got, err := repo.Get(res.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != entities.ReservationReleased {
		t.Errorf("expected released status, got %s", got.Status)
	}

	if err := repo.MarkReleased("missing"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
