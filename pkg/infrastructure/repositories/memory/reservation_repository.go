package memory

import (
	"fmt"
	"sync"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// ReservationRepository provides in-memory reservation storage
type ReservationRepository struct {
	mu           sync.RWMutex
	reservations map[entities.ReservationID]*entities.Reservation
	seq          []entities.ReservationID
}

// NewReservationRepository creates a new in-memory reservation repository
func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		reservations: make(map[entities.ReservationID]*entities.Reservation),
	}
}

// Verify interface compliance
var _ repositories.ReservationRepository = (*ReservationRepository)(nil)

// Add stores a new reservation
func (r *ReservationRepository) Add(reservation *entities.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reservations[reservation.ID]; exists {
		return fmt.Errorf("reservation %s already exists", reservation.ID)
	}
	copied := *reservation
	r.reservations[reservation.ID] = &copied
	r.seq = append(r.seq, reservation.ID)
	return nil
}

// Get returns the reservation with the given id
func (r *ReservationRepository) Get(id entities.ReservationID) (*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, exists := r.reservations[id]
	if !exists {
		return nil, fmt.Errorf("reservation %s: %w", id, entities.ErrNotFound)
	}
	copied := *res
	return &copied, nil
}

// GetForLineItem returns all reservations for a line item in insertion order
func (r *ReservationRepository) GetForLineItem(lineItemID entities.LineItemID) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Reservation
	for _, id := range r.seq {
		res := r.reservations[id]
		if res.LineItemID == lineItemID {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

// GetActiveForLineItems returns active reservations for any of the given
// line items in insertion order.
func (r *ReservationRepository) GetActiveForLineItems(lineItemIDs []entities.LineItemID) ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[entities.LineItemID]bool, len(lineItemIDs))
	for _, id := range lineItemIDs {
		wanted[id] = true
	}

	var out []*entities.Reservation
	for _, id := range r.seq {
		res := r.reservations[id]
		if res.Status == entities.ReservationActive && wanted[res.LineItemID] {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

// GetAllActive returns every active reservation in insertion order
func (r *ReservationRepository) GetAllActive() ([]*entities.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Reservation
	for _, id := range r.seq {
		res := r.reservations[id]
		if res.Status == entities.ReservationActive {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MarkReleased flips a reservation to released. Released reservations never
// re-activate.
func (r *ReservationRepository) MarkReleased(id entities.ReservationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, exists := r.reservations[id]
	if !exists {
		return fmt.Errorf("reservation %s: %w", id, entities.ErrNotFound)
	}
	res.Status = entities.ReservationReleased
	return nil
}
