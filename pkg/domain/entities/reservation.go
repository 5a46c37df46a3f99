package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReservationID identifies a reservation.
type ReservationID string

// ReservationStatus represents the reservation lifecycle state.
type ReservationStatus int

const (
	ReservationActive ReservationStatus = iota
	ReservationReleased
)

// String method for ReservationStatus enum
func (s ReservationStatus) String() string {
	switch s {
	case ReservationActive:
		return "active"
	case ReservationReleased:
		return "released"
	default:
		return "unknown"
	}
}

// ParseReservationStatus parses the textual status form used by loaders.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch s {
	case "active":
		return ReservationActive, nil
	case "released":
		return ReservationReleased, nil
	default:
		return ReservationActive, fmt.Errorf("unknown reservation status %q", s)
	}
}

// Reservation is a committed claim on one batch's quantity, tied to one line
// item. Qty and BatchID are immutable after creation; only Status moves, and
// a released reservation never re-activates.
type Reservation struct {
	ID            ReservationID
	LineItemID    LineItemID
	BatchID       BatchID
	Qty           Quantity
	Status        ReservationStatus
	ReservedAt    time.Time
	ReservedUntil *time.Time
}

// NewReservation creates a validated active Reservation with a generated id.
func NewReservation(lineItemID LineItemID, batchID BatchID, qty Quantity, reservedUntil *time.Time) (*Reservation, error) {
	if string(lineItemID) == "" {
		return nil, fmt.Errorf("line item id cannot be empty")
	}
	if string(batchID) == "" {
		return nil, fmt.Errorf("batch id cannot be empty")
	}
	if !qty.IsPositive() {
		return nil, fmt.Errorf("reserved quantity must be positive, got %s: %w", qty, ErrInvalidQuantity)
	}

	return &Reservation{
		ID:            ReservationID(uuid.NewString()),
		LineItemID:    lineItemID,
		BatchID:       batchID,
		Qty:           qty,
		Status:        ReservationActive,
		ReservedAt:    time.Now(),
		ReservedUntil: reservedUntil,
	}, nil
}
