package repositories

import "github.com/bakeplan/bakeplan/pkg/domain/entities"

// ReservationRepository stores the reservation rows the engine owns.
type ReservationRepository interface {
	Add(reservation *entities.Reservation) error
	Get(id entities.ReservationID) (*entities.Reservation, error)
	GetForLineItem(lineItemID entities.LineItemID) ([]*entities.Reservation, error)
	GetActiveForLineItems(lineItemIDs []entities.LineItemID) ([]*entities.Reservation, error)
	GetAllActive() ([]*entities.Reservation, error)
	MarkReleased(id entities.ReservationID) error
}
