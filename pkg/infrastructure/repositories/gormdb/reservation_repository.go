package gormdb

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// ReservationRepository provides SQLite-backed reservation storage.
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a reservation repository over an open
// database.
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Verify interface compliance
var _ repositories.ReservationRepository = (*ReservationRepository)(nil)

// Add stores a new reservation
func (r *ReservationRepository) Add(reservation *entities.Reservation) error {
	row := newReservationRow(reservation)
	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("failed to add reservation %s: %w", reservation.ID, err)
	}
	return nil
}

// Get returns the reservation with the given id
func (r *ReservationRepository) Get(id entities.ReservationID) (*entities.Reservation, error) {
	var row ReservationRow
	err := r.db.First(&row, "reservation_id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("reservation %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation %s: %w", id, err)
	}
	return row.toEntity()
}

// GetForLineItem returns all reservations for a line item in creation order
func (r *ReservationRepository) GetForLineItem(lineItemID entities.LineItemID) ([]*entities.Reservation, error) {
	var rows []ReservationRow
	if err := r.db.Where("line_item_id = ?", string(lineItemID)).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load reservations for line item %s: %w", lineItemID, err)
	}
	return reservationRowsToEntities(rows)
}

// GetActiveForLineItems returns active reservations for any of the given
// line items in creation order.
func (r *ReservationRepository) GetActiveForLineItems(lineItemIDs []entities.LineItemID) ([]*entities.Reservation, error) {
	if len(lineItemIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		ids = append(ids, string(id))
	}

	var rows []ReservationRow
	err := r.db.
		Where("line_item_id IN ? AND status = ?", ids, entities.ReservationActive.String()).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active reservations: %w", err)
	}
	return reservationRowsToEntities(rows)
}

// GetAllActive returns every active reservation in creation order
func (r *ReservationRepository) GetAllActive() ([]*entities.Reservation, error) {
	var rows []ReservationRow
	err := r.db.
		Where("status = ?", entities.ReservationActive.String()).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active reservations: %w", err)
	}
	return reservationRowsToEntities(rows)
}

// MarkReleased flips a reservation to released. Released reservations never
// re-activate.
func (r *ReservationRepository) MarkReleased(id entities.ReservationID) error {
	result := r.db.Model(&ReservationRow{}).
		Where("reservation_id = ?", string(id)).
		Update("status", entities.ReservationReleased.String())
	if result.Error != nil {
		return fmt.Errorf("failed to release reservation %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reservation %s: %w", id, entities.ErrNotFound)
	}
	return nil
}

func reservationRowsToEntities(rows []ReservationRow) ([]*entities.Reservation, error) {
	reservations := make([]*entities.Reservation, 0, len(rows))
	for i := range rows {
		res, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}
