package gormdb

import (
	"fmt"
	"time"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

// Quantities are stored as decimal strings and parsed on the way out, so
// the database never rounds them.

// StockBatchRow is the persistence model for a stock batch.
type StockBatchRow struct {
	ID           string     `gorm:"column:batch_id;primaryKey;type:varchar(64)"`
	IngredientID string     `gorm:"column:ingredient_id;type:varchar(64);index;not null"`
	Remaining    string     `gorm:"column:remaining;type:varchar(32);not null"`
	BatchNumber  string     `gorm:"column:batch_number;type:varchar(64)"`
	Expiry       *time.Time `gorm:"column:expiry"`
	LastUpdated  time.Time  `gorm:"column:last_updated;not null"`
	Seq          uint       `gorm:"column:seq;autoIncrement;uniqueIndex"`
}

// TableName overrides gorm's pluralized default
func (StockBatchRow) TableName() string { return "stock_batches" }

func newStockBatchRow(batch *entities.StockBatch) *StockBatchRow {
	return &StockBatchRow{
		ID:           string(batch.ID),
		IngredientID: string(batch.IngredientID),
		Remaining:    batch.Remaining.String(),
		BatchNumber:  batch.BatchNumber,
		Expiry:       batch.Expiry,
		LastUpdated:  batch.LastUpdated,
	}
}

func (r *StockBatchRow) toEntity() (*entities.StockBatch, error) {
	remaining, err := entities.ParseQuantity(r.Remaining)
	if err != nil {
		return nil, fmt.Errorf("batch %s has malformed remaining quantity: %w", r.ID, err)
	}
	return &entities.StockBatch{
		ID:           entities.BatchID(r.ID),
		IngredientID: entities.IngredientID(r.IngredientID),
		Remaining:    remaining,
		BatchNumber:  r.BatchNumber,
		Expiry:       r.Expiry,
		LastUpdated:  r.LastUpdated,
	}, nil
}

// PurchaseRow is the persistence model for a purchase record.
type PurchaseRow struct {
	ID           string    `gorm:"column:purchase_id;primaryKey;type:varchar(64)"`
	IngredientID string    `gorm:"column:ingredient_id;type:varchar(64);index;not null"`
	Units        int       `gorm:"column:units;not null"`
	UnitPrice    string    `gorm:"column:unit_price;type:varchar(32);not null"`
	Discount     string    `gorm:"column:discount;type:varchar(32);not null"`
	PurchasedAt  time.Time `gorm:"column:purchased_at;not null"`
}

// TableName overrides gorm's pluralized default
func (PurchaseRow) TableName() string { return "purchases" }

func newPurchaseRow(purchase *entities.Purchase) *PurchaseRow {
	return &PurchaseRow{
		ID:           string(purchase.ID),
		IngredientID: string(purchase.IngredientID),
		Units:        purchase.Units,
		UnitPrice:    purchase.UnitPrice.String(),
		Discount:     purchase.Discount.String(),
		PurchasedAt:  purchase.PurchasedAt,
	}
}

func (r *PurchaseRow) toEntity() (*entities.Purchase, error) {
	unitPrice, err := entities.ParseQuantity(r.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("purchase %s has malformed unit price: %w", r.ID, err)
	}
	discount, err := entities.ParseQuantity(r.Discount)
	if err != nil {
		return nil, fmt.Errorf("purchase %s has malformed discount: %w", r.ID, err)
	}
	return &entities.Purchase{
		ID:           entities.PurchaseID(r.ID),
		IngredientID: entities.IngredientID(r.IngredientID),
		Units:        r.Units,
		UnitPrice:    unitPrice,
		Discount:     discount,
		PurchasedAt:  r.PurchasedAt,
	}, nil
}

// ReservationRow is the persistence model for a reservation.
type ReservationRow struct {
	ID            string     `gorm:"column:reservation_id;primaryKey;type:varchar(64)"`
	LineItemID    string     `gorm:"column:line_item_id;type:varchar(64);index;not null"`
	BatchID       string     `gorm:"column:batch_id;type:varchar(64);index;not null"`
	Qty           string     `gorm:"column:qty;type:varchar(32);not null"`
	Status        string     `gorm:"column:status;type:varchar(16);index;not null"`
	ReservedAt    time.Time  `gorm:"column:reserved_at;not null"`
	ReservedUntil *time.Time `gorm:"column:reserved_until"`
	Seq           uint       `gorm:"column:seq;autoIncrement;uniqueIndex"`
}

// TableName overrides gorm's pluralized default
func (ReservationRow) TableName() string { return "reservations" }

func newReservationRow(res *entities.Reservation) *ReservationRow {
	return &ReservationRow{
		ID:            string(res.ID),
		LineItemID:    string(res.LineItemID),
		BatchID:       string(res.BatchID),
		Qty:           res.Qty.String(),
		Status:        res.Status.String(),
		ReservedAt:    res.ReservedAt,
		ReservedUntil: res.ReservedUntil,
	}
}

func (r *ReservationRow) toEntity() (*entities.Reservation, error) {
	qty, err := entities.ParseQuantity(r.Qty)
	if err != nil {
		return nil, fmt.Errorf("reservation %s has malformed quantity: %w", r.ID, err)
	}
	status, err := entities.ParseReservationStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", r.ID, err)
	}
	return &entities.Reservation{
		ID:            entities.ReservationID(r.ID),
		LineItemID:    entities.LineItemID(r.LineItemID),
		BatchID:       entities.BatchID(r.BatchID),
		Qty:           qty,
		Status:        status,
		ReservedAt:    r.ReservedAt,
		ReservedUntil: r.ReservedUntil,
	}, nil
}
