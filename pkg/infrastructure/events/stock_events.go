package events

import (
	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

const (
	StockReceivedEvent = "stock.received"
	StockDeductedEvent = "stock.deducted"
	StockRestoredEvent = "stock.restored"

	ReservationCreatedEvent  = "reservation.created"
	ReservationReleasedEvent = "reservation.released"

	ShortageIdentifiedEvent = "shortage.identified"
)

type StockReceived struct {
	Batch    entities.StockBatch `json:"batch"`
	Purchase *entities.Purchase  `json:"purchase,omitempty"`
}

type StockDeducted struct {
	BatchID   entities.BatchID  `json:"batch_id"`
	Qty       entities.Quantity `json:"qty"`
	Remaining entities.Quantity `json:"remaining"`
}

type StockRestored struct {
	BatchID   entities.BatchID  `json:"batch_id"`
	Qty       entities.Quantity `json:"qty"`
	Remaining entities.Quantity `json:"remaining"`
}

type ReservationCreated struct {
	Reservation entities.Reservation `json:"reservation"`
	OrderID     entities.OrderID     `json:"order_id"`
	CategoryID  entities.CategoryID  `json:"category_id"`
}

type ReservationReleased struct {
	Reservation entities.Reservation `json:"reservation"`
}

type ShortageIdentified struct {
	OrderID    entities.OrderID    `json:"order_id"`
	CategoryID entities.CategoryID `json:"category_id"`
	Shortage   entities.Quantity   `json:"shortage"`
}

func NewStockReceivedEvent(batch entities.StockBatch, purchase *entities.Purchase) Event {
	return NewEvent(StockReceivedEvent, string(batch.IngredientID), StockReceived{
		Batch:    batch,
		Purchase: purchase,
	})
}

func NewStockDeductedEvent(batch entities.StockBatch, qty entities.Quantity) Event {
	return NewEvent(StockDeductedEvent, string(batch.IngredientID), StockDeducted{
		BatchID:   batch.ID,
		Qty:       qty,
		Remaining: batch.Remaining,
	})
}

func NewStockRestoredEvent(batch entities.StockBatch, qty entities.Quantity) Event {
	return NewEvent(StockRestoredEvent, string(batch.IngredientID), StockRestored{
		BatchID:   batch.ID,
		Qty:       qty,
		Remaining: batch.Remaining,
	})
}

func NewReservationCreatedEvent(reservation entities.Reservation, orderID entities.OrderID, categoryID entities.CategoryID) Event {
	return NewEvent(ReservationCreatedEvent, string(orderID), ReservationCreated{
		Reservation: reservation,
		OrderID:     orderID,
		CategoryID:  categoryID,
	})
}

func NewReservationReleasedEvent(reservation entities.Reservation) Event {
	return NewEvent(ReservationReleasedEvent, string(reservation.LineItemID), ReservationReleased{
		Reservation: reservation,
	})
}

func NewShortageIdentifiedEvent(orderID entities.OrderID, categoryID entities.CategoryID, shortage entities.Quantity) Event {
	return NewEvent(ShortageIdentifiedEvent, string(orderID), ShortageIdentified{
		OrderID:    orderID,
		CategoryID: categoryID,
		Shortage:   shortage,
	})
}
