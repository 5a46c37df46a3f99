package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BatchID identifies one physical lot of stock.
type BatchID string

// StockBatch is one physical lot of an ingredient with its own remaining
// quantity and optional expiry. Remaining is the only field the allocation
// engine mutates, and only through the stock ledger.
type StockBatch struct {
	ID           BatchID
	IngredientID IngredientID
	Remaining    Quantity
	BatchNumber  string
	Expiry       *time.Time
	LastUpdated  time.Time
}

// NewStockBatch creates a validated StockBatch. An empty id is replaced with
// a generated one.
func NewStockBatch(id BatchID, ingredientID IngredientID, remaining Quantity, batchNumber string, expiry *time.Time) (*StockBatch, error) {
	if string(ingredientID) == "" {
		return nil, fmt.Errorf("ingredient id cannot be empty")
	}
	if remaining.IsNegative() {
		return nil, fmt.Errorf("remaining quantity cannot be negative, got %s", remaining)
	}
	if string(id) == "" {
		id = BatchID(uuid.NewString())
	}

	return &StockBatch{
		ID:           id,
		IngredientID: ingredientID,
		Remaining:    remaining,
		BatchNumber:  batchNumber,
		Expiry:       expiry,
		LastUpdated:  time.Now(),
	}, nil
}
