package repositories

import (
	"time"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

// StockRepository stores the stock batch and purchase rows the engine owns.
// GetBatchesForIngredient returns batches in insertion order; the ledger
// relies on that as the FIFO tie-break.
type StockRepository interface {
	GetBatch(id entities.BatchID) (*entities.StockBatch, error)
	GetBatchesForIngredient(ingredientID entities.IngredientID) ([]*entities.StockBatch, error)
	GetAllBatches() ([]*entities.StockBatch, error)
	SaveBatch(batch *entities.StockBatch) error
	UpdateBatchQuantity(id entities.BatchID, remaining entities.Quantity, updatedAt time.Time) error
	SavePurchase(purchase *entities.Purchase) error
	GetPurchases(ingredientID entities.IngredientID) ([]*entities.Purchase, error)
}
