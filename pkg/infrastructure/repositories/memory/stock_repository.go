package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// StockRepository provides in-memory stock batch and purchase storage.
// Batches are kept in insertion order, which the ledger uses as the FIFO
// tie-break for batches sharing an expiry date.
type StockRepository struct {
	mu        sync.RWMutex
	batches   map[entities.BatchID]*entities.StockBatch
	batchSeq  []entities.BatchID
	purchases []*entities.Purchase
}

// NewStockRepository creates a new in-memory stock repository
func NewStockRepository() *StockRepository {
	return &StockRepository{
		batches: make(map[entities.BatchID]*entities.StockBatch),
	}
}

// Verify interface compliance
var _ repositories.StockRepository = (*StockRepository)(nil)

// SaveBatch adds a batch or overwrites an existing one
func (r *StockRepository) SaveBatch(batch *entities.StockBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.batches[batch.ID]; !exists {
		r.batchSeq = append(r.batchSeq, batch.ID)
	}
	copied := *batch
	r.batches[batch.ID] = &copied
	return nil
}

// GetBatch returns the batch with the given id
func (r *StockRepository) GetBatch(id entities.BatchID) (*entities.StockBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batch, exists := r.batches[id]
	if !exists {
		return nil, fmt.Errorf("batch %s: %w", id, entities.ErrNotFound)
	}
	copied := *batch
	return &copied, nil
}

// GetBatchesForIngredient returns the ingredient's batches in insertion order
func (r *StockRepository) GetBatchesForIngredient(ingredientID entities.IngredientID) ([]*entities.StockBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var batches []*entities.StockBatch
	for _, id := range r.batchSeq {
		batch := r.batches[id]
		if batch.IngredientID == ingredientID {
			copied := *batch
			batches = append(batches, &copied)
		}
	}
	return batches, nil
}

// GetAllBatches returns all batches in insertion order
func (r *StockRepository) GetAllBatches() ([]*entities.StockBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var batches []*entities.StockBatch
	for _, id := range r.batchSeq {
		copied := *r.batches[id]
		batches = append(batches, &copied)
	}
	return batches, nil
}

// UpdateBatchQuantity sets a batch's remaining quantity and touch time
func (r *StockRepository) UpdateBatchQuantity(id entities.BatchID, remaining entities.Quantity, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, exists := r.batches[id]
	if !exists {
		return fmt.Errorf("batch %s: %w", id, entities.ErrNotFound)
	}
	if remaining.IsNegative() {
		return fmt.Errorf("batch %s remaining %s: %w", id, remaining, entities.ErrInvalidQuantity)
	}
	batch.Remaining = remaining
	batch.LastUpdated = updatedAt
	return nil
}

// SavePurchase appends a purchase record
func (r *StockRepository) SavePurchase(purchase *entities.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *purchase
	r.purchases = append(r.purchases, &copied)
	return nil
}

// GetPurchases returns purchase records for an ingredient in insertion order
func (r *StockRepository) GetPurchases(ingredientID entities.IngredientID) ([]*entities.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var purchases []*entities.Purchase
	for _, p := range r.purchases {
		if p.IngredientID == ingredientID {
			copied := *p
			purchases = append(purchases, &copied)
		}
	}
	return purchases, nil
}
