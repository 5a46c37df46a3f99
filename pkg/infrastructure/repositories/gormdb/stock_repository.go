package gormdb

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// StockRepository provides SQLite-backed stock batch and purchase storage.
// Batches are ordered by their insert sequence, preserving the receipt-order
// FIFO tie-break the ledger relies on.
type StockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a stock repository over an open database
func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// Verify interface compliance
var _ repositories.StockRepository = (*StockRepository)(nil)

// SaveBatch adds a batch or overwrites an existing one. The conflict target
// must be the batch id, not the autoincrement seq column, and an overwrite
// must leave seq untouched so receipt order survives re-saves.
func (r *StockRepository) SaveBatch(batch *entities.StockBatch) error {
	row := newStockBatchRow(batch)
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "batch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"ingredient_id", "remaining", "batch_number", "expiry", "last_updated",
		}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save batch %s: %w", batch.ID, err)
	}
	return nil
}

// GetBatch returns the batch with the given id
func (r *StockRepository) GetBatch(id entities.BatchID) (*entities.StockBatch, error) {
	var row StockBatchRow
	err := r.db.First(&row, "batch_id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("batch %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", id, err)
	}
	return row.toEntity()
}

// GetBatchesForIngredient returns the ingredient's batches in receipt order
func (r *StockRepository) GetBatchesForIngredient(ingredientID entities.IngredientID) ([]*entities.StockBatch, error) {
	var rows []StockBatchRow
	if err := r.db.Where("ingredient_id = ?", string(ingredientID)).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load batches for ingredient %s: %w", ingredientID, err)
	}
	return batchRowsToEntities(rows)
}

// GetAllBatches returns all batches in receipt order
func (r *StockRepository) GetAllBatches() ([]*entities.StockBatch, error) {
	var rows []StockBatchRow
	if err := r.db.Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load batches: %w", err)
	}
	return batchRowsToEntities(rows)
}

// UpdateBatchQuantity sets a batch's remaining quantity and touch time
func (r *StockRepository) UpdateBatchQuantity(id entities.BatchID, remaining entities.Quantity, updatedAt time.Time) error {
	if remaining.IsNegative() {
		return fmt.Errorf("batch %s remaining %s: %w", id, remaining, entities.ErrInvalidQuantity)
	}
	result := r.db.Model(&StockBatchRow{}).
		Where("batch_id = ?", string(id)).
		Updates(map[string]interface{}{
			"remaining":    remaining.String(),
			"last_updated": updatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update batch %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("batch %s: %w", id, entities.ErrNotFound)
	}
	return nil
}

// SavePurchase appends a purchase record
func (r *StockRepository) SavePurchase(purchase *entities.Purchase) error {
	row := newPurchaseRow(purchase)
	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("failed to save purchase %s: %w", purchase.ID, err)
	}
	return nil
}

// GetPurchases returns purchase records for an ingredient in purchase order
func (r *StockRepository) GetPurchases(ingredientID entities.IngredientID) ([]*entities.Purchase, error) {
	var rows []PurchaseRow
	if err := r.db.Where("ingredient_id = ?", string(ingredientID)).Order("purchased_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load purchases for ingredient %s: %w", ingredientID, err)
	}
	purchases := make([]*entities.Purchase, 0, len(rows))
	for i := range rows {
		purchase, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}
	return purchases, nil
}

func batchRowsToEntities(rows []StockBatchRow) ([]*entities.StockBatch, error) {
	batches := make([]*entities.StockBatch, 0, len(rows))
	for i := range rows {
		batch, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}
