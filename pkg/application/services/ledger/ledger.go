package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/events"
)

// StockLedger owns every mutation of stock batch quantities. No other
// component may change a batch's remaining quantity; deduct and restore go
// through here so the conservation invariant (remaining plus active
// reservations equals the received quantity) can hold.
type StockLedger struct {
	mu      sync.RWMutex
	stock   repositories.StockRepository
	catalog repositories.CatalogRepository
	events  events.EventStore
}

// New creates a stock ledger over the given stores
func New(stock repositories.StockRepository, catalog repositories.CatalogRepository) *StockLedger {
	return &StockLedger{
		stock:   stock,
		catalog: catalog,
	}
}

// NewWithEvents creates a stock ledger that appends stock movements to an
// event store.
func NewWithEvents(stock repositories.StockRepository, catalog repositories.CatalogRepository, store events.EventStore) *StockLedger {
	ledger := New(stock, catalog)
	ledger.events = store
	return ledger
}

// AvailableQuantity returns the summed remaining quantity over all batches
// of one ingredient.
func (l *StockLedger) AvailableQuantity(ctx context.Context, ingredientID entities.IngredientID) (entities.Quantity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.sumIngredient(ingredientID)
}

// AvailableForCategory returns the summed remaining quantity over every
// ingredient belonging to the category. Because reservations deduct stock
// when they are created, this is the unreserved quantity.
func (l *StockLedger) AvailableForCategory(ctx context.Context, categoryID entities.CategoryID) (entities.Quantity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ingredients, err := l.catalog.GetIngredientsInCategory(categoryID)
	if err != nil {
		return entities.ZeroQuantity(), err
	}

	total := entities.ZeroQuantity()
	for _, ing := range ingredients {
		sum, err := l.sumIngredient(ing.ID)
		if err != nil {
			return entities.ZeroQuantity(), err
		}
		total = total.Add(sum)
	}
	return total, nil
}

// BatchesForAllocation returns a snapshot of the category's batches with
// stock remaining, in deterministic FIFO order: expiry ascending, batches
// without an expiry last, receipt order as the tie-break. Calling it again
// re-reads current remaining quantities.
func (l *StockLedger) BatchesForAllocation(ctx context.Context, categoryID entities.CategoryID) ([]*entities.StockBatch, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ingredients, err := l.catalog.GetIngredientsInCategory(categoryID)
	if err != nil {
		return nil, err
	}
	inCategory := make(map[entities.IngredientID]bool, len(ingredients))
	for _, ing := range ingredients {
		inCategory[ing.ID] = true
	}

	// GetAllBatches preserves receipt order, which the stable sort keeps as
	// the tie-break within equal expiry dates.
	all, err := l.stock.GetAllBatches()
	if err != nil {
		return nil, err
	}

	var batches []*entities.StockBatch
	for _, batch := range all {
		if inCategory[batch.IngredientID] && batch.Remaining.IsPositive() {
			batches = append(batches, batch)
		}
	}

	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i].Expiry, batches[j].Expiry
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	return batches, nil
}

// Deduct decreases a batch's remaining quantity. The quantity must be
// positive and must not exceed the batch's remaining quantity.
func (l *StockLedger) Deduct(ctx context.Context, batchID entities.BatchID, qty entities.Quantity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !qty.IsPositive() {
		return fmt.Errorf("deduct %s from batch %s: %w", qty, batchID, entities.ErrInvalidQuantity)
	}

	batch, err := l.stock.GetBatch(batchID)
	if err != nil {
		return err
	}
	if qty.GreaterThan(batch.Remaining) {
		return fmt.Errorf("deduct %s from batch %s with %s remaining: %w",
			qty, batchID, batch.Remaining, entities.ErrInsufficientStock)
	}

	batch.Remaining = batch.Remaining.Sub(qty)
	batch.LastUpdated = time.Now()
	if err := l.stock.UpdateBatchQuantity(batch.ID, batch.Remaining, batch.LastUpdated); err != nil {
		return fmt.Errorf("failed to deduct from batch %s: %w", batchID, err)
	}

	l.publish(events.NewStockDeductedEvent(*batch, qty))
	return nil
}

// Restore increases a batch's remaining quantity. Used by release to return
// previously deducted stock; there is no upper bound because the batch's
// original size is not tracked.
func (l *StockLedger) Restore(ctx context.Context, batchID entities.BatchID, qty entities.Quantity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !qty.IsPositive() {
		return fmt.Errorf("restore %s to batch %s: %w", qty, batchID, entities.ErrInvalidQuantity)
	}

	batch, err := l.stock.GetBatch(batchID)
	if err != nil {
		return err
	}

	batch.Remaining = batch.Remaining.Add(qty)
	batch.LastUpdated = time.Now()
	if err := l.stock.UpdateBatchQuantity(batch.ID, batch.Remaining, batch.LastUpdated); err != nil {
		return fmt.Errorf("failed to restore to batch %s: %w", batchID, err)
	}

	l.publish(events.NewStockRestoredEvent(*batch, qty))
	return nil
}

// Receive records a purchase of whole packages and creates the matching
// stock batch: units times the ingredient's package size, in the category
// unit.
func (l *StockLedger) Receive(
	ctx context.Context,
	ingredientID entities.IngredientID,
	batchNumber string,
	units int,
	unitPrice, discount entities.Quantity,
	expiry *time.Time,
) (*entities.StockBatch, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ingredient, err := l.catalog.GetIngredient(ingredientID)
	if err != nil {
		return nil, err
	}

	purchase, err := entities.NewPurchase(ingredientID, units, unitPrice, discount, time.Now())
	if err != nil {
		return nil, err
	}

	received := ingredient.PackageSize.Mul(decimal.NewFromInt(int64(units)))
	batch, err := entities.NewStockBatch("", ingredientID, received, batchNumber, expiry)
	if err != nil {
		return nil, err
	}

	if err := l.stock.SaveBatch(batch); err != nil {
		return nil, fmt.Errorf("failed to save batch for ingredient %s: %w", ingredientID, err)
	}
	if err := l.stock.SavePurchase(purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase for ingredient %s: %w", ingredientID, err)
	}

	l.publish(events.NewStockReceivedEvent(*batch, purchase))
	return batch, nil
}

// AddBatch registers already-held stock directly, bypassing purchase intake.
// Used by loaders seeding the ledger from existing records.
func (l *StockLedger) AddBatch(ctx context.Context, batch *entities.StockBatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.stock.SaveBatch(batch); err != nil {
		return fmt.Errorf("failed to save batch %s: %w", batch.ID, err)
	}
	l.publish(events.NewStockReceivedEvent(*batch, nil))
	return nil
}

func (l *StockLedger) sumIngredient(ingredientID entities.IngredientID) (entities.Quantity, error) {
	batches, err := l.stock.GetBatchesForIngredient(ingredientID)
	if err != nil {
		return entities.ZeroQuantity(), err
	}
	total := entities.ZeroQuantity()
	for _, batch := range batches {
		total = total.Add(batch.Remaining)
	}
	return total, nil
}

func (l *StockLedger) publish(event events.Event) {
	if l.events == nil {
		return
	}
	_ = l.events.AppendEvent(event.StreamID(), event)
}
