package shared

import (
	"fmt"
	"sort"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// BatchCategory resolves the category a stock batch belongs to by walking
// batch -> ingredient -> category.
func BatchCategory(
	stock repositories.StockRepository,
	catalog repositories.CatalogRepository,
	batchID entities.BatchID,
) (entities.CategoryID, error) {
	batch, err := stock.GetBatch(batchID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve batch %s: %w", batchID, err)
	}
	ingredient, err := catalog.GetIngredient(batch.IngredientID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve ingredient %s: %w", batch.IngredientID, err)
	}
	return ingredient.CategoryID, nil
}

// ReservedByCategory sums the committed quantity of the given reservations
// per ingredient category. Callers pass only the reservations in scope
// (a line item's, an order's, or all active ones).
func ReservedByCategory(
	stock repositories.StockRepository,
	catalog repositories.CatalogRepository,
	reservations []*entities.Reservation,
) (map[entities.CategoryID]entities.Quantity, error) {
	totals := make(map[entities.CategoryID]entities.Quantity)
	for _, res := range reservations {
		categoryID, err := BatchCategory(stock, catalog, res.BatchID)
		if err != nil {
			return nil, err
		}
		totals[categoryID] = totals[categoryID].Add(res.Qty)
	}
	return totals, nil
}

// SortedCategoryIDs returns the map's keys in ascending order, for
// deterministic iteration over per-category requirement maps.
func SortedCategoryIDs(m map[entities.CategoryID]entities.Quantity) []entities.CategoryID {
	ids := make([]entities.CategoryID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
