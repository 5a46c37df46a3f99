package resolver

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// RequirementResolver expands line items into required raw-material amounts
// keyed by ingredient category. It is pure: it never touches the ledger or
// the reservation book.
type RequirementResolver struct {
	orders  repositories.OrderRepository
	recipes repositories.RecipeRepository
	catalog repositories.CatalogRepository
}

// New creates a requirement resolver over the given stores
func New(
	orders repositories.OrderRepository,
	recipes repositories.RecipeRepository,
	catalog repositories.CatalogRepository,
) *RequirementResolver {
	return &RequirementResolver{
		orders:  orders,
		recipes: recipes,
		catalog: catalog,
	}
}

// ResolveLineItem expands one line item into required quantities per
// category: each recipe line's per-batch quantity times the line item's
// batch multiplier, summed when a recipe repeats a category.
func (r *RequirementResolver) ResolveLineItem(ctx context.Context, item *entities.LineItem) (map[entities.CategoryID]entities.Quantity, error) {
	recipe, err := r.recipes.GetRecipe(item.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve line item %s: %w", item.ID, err)
	}

	multiplier := decimal.NewFromInt(int64(item.Quantity))
	required := make(map[entities.CategoryID]entities.Quantity)

	for _, line := range recipe.Lines {
		// Categories are validated before anything is accumulated so a
		// dangling reference surfaces as a structural error, not a zero row.
		if _, err := r.catalog.GetCategory(line.CategoryID); err != nil {
			return nil, fmt.Errorf("recipe %s references category %s: %w", recipe.ID, line.CategoryID, err)
		}
		required[line.CategoryID] = required[line.CategoryID].Add(line.QtyPerBatch.Mul(multiplier))
	}

	return required, nil
}

// ResolveLineItemByID looks the line item up first, then resolves it.
func (r *RequirementResolver) ResolveLineItemByID(ctx context.Context, id entities.LineItemID) (map[entities.CategoryID]entities.Quantity, error) {
	item, err := r.orders.GetLineItem(id)
	if err != nil {
		return nil, err
	}
	return r.ResolveLineItem(ctx, item)
}

// ResolveOrder sums ResolveLineItem across all line items of an order.
func (r *RequirementResolver) ResolveOrder(ctx context.Context, orderID entities.OrderID) (map[entities.CategoryID]entities.Quantity, error) {
	items, err := r.orders.GetLineItemsForOrder(orderID)
	if err != nil {
		return nil, err
	}

	required := make(map[entities.CategoryID]entities.Quantity)
	for _, item := range items {
		itemRequired, err := r.ResolveLineItem(ctx, item)
		if err != nil {
			return nil, err
		}
		for categoryID, qty := range itemRequired {
			required[categoryID] = required[categoryID].Add(qty)
		}
	}
	return required, nil
}
