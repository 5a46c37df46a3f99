package reporting

import (
	"context"
	"sort"

	"github.com/bakeplan/bakeplan/pkg/application/services/ledger"
	"github.com/bakeplan/bakeplan/pkg/application/services/resolver"
	"github.com/bakeplan/bakeplan/pkg/application/services/shared"
	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// Reporter derives read-only stock status views for orders and an aggregate
// shopping list across all open orders. It never mutates stock or
// reservations, so its numbers are a snapshot of the moment it ran.
type Reporter struct {
	orders       repositories.OrderRepository
	reservations repositories.ReservationRepository
	stock        repositories.StockRepository
	catalog      repositories.CatalogRepository
	resolver     *resolver.RequirementResolver
	ledger       *ledger.StockLedger
}

// New creates a reporter over the given stores and services
func New(
	orders repositories.OrderRepository,
	reservations repositories.ReservationRepository,
	stock repositories.StockRepository,
	catalog repositories.CatalogRepository,
	requirementResolver *resolver.RequirementResolver,
	stockLedger *ledger.StockLedger,
) *Reporter {
	return &Reporter{
		orders:       orders,
		reservations: reservations,
		stock:        stock,
		catalog:      catalog,
		resolver:     requirementResolver,
		ledger:       stockLedger,
	}
}

// OrderStockStatus reports, per category the order requires, how much is
// required, reserved, still available, and short. Because reservations
// deduct stock when created, the ledger's remaining quantity already
// excludes every order's reservations; no cross-order adjustment is needed.
func (r *Reporter) OrderStockStatus(ctx context.Context, orderID entities.OrderID) ([]entities.CategoryStockStatus, error) {
	required, err := r.resolver.ResolveOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	reserved, err := r.reservedForOrder(orderID)
	if err != nil {
		return nil, err
	}

	statuses := make([]entities.CategoryStockStatus, 0, len(required))
	for _, categoryID := range shared.SortedCategoryIDs(required) {
		category, err := r.catalog.GetCategory(categoryID)
		if err != nil {
			return nil, err
		}
		available, err := r.ledger.AvailableForCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}

		req := required[categoryID]
		res := reserved[categoryID]
		shortage := entities.ClampQuantity(req.Sub(res).Sub(available))

		statuses = append(statuses, entities.CategoryStockStatus{
			CategoryID: categoryID,
			Unit:       category.Unit,
			Required:   req,
			Reserved:   res,
			Available:  available,
			Shortage:   shortage,
			Level:      classify(req, res, shortage),
		})
	}
	return statuses, nil
}

// ShoppingList aggregates shortfalls across all open orders into one
// purchasing view per category. A category appears only when the combined
// unreserved demand exceeds what the ledger still holds.
func (r *Reporter) ShoppingList(ctx context.Context) ([]entities.ShoppingListEntry, error) {
	orders, err := r.orders.GetOpenOrders()
	if err != nil {
		return nil, err
	}

	type demand struct {
		required entities.Quantity
		reserved entities.Quantity
		orders   []entities.OrderID
	}
	demands := make(map[entities.CategoryID]*demand)

	for _, order := range orders {
		required, err := r.resolver.ResolveOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		reserved, err := r.reservedForOrder(order.ID)
		if err != nil {
			return nil, err
		}

		for categoryID, req := range required {
			d, exists := demands[categoryID]
			if !exists {
				d = &demand{required: entities.ZeroQuantity(), reserved: entities.ZeroQuantity()}
				demands[categoryID] = d
			}
			d.required = d.required.Add(req)
			d.reserved = d.reserved.Add(reserved[categoryID])
			// Only orders still waiting on this category count as contributors.
			if req.Sub(reserved[categoryID]).IsPositive() {
				d.orders = append(d.orders, order.ID)
			}
		}
	}

	var entries []entities.ShoppingListEntry
	for categoryID, d := range demands {
		available, err := r.ledger.AvailableForCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		shortfall := d.required.Sub(d.reserved).Sub(available)
		if !shortfall.IsPositive() {
			continue
		}
		category, err := r.catalog.GetCategory(categoryID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entities.ShoppingListEntry{
			CategoryID: categoryID,
			Unit:       category.Unit,
			Shortfall:  shortfall,
			Orders:     d.orders,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].CategoryID < entries[j].CategoryID })
	return entries, nil
}

func (r *Reporter) reservedForOrder(orderID entities.OrderID) (map[entities.CategoryID]entities.Quantity, error) {
	items, err := r.orders.GetLineItemsForOrder(orderID)
	if err != nil {
		return nil, err
	}
	ids := make([]entities.LineItemID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	active, err := r.reservations.GetActiveForLineItems(ids)
	if err != nil {
		return nil, err
	}
	return shared.ReservedByCategory(r.stock, r.catalog, active)
}

// classify maps the numbers to a fulfillment level. Fully reserved demand is
// Fulfilled; anything partially reserved without a shortage is Partial; an
// entirely unreserved category that stock could still cover is NotReserved;
// a shortage makes the category AtRisk regardless of what is reserved.
func classify(required, reserved, shortage entities.Quantity) entities.FulfillmentLevel {
	switch {
	case shortage.IsPositive():
		return entities.AtRisk
	case reserved.GreaterThanOrEqual(required):
		return entities.Fulfilled
	case reserved.IsPositive():
		return entities.Partial
	default:
		return entities.NotReserved
	}
}
