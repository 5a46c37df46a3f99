package memory

import (
	"fmt"
	"sync"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
)

// OrderRepository provides in-memory order and line item storage
type OrderRepository struct {
	mu           sync.RWMutex
	orders       map[entities.OrderID]*entities.Order
	lineItems    map[entities.LineItemID]*entities.LineItem
	orderSeq     []entities.OrderID
	lineItemSeq  []entities.LineItemID
	itemsByOrder map[entities.OrderID][]entities.LineItemID
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:       make(map[entities.OrderID]*entities.Order),
		lineItems:    make(map[entities.LineItemID]*entities.LineItem),
		itemsByOrder: make(map[entities.OrderID][]entities.LineItemID),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// LoadOrders loads orders into the repository
func (r *OrderRepository) LoadOrders(orders []*entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range orders {
		if _, exists := r.orders[o.ID]; !exists {
			r.orderSeq = append(r.orderSeq, o.ID)
		}
		copied := *o
		r.orders[o.ID] = &copied
	}
	return nil
}

// LoadLineItems loads line items into the repository. Each item must
// reference a known order.
func (r *OrderRepository) LoadLineItems(items []*entities.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if _, exists := r.orders[item.OrderID]; !exists {
			return fmt.Errorf("line item %s references order %s: %w", item.ID, item.OrderID, entities.ErrNotFound)
		}
		if _, exists := r.lineItems[item.ID]; !exists {
			r.lineItemSeq = append(r.lineItemSeq, item.ID)
			r.itemsByOrder[item.OrderID] = append(r.itemsByOrder[item.OrderID], item.ID)
		}
		copied := *item
		r.lineItems[item.ID] = &copied
	}
	return nil
}

// GetOrder returns the order with the given id
func (r *OrderRepository) GetOrder(id entities.OrderID) (*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, exists := r.orders[id]
	if !exists {
		return nil, fmt.Errorf("order %s: %w", id, entities.ErrNotFound)
	}
	copied := *o
	return &copied, nil
}

// GetOpenOrders returns orders that are neither delivered nor cancelled, in
// insertion order.
func (r *OrderRepository) GetOpenOrders() ([]*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var open []*entities.Order
	for _, id := range r.orderSeq {
		o := r.orders[id]
		if o.IsOpen() {
			copied := *o
			open = append(open, &copied)
		}
	}
	return open, nil
}

// GetLineItem returns the line item with the given id
func (r *OrderRepository) GetLineItem(id entities.LineItemID) (*entities.LineItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.lineItems[id]
	if !exists {
		return nil, fmt.Errorf("line item %s: %w", id, entities.ErrNotFound)
	}
	copied := *item
	return &copied, nil
}

// GetLineItemsForOrder returns the order's line items in insertion order
func (r *OrderRepository) GetLineItemsForOrder(orderID entities.OrderID) ([]*entities.LineItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.orders[orderID]; !exists {
		return nil, fmt.Errorf("order %s: %w", orderID, entities.ErrNotFound)
	}

	var items []*entities.LineItem
	for _, id := range r.itemsByOrder[orderID] {
		copied := *r.lineItems[id]
		items = append(items, &copied)
	}
	return items, nil
}
