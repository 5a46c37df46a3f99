package repositories

import "github.com/bakeplan/bakeplan/pkg/domain/entities"

// OrderRepository provides access to orders and their line items
type OrderRepository interface {
	GetOrder(id entities.OrderID) (*entities.Order, error)
	GetOpenOrders() ([]*entities.Order, error)
	GetLineItem(id entities.LineItemID) (*entities.LineItem, error)
	GetLineItemsForOrder(orderID entities.OrderID) ([]*entities.LineItem, error)
	LoadOrders(orders []*entities.Order) error
	LoadLineItems(items []*entities.LineItem) error
}
