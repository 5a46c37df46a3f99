package entities

import (
	"fmt"
	"strings"
	"time"
)

// OrderID identifies a customer order.
type OrderID string

// LineItemID identifies one line of an order.
type LineItemID string

// OrderStatus represents the order workflow state.
type OrderStatus int

const (
	StatusNew OrderStatus = iota
	StatusAwaitingStock
	StatusReserved
	StatusInProduction
	StatusReadyForDelivery
	StatusDelivered
	StatusCancelled
)

// String method for OrderStatus enum
func (s OrderStatus) String() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusAwaitingStock:
		return "Awaiting Stock"
	case StatusReserved:
		return "Reserved"
	case StatusInProduction:
		return "In Production"
	case StatusReadyForDelivery:
		return "Ready for Delivery"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ParseOrderStatus parses the textual status form used by loaders.
// Matching ignores case and the spaces in multi-word statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	normalized := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for st := StatusNew; st <= StatusCancelled; st++ {
		if strings.ToLower(strings.ReplaceAll(st.String(), " ", "")) == normalized {
			return st, nil
		}
	}
	return StatusNew, fmt.Errorf("unknown order status %q", s)
}

// Order is a customer order. Only the allocation-relevant fields matter to
// the engine; the rest travel along for display.
type Order struct {
	ID         OrderID
	CustomerID string
	Status     OrderStatus
	OrderDate  time.Time
	Notes      string
}

// IsOpen reports whether the order still participates in allocation and
// shopping-list aggregation.
func (o *Order) IsOpen() bool {
	return o.Status != StatusDelivered && o.Status != StatusCancelled
}

// NewOrder creates a validated Order.
func NewOrder(id OrderID, customerID string, status OrderStatus, orderDate time.Time, notes string) (*Order, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if customerID == "" {
		return nil, fmt.Errorf("customer id cannot be empty")
	}

	return &Order{
		ID:         id,
		CustomerID: customerID,
		Status:     status,
		OrderDate:  orderDate,
		Notes:      notes,
	}, nil
}

// LineItem belongs to exactly one order and asks for Quantity production
// batches of a recipe.
type LineItem struct {
	ID       LineItemID
	OrderID  OrderID
	RecipeID RecipeID
	Quantity int
}

// NewLineItem creates a validated LineItem.
func NewLineItem(id LineItemID, orderID OrderID, recipeID RecipeID, quantity int) (*LineItem, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("line item id cannot be empty")
	}
	if string(orderID) == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if string(recipeID) == "" {
		return nil, fmt.Errorf("recipe id cannot be empty")
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	return &LineItem{
		ID:       id,
		OrderID:  orderID,
		RecipeID: recipeID,
		Quantity: quantity,
	}, nil
}
