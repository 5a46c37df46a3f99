package entities

// FulfillmentLevel classifies how well an order's requirement for one
// category is covered.
type FulfillmentLevel int

const (
	// Fulfilled: reserved covers the full requirement.
	Fulfilled FulfillmentLevel = iota
	// Partial: some stock is reserved and enough unreserved stock exists to
	// close the remaining gap.
	Partial
	// NotReserved: nothing reserved yet, but enough unreserved stock exists.
	NotReserved
	// AtRisk: the requirement cannot be met from reserved plus available
	// stock.
	AtRisk
)

// String method for FulfillmentLevel enum
func (l FulfillmentLevel) String() string {
	switch l {
	case Fulfilled:
		return "Fulfilled"
	case Partial:
		return "Partial"
	case NotReserved:
		return "NotReserved"
	case AtRisk:
		return "AtRisk"
	default:
		return "Unknown"
	}
}

// CategoryStockStatus is one row of an order's stock status report.
type CategoryStockStatus struct {
	CategoryID CategoryID
	Unit       string
	Required   Quantity
	Reserved   Quantity
	Available  Quantity
	Shortage   Quantity
	Level      FulfillmentLevel
}

// ShoppingListEntry is the cross-order shortfall for one category, with the
// open orders that contribute unmet demand.
type ShoppingListEntry struct {
	CategoryID CategoryID
	Unit       string
	Shortfall  Quantity
	Orders     []OrderID
}
