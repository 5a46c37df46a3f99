package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PurchaseID identifies a purchase record.
type PurchaseID string

// Purchase records receiving Units purchased packages of an ingredient. The
// stock added is Units times the ingredient's package size.
type Purchase struct {
	ID           PurchaseID
	IngredientID IngredientID
	Units        int
	UnitPrice    Quantity
	Discount     Quantity
	PurchasedAt  time.Time
}

// NewPurchase creates a validated Purchase with a generated id.
func NewPurchase(ingredientID IngredientID, units int, unitPrice, discount Quantity, purchasedAt time.Time) (*Purchase, error) {
	if string(ingredientID) == "" {
		return nil, fmt.Errorf("ingredient id cannot be empty")
	}
	if units < 1 {
		return nil, fmt.Errorf("units must be at least 1, got %d", units)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative, got %s", unitPrice)
	}
	if discount.IsNegative() {
		return nil, fmt.Errorf("discount cannot be negative, got %s", discount)
	}

	return &Purchase{
		ID:           PurchaseID(uuid.NewString()),
		IngredientID: ingredientID,
		Units:        units,
		UnitPrice:    unitPrice,
		Discount:     discount,
		PurchasedAt:  purchasedAt,
	}, nil
}
