package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRecipe_Validation(t *testing.T) {
	lines := []RecipeLine{
		{CategoryID: "flour", QtyPerBatch: decimal.NewFromInt(500)},
		{CategoryID: "butter", QtyPerBatch: decimal.NewFromInt(250)},
	}

	recipe, err := NewRecipe("croissant", "Croissant", 12, lines)
	if err != nil {
		t.Fatalf("Expected valid recipe creation to succeed: %v", err)
	}
	if recipe.OutputYield != 12 {
		t.Errorf("Expected output yield 12, got %d", recipe.OutputYield)
	}

	testCases := []struct {
		name        string
		id          RecipeID
		recipeName  string
		outputYield int
		lines       []RecipeLine
	}{
		{"empty id", "", "Croissant", 12, lines},
		{"empty name", "croissant", "", 12, lines},
		{"zero yield", "croissant", "Croissant", 0, lines},
		{"empty line category", "croissant", "Croissant", 12, []RecipeLine{{CategoryID: "", QtyPerBatch: decimal.NewFromInt(1)}}},
		{"zero line quantity", "croissant", "Croissant", 12, []RecipeLine{{CategoryID: "flour", QtyPerBatch: decimal.Zero}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRecipe(tc.id, tc.recipeName, tc.outputYield, tc.lines)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
		})
	}
}

func TestOrderStatus_RoundTrip(t *testing.T) {
	for st := StatusNew; st <= StatusCancelled; st++ {
		parsed, err := ParseOrderStatus(st.String())
		if err != nil {
			t.Fatalf("ParseOrderStatus(%s) failed: %v", st, err)
		}
		if parsed != st {
			t.Errorf("Expected %s to round-trip, got %s", st, parsed)
		}
	}
}

func TestOrder_IsOpen(t *testing.T) {
	testCases := []struct {
		status OrderStatus
		open   bool
	}{
		{StatusNew, true},
		{StatusAwaitingStock, true},
		{StatusReserved, true},
		{StatusInProduction, true},
		{StatusReadyForDelivery, true},
		{StatusDelivered, false},
		{StatusCancelled, false},
	}

	for _, tc := range testCases {
		order := Order{ID: "o-1", Status: tc.status}
		if order.IsOpen() != tc.open {
			t.Errorf("Expected IsOpen()=%t for status %s", tc.open, tc.status)
		}
	}
}
