package reservation

import (
	"sort"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

// CategoryAllocation summarizes one category's allocation within a Reserve
// call: how much the order requires in total, how much this call reserved,
// and how much of the gap no batch could cover.
type CategoryAllocation struct {
	CategoryID entities.CategoryID
	Required   entities.Quantity
	Reserved   entities.Quantity
	Unmet      entities.Quantity
}

// ReserveOutcome reports what one Reserve call did.
type ReserveOutcome struct {
	OrderID entities.OrderID
	Created []*entities.Reservation

	byCategory map[entities.CategoryID]*CategoryAllocation
}

func newReserveOutcome(orderID entities.OrderID) *ReserveOutcome {
	return &ReserveOutcome{
		OrderID:    orderID,
		byCategory: make(map[entities.CategoryID]*CategoryAllocation),
	}
}

func (o *ReserveOutcome) category(id entities.CategoryID) *CategoryAllocation {
	alloc, exists := o.byCategory[id]
	if !exists {
		alloc = &CategoryAllocation{CategoryID: id}
		o.byCategory[id] = alloc
	}
	return alloc
}

func (o *ReserveOutcome) addRequired(id entities.CategoryID, qty entities.Quantity) {
	alloc := o.category(id)
	alloc.Required = alloc.Required.Add(qty)
}

func (o *ReserveOutcome) addReserved(id entities.CategoryID, qty entities.Quantity, created []*entities.Reservation) {
	alloc := o.category(id)
	alloc.Reserved = alloc.Reserved.Add(qty)
	o.Created = append(o.Created, created...)
}

func (o *ReserveOutcome) addUnmet(id entities.CategoryID, qty entities.Quantity) {
	alloc := o.category(id)
	alloc.Unmet = alloc.Unmet.Add(qty)
}

// Categories returns the per-category allocations sorted by category id.
func (o *ReserveOutcome) Categories() []CategoryAllocation {
	out := make([]CategoryAllocation, 0, len(o.byCategory))
	for _, alloc := range o.byCategory {
		out = append(out, *alloc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out
}

// FullyReserved reports whether no category was left with unmet shortfall.
func (o *ReserveOutcome) FullyReserved() bool {
	for _, alloc := range o.byCategory {
		if alloc.Unmet.IsPositive() {
			return false
		}
	}
	return true
}

// ReleaseFailure records one reservation that could not be released.
type ReleaseFailure struct {
	ReservationID entities.ReservationID
	Err           error
}

// ReleaseOutcome reports what one ReleaseAllForOrder call did.
type ReleaseOutcome struct {
	OrderID  entities.OrderID
	Released []entities.ReservationID
	Failures []ReleaseFailure
}
