package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bakeplan/bakeplan/pkg/application/services/ledger"
	"github.com/bakeplan/bakeplan/pkg/application/services/resolver"
	"github.com/bakeplan/bakeplan/pkg/application/services/shared"
	"github.com/bakeplan/bakeplan/pkg/domain/entities"
	"github.com/bakeplan/bakeplan/pkg/domain/repositories"
	"github.com/bakeplan/bakeplan/pkg/infrastructure/events"
)

// Manager is the single allocation authority. One mutex serializes Reserve
// and Release so two concurrent calls cannot both observe the same available
// quantity and over-commit it.
type Manager struct {
	mu           sync.Mutex
	orders       repositories.OrderRepository
	reservations repositories.ReservationRepository
	stock        repositories.StockRepository
	catalog      repositories.CatalogRepository
	resolver     *resolver.RequirementResolver
	ledger       *ledger.StockLedger
	events       events.EventStore
}

// New creates a reservation manager
func New(
	orders repositories.OrderRepository,
	reservations repositories.ReservationRepository,
	stock repositories.StockRepository,
	catalog repositories.CatalogRepository,
	requirementResolver *resolver.RequirementResolver,
	stockLedger *ledger.StockLedger,
) *Manager {
	return &Manager{
		orders:       orders,
		reservations: reservations,
		stock:        stock,
		catalog:      catalog,
		resolver:     requirementResolver,
		ledger:       stockLedger,
	}
}

// NewWithEvents creates a reservation manager that appends reservation
// activity to an event store.
func NewWithEvents(
	orders repositories.OrderRepository,
	reservations repositories.ReservationRepository,
	stock repositories.StockRepository,
	catalog repositories.CatalogRepository,
	requirementResolver *resolver.RequirementResolver,
	stockLedger *ledger.StockLedger,
	store events.EventStore,
) *Manager {
	m := New(orders, reservations, stock, catalog, requirementResolver, stockLedger)
	m.events = store
	return m
}

// Reserve allocates available stock to an order's requirements in FIFO batch
// order. Running out of stock is not an error: the order keeps whatever
// could be reserved and the rest shows up as unmet in the outcome and in the
// shortage reports. Re-invoking Reserve only tops up the remaining gap.
//
// Structural errors (unknown order, line item, recipe, or category) abort
// before any ledger or reservation write.
func (m *Manager) Reserve(ctx context.Context, orderID entities.OrderID) (*ReserveOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.orders.GetOrder(orderID); err != nil {
		return nil, err
	}
	items, err := m.orders.GetLineItemsForOrder(orderID)
	if err != nil {
		return nil, err
	}

	// Resolve every line item up front so structural errors surface before
	// the first write.
	type itemRequirement struct {
		item     *entities.LineItem
		required map[entities.CategoryID]entities.Quantity
	}
	requirements := make([]itemRequirement, 0, len(items))
	for _, item := range items {
		required, err := m.resolver.ResolveLineItem(ctx, item)
		if err != nil {
			return nil, err
		}
		requirements = append(requirements, itemRequirement{item: item, required: required})
	}

	outcome := newReserveOutcome(orderID)

	for _, ir := range requirements {
		active, err := m.reservations.GetForLineItem(ir.item.ID)
		if err != nil {
			return nil, err
		}
		activeOnly := make([]*entities.Reservation, 0, len(active))
		for _, res := range active {
			if res.Status == entities.ReservationActive {
				activeOnly = append(activeOnly, res)
			}
		}
		alreadyReserved, err := shared.ReservedByCategory(m.stock, m.catalog, activeOnly)
		if err != nil {
			return nil, err
		}

		for _, categoryID := range shared.SortedCategoryIDs(ir.required) {
			required := ir.required[categoryID]
			outcome.addRequired(categoryID, required)

			shortfall := required.Sub(alreadyReserved[categoryID])
			if !shortfall.IsPositive() {
				continue
			}

			reserved, err := m.allocateCategory(ctx, orderID, ir.item.ID, categoryID, shortfall)
			if err != nil {
				return nil, err
			}
			outcome.addReserved(categoryID, reserved.total, reserved.created)

			unmet := shortfall.Sub(reserved.total)
			if unmet.IsPositive() {
				outcome.addUnmet(categoryID, unmet)
				m.publish(events.NewShortageIdentifiedEvent(orderID, categoryID, unmet))
			}
		}
	}

	return outcome, nil
}

type categoryAllocation struct {
	total   entities.Quantity
	created []*entities.Reservation
}

// allocateCategory consumes the category's batches in FIFO order until the
// shortfall is exhausted or no stock remains. Each draw creates a
// reservation row and deducts the same quantity from the batch, keeping the
// two views of committed stock in step.
func (m *Manager) allocateCategory(
	ctx context.Context,
	orderID entities.OrderID,
	lineItemID entities.LineItemID,
	categoryID entities.CategoryID,
	shortfall entities.Quantity,
) (categoryAllocation, error) {
	result := categoryAllocation{total: entities.ZeroQuantity()}

	batches, err := m.ledger.BatchesForAllocation(ctx, categoryID)
	if err != nil {
		return result, err
	}

	remaining := shortfall
	for _, batch := range batches {
		if !remaining.IsPositive() {
			break
		}
		take := entities.MinQuantity(remaining, batch.Remaining)
		if !take.IsPositive() {
			continue
		}

		reservation, err := entities.NewReservation(lineItemID, batch.ID, take, nil)
		if err != nil {
			return result, err
		}
		if err := m.ledger.Deduct(ctx, batch.ID, take); err != nil {
			return result, fmt.Errorf("failed to draw %s from batch %s: %w", take, batch.ID, err)
		}
		if err := m.reservations.Add(reservation); err != nil {
			// Undo the deduction so the conservation invariant survives the
			// failed write.
			_ = m.ledger.Restore(ctx, batch.ID, take)
			return result, fmt.Errorf("failed to record reservation on batch %s: %w", batch.ID, err)
		}

		m.publish(events.NewReservationCreatedEvent(*reservation, orderID, categoryID))
		result.created = append(result.created, reservation)
		result.total = result.total.Add(take)
		remaining = remaining.Sub(take)
	}

	return result, nil
}

// Release restores a reservation's committed quantity to its batch and flips
// the reservation to released. Releasing an already-released reservation is
// a no-op reported via the bool, tolerating duplicate release requests.
func (m *Manager) Release(ctx context.Context, id entities.ReservationID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.releaseLocked(ctx, id)
}

func (m *Manager) releaseLocked(ctx context.Context, id entities.ReservationID) (bool, error) {
	reservation, err := m.reservations.Get(id)
	if err != nil {
		return false, err
	}
	if reservation.Status == entities.ReservationReleased {
		return false, nil
	}

	if err := m.ledger.Restore(ctx, reservation.BatchID, reservation.Qty); err != nil {
		return false, fmt.Errorf("failed to release reservation %s: %w", id, err)
	}
	if err := m.reservations.MarkReleased(id); err != nil {
		// Take the stock back so the reservation is either fully released or
		// left untouched.
		_ = m.ledger.Deduct(ctx, reservation.BatchID, reservation.Qty)
		return false, fmt.Errorf("failed to mark reservation %s released: %w", id, err)
	}

	reservation.Status = entities.ReservationReleased
	m.publish(events.NewReservationReleasedEvent(*reservation))
	return true, nil
}

// ReleaseAllForOrder releases every active reservation belonging to the
// order's line items. Each individual release is all-or-nothing; a failed
// one is reported in the outcome and the rest still proceed.
func (m *Manager) ReleaseAllForOrder(ctx context.Context, orderID entities.OrderID) (*ReleaseOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.orders.GetLineItemsForOrder(orderID)
	if err != nil {
		return nil, err
	}
	ids := make([]entities.LineItemID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	active, err := m.reservations.GetActiveForLineItems(ids)
	if err != nil {
		return nil, err
	}

	outcome := &ReleaseOutcome{OrderID: orderID}
	for _, reservation := range active {
		released, err := m.releaseLocked(ctx, reservation.ID)
		switch {
		case err != nil:
			outcome.Failures = append(outcome.Failures, ReleaseFailure{ReservationID: reservation.ID, Err: err})
		case released:
			outcome.Released = append(outcome.Released, reservation.ID)
		}
	}
	return outcome, nil
}

// ReservedQuantityForOrder sums the committed quantity of the order's active
// reservations for one category.
func (m *Manager) ReservedQuantityForOrder(ctx context.Context, orderID entities.OrderID, categoryID entities.CategoryID) (entities.Quantity, error) {
	items, err := m.orders.GetLineItemsForOrder(orderID)
	if err != nil {
		return entities.ZeroQuantity(), err
	}
	ids := make([]entities.LineItemID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	active, err := m.reservations.GetActiveForLineItems(ids)
	if err != nil {
		return entities.ZeroQuantity(), err
	}
	totals, err := shared.ReservedByCategory(m.stock, m.catalog, active)
	if err != nil {
		return entities.ZeroQuantity(), err
	}
	return totals[categoryID], nil
}

// ReservedQuantityForLineItem sums the committed quantity of one line item's
// active reservations for one category.
func (m *Manager) ReservedQuantityForLineItem(ctx context.Context, lineItemID entities.LineItemID, categoryID entities.CategoryID) (entities.Quantity, error) {
	if _, err := m.orders.GetLineItem(lineItemID); err != nil {
		return entities.ZeroQuantity(), err
	}
	active, err := m.reservations.GetActiveForLineItems([]entities.LineItemID{lineItemID})
	if err != nil {
		return entities.ZeroQuantity(), err
	}
	totals, err := shared.ReservedByCategory(m.stock, m.catalog, active)
	if err != nil {
		return entities.ZeroQuantity(), err
	}
	return totals[categoryID], nil
}

// IsNotFound reports whether the error is the structural not-found kind.
func IsNotFound(err error) bool {
	return errors.Is(err, entities.ErrNotFound)
}

func (m *Manager) publish(event events.Event) {
	if m.events == nil {
		return
	}
	_ = m.events.AppendEvent(event.StreamID(), event)
}
