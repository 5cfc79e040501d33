package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oms-labs/order-svc/internal/service/errs"
	"github.com/oms-labs/order-svc/internal/service/models/orderitem"
	"github.com/oms-labs/order-svc/internal/service/models/status"
)

// Order is the aggregate root: the order row plus its items, the unit of
// consistency for the total. All mutation goes through methods so the
// total and the status machine cannot be bypassed.
type Order struct {
	id        uuid.UUID
	userID    uuid.UUID
	status    status.Status
	total     decimal.Decimal
	items     []*orderitem.OrderItem
	createdAt time.Time
	updatedAt *time.Time
}

// New creates a Draft order owned by userID with a zero total.
func New(userID uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", errs.ErrValidation)
	}

	return &Order{
		id:        uuid.New(),
		userID:    userID,
		status:    status.StatusDraft,
		total:     decimal.Zero,
		items:     []*orderitem.OrderItem{},
		createdAt: time.Now().UTC(),
	}, nil
}

// Restore rehydrates an order from storage.
func Restore(
	id uuid.UUID,
	userID uuid.UUID,
	st status.Status,
	total decimal.Decimal,
	items []*orderitem.OrderItem,
	createdAt time.Time,
	updatedAt *time.Time,
) *Order {
	if items == nil {
		items = []*orderitem.OrderItem{}
	}

	return &Order{
		id:        id,
		userID:    userID,
		status:    st,
		total:     total,
		items:     items,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (o *Order) ID() uuid.UUID          { return o.id }
func (o *Order) UserID() uuid.UUID      { return o.userID }
func (o *Order) Status() status.Status  { return o.status }
func (o *Order) Total() decimal.Decimal { return o.total }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }
func (o *Order) UpdatedAt() *time.Time  { return o.updatedAt }

// Items returns the ordered item collection. The slice is shared with the
// aggregate; callers must not append to it.
func (o *Order) Items() []*orderitem.OrderItem {
	return o.items
}

// AddItem appends an item to a Draft order, binds it to this order and
// recalculates the total.
func (o *Order) AddItem(item *orderitem.OrderItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is required", errs.ErrValidation)
	}
	if err := o.ensureDraft(); err != nil {
		return err
	}

	item.BindOrder(o.id)
	o.items = append(o.items, item)
	o.recalculateTotal()

	return nil
}

// RemoveItem removes the item with itemID from a Draft order. A missing
// item is a no-op, not an error; the returned flag tells the caller whether
// anything changed.
func (o *Order) RemoveItem(itemID uuid.UUID) (bool, error) {
	if err := o.ensureDraft(); err != nil {
		return false, err
	}

	for idx, item := range o.items {
		if item.ID() == itemID {
			o.items = append(o.items[:idx], o.items[idx+1:]...)
			o.recalculateTotal()

			return true, nil
		}
	}

	return false, nil
}

// Submit moves Draft -> Submitted.
func (o *Order) Submit() error {
	return o.transition(status.StatusSubmitted, "only draft orders can be submitted")
}

// Complete moves Submitted -> Completed.
func (o *Order) Complete() error {
	return o.transition(status.StatusCompleted, "only submitted orders can be completed")
}

// Cancel moves any non-Completed order to Cancelled. Cancelling a cancelled
// order succeeds without change.
func (o *Order) Cancel() error {
	return o.transition(status.StatusCancelled, "completed orders cannot be cancelled")
}

func (o *Order) transition(to status.Status, reason string) error {
	if !o.status.CanTransition(to) {
		return fmt.Errorf("%w: %s", errs.ErrInvalidState, reason)
	}
	o.status = to
	o.touch()

	return nil
}

// recalculateTotal sums the per-line totals (each already rounded to two
// decimals) and rounds the sum the same way, half away from zero.
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.LineTotal())
	}
	o.total = total.Round(2)
	o.touch()
}

func (o *Order) ensureDraft() error {
	if o.status != status.StatusDraft {
		return fmt.Errorf("%w: only draft orders can be modified", errs.ErrInvalidState)
	}

	return nil
}

func (o *Order) touch() {
	now := time.Now().UTC()
	o.updatedAt = &now
}
