package orderitem

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oms-labs/order-svc/internal/service/errs"
)

// OrderItem is a single line of an order. Fields are unexported so the only
// mutation path is the validated setters; the line total is always derived.
type OrderItem struct {
	id        uuid.UUID
	orderID   uuid.UUID
	name      string
	quantity  int
	unitPrice decimal.Decimal
	createdAt time.Time
	updatedAt *time.Time
}

// New builds a validated item. The unit price is stored rounded to two
// decimals, half away from zero.
func New(name string, quantity int, unitPrice decimal.Decimal) (*OrderItem, error) {
	item := &OrderItem{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
	}
	if err := item.SetName(name); err != nil {
		return nil, err
	}
	if err := item.SetQuantity(quantity); err != nil {
		return nil, err
	}
	if err := item.SetUnitPrice(unitPrice); err != nil {
		return nil, err
	}
	item.updatedAt = nil

	return item, nil
}

// Restore rehydrates an item from storage without re-validating history.
func Restore(
	id uuid.UUID,
	orderID uuid.UUID,
	name string,
	quantity int,
	unitPrice decimal.Decimal,
	createdAt time.Time,
	updatedAt *time.Time,
) *OrderItem {
	return &OrderItem{
		id:        id,
		orderID:   orderID,
		name:      name,
		quantity:  quantity,
		unitPrice: unitPrice,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (i *OrderItem) ID() uuid.UUID         { return i.id }
func (i *OrderItem) OrderID() uuid.UUID    { return i.orderID }
func (i *OrderItem) Name() string          { return i.name }
func (i *OrderItem) Quantity() int         { return i.quantity }
func (i *OrderItem) CreatedAt() time.Time  { return i.createdAt }
func (i *OrderItem) UpdatedAt() *time.Time { return i.updatedAt }

func (i *OrderItem) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// LineTotal is quantity x unit price, rounded to two decimals half away
// from zero. Never stored, always computed.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity))).Round(2)
}

func (i *OrderItem) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: item name is required", errs.ErrValidation)
	}
	i.name = name
	i.touch()

	return nil
}

func (i *OrderItem) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", errs.ErrValidation)
	}
	i.quantity = quantity
	i.touch()

	return nil
}

func (i *OrderItem) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", errs.ErrValidation)
	}
	i.unitPrice = price.Round(2)
	i.touch()

	return nil
}

// BindOrder assigns the owning order. Called by the order aggregate only.
func (i *OrderItem) BindOrder(orderID uuid.UUID) {
	i.orderID = orderID
}

func (i *OrderItem) touch() {
	now := time.Now().UTC()
	i.updatedAt = &now
}
