package iorderrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/models/orderitem"
)

// IOrderRepository is the persistence port for the order aggregate.
// GetByID loads the order together with its items in one read; a missing
// order is (nil, nil), not an error.
type IOrderRepository interface {
	Insert(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error)
	QueryByUser(ctx context.Context, userID uuid.UUID, q *order.QueryOrdersModel) ([]*order.Order, int64, error)
	Update(ctx context.Context, o *order.Order) error
	InsertItem(ctx context.Context, item *orderitem.OrderItem) error
	DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error
}
