package converters

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/models/orderitem"
)

// OrderItemResponse is the wire shape of one order line.
type OrderItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	LineTotal float64   `json:"lineTotal"`
}

// OrderResponse is the wire shape of an order with its items.
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	UserID       uuid.UUID           `json:"userId"`
	Status       string              `json:"status"`
	Total        float64             `json:"total"`
	CreatedAtUTC time.Time           `json:"createdAtUtc"`
	UpdatedAtUTC *time.Time          `json:"updatedAtUtc"`
	Items        []OrderItemResponse `json:"items"`
}

// PagedOrdersResponse wraps one page of orders.
type PagedOrdersResponse struct {
	Items      []OrderResponse `json:"items"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalCount int64           `json:"totalCount"`
}

// AuthResponse carries an issued token and its expiry.
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	ExpiresAtUTC time.Time `json:"expiresAtUtc"`
}

// OrderToResponse shapes one order entity for the wire.
func OrderToResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID(),
		UserID:       o.UserID(),
		Status:       o.Status().String(),
		Total:        o.Total().InexactFloat64(),
		CreatedAtUTC: o.CreatedAt(),
		UpdatedAtUTC: o.UpdatedAt(),
		Items:        lo.Map(o.Items(), func(i *orderitem.OrderItem, _ int) OrderItemResponse { return itemToResponse(i) }),
	}
}

// OrdersToResponse shapes a list of orders.
func OrdersToResponse(orders []*order.Order) []OrderResponse {
	return lo.Map(orders, func(o *order.Order, _ int) OrderResponse { return OrderToResponse(o) })
}

func itemToResponse(i *orderitem.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:        i.ID(),
		Name:      i.Name(),
		Quantity:  i.Quantity(),
		UnitPrice: i.UnitPrice().InexactFloat64(),
		LineTotal: i.LineTotal().InexactFloat64(),
	}
}
