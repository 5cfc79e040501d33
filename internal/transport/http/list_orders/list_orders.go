package listorders

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/transport/http/converters"
	"github.com/oms-labs/order-svc/internal/transport/http/middleware/auth"
	"github.com/oms-labs/order-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error)
}

// ListOrders returns all of the caller's orders, newest first.
func ListOrders(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")

		return
	}

	orders, err := svc.ListForUser(r.Context(), userID)
	if err != nil {
		respond.DomainError(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.OrdersToResponse(orders))
}
