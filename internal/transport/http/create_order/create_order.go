package createorder

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
	CreateForUser(ctx context.Context, userID uuid.UUID) (*order.Order, error)
}

// CreateOrder creates a new draft order for the authenticated caller.
func CreateOrder(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")

		return
	}

	o, err := svc.CreateForUser(r.Context(), userID)
	if err != nil && !respond.AuditWarning(err) {
		respond.DomainError(w, err)

		return
	}

	w.Header().Set("Location", "/api/orders/"+o.ID().String())
	respond.JSON(w, http.StatusCreated, converters.OrderToResponse(o))
}
