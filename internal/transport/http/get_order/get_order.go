package getorder

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/transport/http/converters"
	"github.com/oms-labs/order-svc/internal/transport/http/middleware/auth"
	"github.com/oms-labs/order-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)
}

// GetOrder fetches one order; missing and not-owned orders look identical.
func GetOrder(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")

		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		respond.NotFound(w)

		return
	}

	opt, err := svc.Get(r.Context(), userID, orderID)
	if err != nil {
		respond.DomainError(w, err)

		return
	}
	if opt.IsAbsent() {
		respond.NotFound(w)

		return
	}

	respond.JSON(w, http.StatusOK, converters.OrderToResponse(opt.MustGet()))
}
