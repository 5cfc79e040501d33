package removeitem

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
	RemoveItem(ctx context.Context, userID, orderID, itemID uuid.UUID) (mo.Option[*order.Order], error)
}

// RemoveItem removes an item from a draft order owned by the caller. An
// unknown item id is not an error; the order is returned unchanged.
func RemoveItem(w http.ResponseWriter, r *http.Request, svc service) {
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
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		respond.NotFound(w)

		return
	}

	opt, err := svc.RemoveItem(r.Context(), userID, orderID, itemID)
	if err != nil && !respond.AuditWarning(err) {
		respond.DomainError(w, err)

		return
	}
	if opt.IsAbsent() {
		respond.NotFound(w)

		return
	}

	respond.JSON(w, http.StatusOK, converters.OrderToResponse(opt.MustGet()))
}
