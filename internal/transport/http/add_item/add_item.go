package additem

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/transport/http/converters"
	"github.com/oms-labs/order-svc/internal/transport/http/middleware/auth"
	"github.com/oms-labs/order-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	AddItem(
		ctx context.Context,
		userID uuid.UUID,
		orderID uuid.UUID,
		name string,
		quantity int,
		unitPrice decimal.Decimal,
	) (mo.Option[*order.Order], error)
}

type request struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// AddItem appends an item to a draft order owned by the caller.
func AddItem(w http.ResponseWriter, r *http.Request, svc service) {
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

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to decode request body")
		slog.Error("Error decoding request body for add item", "error", err)

		return
	}

	opt, err := svc.AddItem(r.Context(), userID, orderID, req.Name, req.Quantity, req.UnitPrice)
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
