package transitionorder

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
	Submit(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)
	Complete(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)
}

type transitionFn func(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)

// Submit moves a draft order to Submitted.
func Submit(w http.ResponseWriter, r *http.Request, svc service) {
	handle(w, r, svc.Submit)
}

// Complete moves a submitted order to Completed.
func Complete(w http.ResponseWriter, r *http.Request, svc service) {
	handle(w, r, svc.Complete)
}

// Cancel moves a non-completed order to Cancelled.
func Cancel(w http.ResponseWriter, r *http.Request, svc service) {
	handle(w, r, svc.Cancel)
}

func handle(w http.ResponseWriter, r *http.Request, apply transitionFn) {
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

	opt, err := apply(r.Context(), userID, orderID)
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
