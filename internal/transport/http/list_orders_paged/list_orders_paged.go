package listorderspaged

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/models/status"
	"github.com/oms-labs/order-svc/internal/transport/http/converters"
	"github.com/oms-labs/order-svc/internal/transport/http/middleware/auth"
	"github.com/oms-labs/order-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	ListForUserPaged(ctx context.Context, userID uuid.UUID, q *order.QueryOrdersModel) ([]*order.Order, int64, error)
}

// ListOrdersPaged returns one page of the caller's orders.
// Query: page, pageSize, sort (field, '-' prefix for descending), status.
func ListOrdersPaged(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")

		return
	}

	query := r.URL.Query()

	q := &order.QueryOrdersModel{}
	if v, err := strconv.Atoi(query.Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(query.Get("pageSize")); err == nil {
		q.PageSize = v
	}
	q.SortField, q.SortDesc = parseSort(query.Get("sort"))

	if raw := query.Get("status"); raw != "" {
		st, err := parseStatus(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid status filter")

			return
		}
		q.Status = &st
	}

	orders, totalCount, err := svc.ListForUserPaged(r.Context(), userID, q)
	if err != nil {
		respond.DomainError(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.PagedOrdersResponse{
		Items:      converters.OrdersToResponse(orders),
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalCount: totalCount,
	})
}

func parseSort(s string) (field string, desc bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return order.SortFieldCreatedAt, true
	}
	desc = strings.HasPrefix(s, "-")

	return strings.ToLower(strings.TrimPrefix(s, "-")), desc
}

// parseStatus accepts the status filter in any casing.
func parseStatus(s string) (status.Status, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", status.ErrInvalidStatus
	}

	return status.ParseStatus(strings.ToUpper(s[:1]) + s[1:])
}
