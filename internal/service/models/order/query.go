package order

import "github.com/oms-labs/order-svc/internal/service/models/status"

// Sortable fields for the paged listing.
const (
	SortFieldCreatedAt = "createdatutc"
	SortFieldTotal     = "total"
	SortFieldStatus    = "status"
)

// QueryOrdersModel carries paging, sorting and filtering for a user's
// order listing.
type QueryOrdersModel struct {
	Page      int
	PageSize  int
	SortField string
	SortDesc  bool
	Status    *status.Status
}

// Normalize clamps paging and falls back to the default sort
// (newest first) for unknown fields.
func (q *QueryOrdersModel) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	switch q.SortField {
	case SortFieldCreatedAt, SortFieldTotal, SortFieldStatus:
	default:
		q.SortField = SortFieldCreatedAt
		q.SortDesc = true
	}
}

func (q *QueryOrdersModel) Offset() int {
	return (q.Page - 1) * q.PageSize
}
