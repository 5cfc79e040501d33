package iauditrepo

import (
	"context"

	"github.com/oms-labs/order-svc/internal/service/models/auditevent"
)

// IAuditRepository appends immutable audit events. There is deliberately no
// update or delete.
type IAuditRepository interface {
	Insert(ctx context.Context, event auditevent.AuditEvent) error
}
