package ioutboxrepo

import (
	"context"

	"github.com/oms-labs/order-svc/internal/service/models/outbox"
)

// IOutboxRepository stores audit-event publishes that failed, for later
// retry by the outbox worker.
type IOutboxRepository interface {
	Save(ctx context.Context, msg outbox.OutboxMessage) error
	FetchDue(ctx context.Context, limit int) ([]outbox.OutboxMessage, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, msg outbox.OutboxMessage, lastError string) error
}
