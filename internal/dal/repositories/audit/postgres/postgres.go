package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/oms-labs/order-svc/internal/dal/postgres"
	"github.com/oms-labs/order-svc/internal/service/models/auditevent"
)

// AuditRepository implements the append-only audit store for PostgreSQL.
type AuditRepository struct {
	pgClient *postgres.Client
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(pgClient *postgres.Client) *AuditRepository {
	return &AuditRepository{
		pgClient: pgClient,
	}
}

// Insert appends one audit event. Events are never updated or deleted.
func (r *AuditRepository) Insert(ctx context.Context, event auditevent.AuditEvent) error {
	var details any
	if len(event.Details) > 0 {
		details = event.Details
	}

	query, args, err := sq.Insert("audit_events").
		Columns("id", "user_id", "action", "order_id", "details", "created_at").
		Values(event.ID, event.UserID, event.Action, event.OrderID, details, event.CreatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build audit event insert: %w", err)
	}

	if _, err := r.pgClient.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}
