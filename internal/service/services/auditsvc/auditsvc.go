package auditsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/oms-labs/order-svc/internal/dal/interfaces/iauditrepo"
	"github.com/oms-labs/order-svc/internal/dal/interfaces/ioutboxrepo"
	auditpublisher "github.com/oms-labs/order-svc/internal/dal/repositories/audit/rabbitmq"
	"github.com/oms-labs/order-svc/internal/service/models/auditevent"
	"github.com/oms-labs/order-svc/internal/service/models/outbox"
)

// publisher fans audit events out to downstream consumers.
type publisher interface {
	Publish(ctx context.Context, event auditevent.AuditEvent) error
}

// AuditService appends immutable audit events. The Postgres append is the
// contract; the RabbitMQ fanout afterwards is best-effort, with failed
// publishes parked in the outbox for the retry worker.
type AuditService struct {
	repo       iauditrepo.IAuditRepository
	publisher  publisher
	outboxRepo ioutboxrepo.IOutboxRepository
}

// option is a function that configures the AuditService.
type option func(*AuditService)

// MustNewAuditService creates a new AuditService.
func MustNewAuditService(opts ...option) *AuditService {
	s := &AuditService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.repo == nil {
		panic("auditsvc: repository is required")
	}

	return s
}

// WithRepository sets the audit store.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo iauditrepo.IAuditRepository) option {
	return func(s *AuditService) {
		s.repo = repo
	}
}

// WithPublisher enables the RabbitMQ fanout.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPublisher(p publisher) option {
	return func(s *AuditService) {
		s.publisher = p
	}
}

// WithOutboxRepository enables retries for failed publishes.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *AuditService) {
		s.outboxRepo = repo
	}
}

// Append durably stores the event, then fans it out. A fanout failure never
// fails the append.
func (s *AuditService) Append(ctx context.Context, event auditevent.AuditEvent) error {
	if err := s.repo.Insert(ctx, event); err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("audit event publish failed", "action", event.Action, "error", err)
		s.enqueueRetry(ctx, event, err)
	}

	return nil
}

func (s *AuditService) enqueueRetry(ctx context.Context, event auditevent.AuditEvent, cause error) {
	if s.outboxRepo == nil {
		return
	}

	payload, err := event.MarshalPayload()
	if err != nil {
		slog.Error("failed to serialize audit event for outbox", "error", err)

		return
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	now := time.Now()
	msg := outbox.OutboxMessage{
		QueueName:   auditpublisher.QueueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		LastError:   cause.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
	if err := s.outboxRepo.Save(ctx, msg); err != nil {
		slog.Error("failed to enqueue audit event for retry", "error", err)
	}
}
