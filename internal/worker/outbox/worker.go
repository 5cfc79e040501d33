package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/oms-labs/order-svc/internal/dal/interfaces/ioutboxrepo"
)

// publisher re-sends serialized audit payloads.
type publisher interface {
	PublishRaw(ctx context.Context, queueName, contentType string, body []byte) error
}

// Worker retries audit-event publishes that failed, draining the
// audit_outbox table on an interval.
type Worker struct {
	outboxRepo   ioutboxrepo.IOutboxRepository
	publisher    publisher
	pollInterval time.Duration
	batchSize    int
	stopCh       chan struct{}
}

// NewWorker creates a new outbox worker.
func NewWorker(outboxRepo ioutboxrepo.IOutboxRepository, pub publisher) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds == 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}

	return &Worker{
		outboxRepo:   outboxRepo,
		publisher:    pub,
		pollInterval: time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:    batchSize,
		stopCh:       make(chan struct{}),
	}
}

// Start begins processing messages from the outbox.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.outboxRepo.FetchDue(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to fetch outbox messages", "error", err)

		return
	}

	for _, msg := range messages {
		err := w.publisher.PublishRaw(ctx, msg.QueueName, msg.ContentType, msg.Payload)
		if err != nil {
			slog.Warn("Outbox publish retry failed",
				"id", msg.ID,
				"retry_count", msg.RetryCount+1,
				"error", err,
			)
			if markErr := w.outboxRepo.MarkFailed(ctx, msg, err.Error()); markErr != nil {
				slog.Error("Failed to mark outbox message", "id", msg.ID, "error", markErr)
			}

			continue
		}

		if err := w.outboxRepo.MarkPublished(ctx, msg.ID); err != nil {
			slog.Error("Failed to remove published outbox message", "id", msg.ID, "error", err)
		}
	}
}
