package outbox

import (
	"time"
)

// OutboxMessage is an audit event that failed to be published to RabbitMQ
// and is waiting for a retry. The durable Postgres audit row is written
// before any publish, so the outbox only guards the fanout channel.
type OutboxMessage struct {
	ID          int64
	QueueName   string
	Payload     []byte
	ContentType string
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}
