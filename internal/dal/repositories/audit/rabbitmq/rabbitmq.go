package rabbitmqrepo

import (
	"context"
	"encoding/json"

	"github.com/streadway/amqp"

	"github.com/oms-labs/order-svc/internal/dal/rabbitmq"
	"github.com/oms-labs/order-svc/internal/service/models/auditevent"
)

// QueueName is where audit events are fanned out for downstream consumers.
const QueueName = "oms.audit.events"

// AuditPublisher publishes audit events to RabbitMQ. Delivery here is
// best-effort: the durable Postgres row is already written before Publish
// is called.
type AuditPublisher struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

// NewAuditPublisher declares the audit queue and returns a publisher.
func NewAuditPublisher(client *rabbitmq.Client) *AuditPublisher {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       QueueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &AuditPublisher{
		client: client,
		queue:  queue,
	}
}

// Publish sends one audit event as JSON.
func (p *AuditPublisher) Publish(_ context.Context, event auditevent.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.Channel().Publish(
		"",
		p.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// PublishRaw re-sends an already serialized payload, used by the outbox
// worker on retry.
func (p *AuditPublisher) PublishRaw(_ context.Context, queueName, contentType string, body []byte) error {
	return p.client.Channel().Publish(
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			ContentType: contentType,
			Body:        body,
		},
	)
}
