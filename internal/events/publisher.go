package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"shutterbook/internal/logger"
	"shutterbook/internal/metrics"
)

// Publisher writes events to durable RabbitMQ queues. A Publisher with an
// empty URL is a no-op, which keeps the broker optional in development.
type Publisher struct {
	url string
}

func NewPublisher(amqpURL string) *Publisher {
	return &Publisher{url: amqpURL}
}

func (p *Publisher) Enabled() bool {
	return p.url != ""
}

func (p *Publisher) PublishBookingCreated(ctx context.Context, event BookingCreatedEvent) error {
	return p.publish(ctx, BookingCreatedQueue, event)
}

func (p *Publisher) PublishBookingCanceled(ctx context.Context, event BookingCanceledEvent) error {
	return p.publish(ctx, BookingCanceledQueue, event)
}

func (p *Publisher) publish(ctx context.Context, queue string, event interface{}) error {
	if !p.Enabled() {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Errorf("amqp: dial failed: %v", err)
		metrics.RecordEventPublished(queue, "error")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Errorf("amqp: channel open failed: %v", err)
		metrics.RecordEventPublished(queue, "error")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable queue so events survive broker restarts. Declare is idempotent.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		logger.Errorf("amqp: queue declare failed: %v", err)
		metrics.RecordEventPublished(queue, "error")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("amqp: marshal event failed: %v", err)
		metrics.RecordEventPublished(queue, "error")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		logger.Errorf("amqp: publish to %s failed: %v", queue, err)
		metrics.RecordEventPublished(queue, "error")
		return err
	}

	metrics.RecordEventPublished(queue, "ok")
	return nil
}
