package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const auditQueueName = "clinic.audit"

// envelope wraps every audit event with its type so a single durable
// queue can carry the whole stream.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher sends audit events to the clinic.audit queue. Errors are
// logged and returned so callers can ignore failures without
// interrupting the main request flow; a nil Publisher or an empty URL
// disables publishing entirely.
type Publisher struct {
	url    string
	logger zerolog.Logger
}

// NewPublisher returns a Publisher for the given AMQP URL. An empty
// URL yields a disabled publisher whose methods are no-ops.
func NewPublisher(url string, logger zerolog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// BookingStatusChanged publishes a booking lifecycle change.
func (p *Publisher) BookingStatusChanged(ctx context.Context, ev BookingStatusEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	return p.publish(ctx, "booking.status_changed", ev)
}

// PricesAdjusted publishes a bulk catalog repricing.
func (p *Publisher) PricesAdjusted(ctx context.Context, ev PricesAdjustedEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	return p.publish(ctx, "prices.adjusted", ev)
}

// CashClosed publishes a daily cash closing.
func (p *Publisher) CashClosed(ctx context.Context, ev CashClosedEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	return p.publish(ctx, "cash.closed", ev)
}

func (p *Publisher) publish(ctx context.Context, kind string, payload any) error {
	if p == nil || p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages
	// survive broker restarts.
	if _, err := ch.QueueDeclare(auditQueueName, true, false, false, false, nil); err != nil {
		p.logger.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope{Type: kind, Payload: raw})
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", auditQueueName, false, false, pub); err != nil {
		p.logger.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}
