package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/orchestrator"
)

// wireEvent is the JSON envelope put on the wire, matching the shape of the
// teacher's mq.Message (ID/Type/Payload/Timestamp) with Type narrowed to the
// lifecycle event's own EventType/EntityKind pair.
type wireEvent struct {
	ID         string         `json:"id"`
	EventType  string         `json:"event_type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Publisher publishes LifecycleEvents to the broker, implementing
// orchestrator.EventPublisher.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher wraps an already-connected Connection.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

// routingKeyFor derives the "<entity_kind>.<event_type>" routing key a
// subscriber would bind against, e.g. "task.task.completed".
func routingKeyFor(event orchestrator.LifecycleEvent) string {
	return fmt.Sprintf("%s.%s", event.EntityKind, event.EventType)
}

// Publish implements orchestrator.EventPublisher. Publish errors are logged
// rather than returned: a broker hiccup must never fail the task/workflow
// operation that triggered the event.
func (p *Publisher) Publish(event orchestrator.LifecycleEvent) {
	if err := p.publish(context.Background(), event); err != nil {
		p.logger.Warn("events: publish failed", "event_type", event.EventType, "error", err)
	}
}

func (p *Publisher) publish(ctx context.Context, event orchestrator.LifecycleEvent) error {
	msg := wireEvent{
		ID:         uuid.New().String(),
		EventType:  event.EventType,
		EntityKind: event.EntityKind,
		EntityID:   event.EntityID,
		OccurredAt: event.OccurredAt,
		Payload:    event.Payload,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	routingKey := routingKeyFor(event)
	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.OccurredAt,
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", Exchange, routingKey, err)
		}
		p.logger.Debug("events: published", "routing_key", routingKey, "message_id", msg.ID)
		return nil
	})
}
