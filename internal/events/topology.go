package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the single topic exchange every lifecycle event is published
// to. Unlike the teacher's per-kind direct exchanges (automata.runs,
// automata.tasks), the orchestrator's LifecycleEvent already carries its
// own EntityKind field, so one topic exchange routed by
// "<entity_kind>.<event_type>" covers every case.
const Exchange = "orchestrator.lifecycle"

// SetupTopology declares the lifecycle exchange. There is no queue
// declaration here: this package only publishes, it never consumes, so
// binding a queue is left to whatever external service subscribes.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			Exchange,
			"topic",
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", Exchange, err)
		}
		return nil
	})
}
