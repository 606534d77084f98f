package orchestrator

import "time"

// LifecycleEvent is the discriminated record emitted at status transitions
// the facade drives, described in SPEC_FULL.md §3a.
type LifecycleEvent struct {
	EventType  string
	EntityID   string
	EntityKind string
	OccurredAt time.Time
	Payload    map[string]any
}

// EventPublisher is the facade's seam into the optional outbound Event
// Publisher (§3a/§6a). A nil EventPublisher means every event is dropped;
// the facade never requires one to be configured.
type EventPublisher interface {
	Publish(event LifecycleEvent)
}

// SnapshotStore is the facade's seam into the optional Snapshot Store
// (§3a/§6a). A nil SnapshotStore means every write is a no-op.
type SnapshotStore interface {
	Save(kind, id string, record any)
}

// emit publishes a lifecycle event if a publisher is configured. It is
// best-effort: Publish returns nothing, so a failed publish never fails the
// decision path. The call runs synchronously on the caller's goroutine (the
// facade does not spawn goroutines here, so a test double observes events
// synchronously); any buffering or async behavior belongs to the configured
// EventPublisher. The AMQP-backed publisher in internal/events does no
// buffering: it publishes each event before returning and logs failures.
func (f *Facade) emit(eventType, entityKind, entityID string, payload map[string]any) {
	if f.events == nil {
		return
	}
	f.events.Publish(LifecycleEvent{
		EventType:  eventType,
		EntityID:   entityID,
		EntityKind: entityKind,
		OccurredAt: time.Now(),
		Payload:    payload,
	})
}

// snapshot writes an entity's current state to the configured SnapshotStore,
// a no-op when none is configured.
func (f *Facade) snapshot(kind, id string, record any) {
	if f.snapshots == nil {
		return
	}
	f.snapshots.Save(kind, id, record)
}
