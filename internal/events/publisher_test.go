package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/orchestrator"
)

func TestRoutingKeyFor(t *testing.T) {
	event := orchestrator.LifecycleEvent{
		EventType:  "task.completed",
		EntityKind: "task",
		EntityID:   "abc-123",
		OccurredAt: time.Now(),
	}
	assert.Equal(t, "task.task.completed", routingKeyFor(event))
}
