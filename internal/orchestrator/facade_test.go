package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/template"
)

type fakeAgent struct {
	registry.BaseAgent
}

func (a *fakeAgent) HandleTask(ctx context.Context, task *domain.Task) (registry.TaskResponse, error) {
	return registry.TaskResponse{Success: true, Output: "done"}, nil
}

func (a *fakeAgent) ProcessMessage(ctx context.Context, msg registry.Message) (registry.Response, error) {
	return registry.Response{Content: "ack"}, nil
}

type recordingPublisher struct {
	events []LifecycleEvent
}

func (p *recordingPublisher) Publish(e LifecycleEvent) {
	p.events = append(p.events, e)
}

func TestFacade_SubmitAndRunTaskLoop(t *testing.T) {
	pub := &recordingPublisher{}
	f := New(Config{Name: "test-orchestrator", Events: pub})
	f.RegisterAgent(&fakeAgent{BaseAgent: registry.BaseAgent{
		AgentName:         "coder",
		AgentCapabilities: []domain.Capability{domain.CapabilityCoding},
	}})

	require.NoError(t, f.Start(context.Background()))

	task := domain.NewTask("build", "build it", domain.TaskTypeDevelopment, domain.PriorityHigh)
	id, err := f.SubmitTask(task)
	require.NoError(t, err)
	assert.Equal(t, task.ID, id)

	processed, err := f.RunTaskLoop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	got, ok := f.queue.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)

	var sawSubmitted, sawCompleted bool
	for _, e := range pub.events {
		if e.EventType == "task.submitted" {
			sawSubmitted = true
		}
		if e.EventType == "task.completed" {
			sawCompleted = true
		}
	}
	assert.True(t, sawSubmitted)
	assert.True(t, sawCompleted)

	status := f.GetStatus()
	assert.Equal(t, "test-orchestrator", status.Name)
	assert.True(t, status.Running)
	assert.Equal(t, 1, status.AgentCount)

	require.NoError(t, f.Shutdown(context.Background()))
	assert.False(t, f.GetStatus().Running)
}

func TestFacade_SubmitTaskFromTemplate(t *testing.T) {
	f := New(Config{})
	f.RegisterTemplate(&domain.TaskTemplate{
		Name:            "hotfix",
		Description:     "Fix ${bug_id}",
		DefaultTaskType: domain.TaskTypeBugFix,
		DefaultPriority: domain.PriorityCritical,
	})

	id, err := f.SubmitTaskFromTemplate("hotfix", "hotfix-task", map[string]any{"bug_id": "JIRA-42"}, template.CreateTaskOptions{})
	require.NoError(t, err)

	got, ok := f.queue.Get(id)
	require.True(t, ok)
	assert.Contains(t, got.Description, "JIRA-42")
	assert.Equal(t, "hotfix", got.Metadata["template_name"])
}
