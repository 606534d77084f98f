package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/conversation"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
)

type stageAgent struct {
	registry.BaseAgent
	fail bool
}

func (a *stageAgent) HandleTask(ctx context.Context, task *domain.Task) (registry.TaskResponse, error) {
	if a.fail {
		return registry.TaskResponse{}, errors.New("boom")
	}
	return registry.TaskResponse{Success: true, Output: a.AgentName}, nil
}

func (a *stageAgent) ProcessMessage(ctx context.Context, msg registry.Message) (registry.Response, error) {
	return registry.Response{Content: "ok"}, nil
}

func newStageAgent(name string, fail bool) *stageAgent {
	return &stageAgent{BaseAgent: registry.BaseAgent{AgentName: name}, fail: fail}
}

func featureWorkflow() *domain.Workflow {
	w := domain.NewWorkflow("feature-development", "")
	w.AddStep(domain.WorkflowStep{ID: "planning", Name: "planning", Type: domain.StepTypeTask, Status: domain.WorkflowStatusPending, Config: map[string]any{"agent": "planning"}})
	w.AddStep(domain.WorkflowStep{ID: "architecture", Name: "architecture", Type: domain.StepTypeTask, Status: domain.WorkflowStatusPending, Dependencies: []string{"planning"}, Config: map[string]any{"agent": "architecture"}})
	w.AddStep(domain.WorkflowStep{ID: "development", Name: "development", Type: domain.StepTypeTask, Status: domain.WorkflowStatusPending, Dependencies: []string{"architecture"}, Config: map[string]any{"agent": "development"}})
	w.AddStep(domain.WorkflowStep{ID: "testing", Name: "testing", Type: domain.StepTypeTask, Status: domain.WorkflowStatusPending, Dependencies: []string{"development"}, Config: map[string]any{"agent": "testing"}})
	w.AddStep(domain.WorkflowStep{ID: "security", Name: "security", Type: domain.StepTypeTask, Status: domain.WorkflowStatusPending, Dependencies: []string{"development"}, Config: map[string]any{"agent": "security"}})
	w.AddStep(domain.WorkflowStep{ID: "documentation", Name: "documentation", Type: domain.StepTypeTask, Status: domain.WorkflowStatusPending, Dependencies: []string{"testing", "security"}, Config: map[string]any{"agent": "documentation"}})
	return w
}

func TestExecute_FullDAGCompletion(t *testing.T) {
	reg := registry.New()
	for _, name := range []string{"planning", "architecture", "development", "testing", "security", "documentation"} {
		reg.Register(newStageAgent(name, false))
	}
	dispatcher := registry.NewDispatcher(reg, nil)
	convMgr := conversation.New(reg)
	engine := New(reg, dispatcher, convMgr)

	w := featureWorkflow()
	result, err := engine.Execute(context.Background(), w, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.WorkflowStatusCompleted, result.Status)

	for _, name := range []string{"planning", "architecture", "development", "testing", "security", "documentation"} {
		_, ok := result.Outputs[name]
		assert.True(t, ok, "missing output for step %s", name)
	}

	doc := w.GetStep("documentation")
	testing_ := w.GetStep("testing")
	security := w.GetStep("security")
	require.NotNil(t, doc.StartedAt)
	require.NotNil(t, testing_.CompletedAt)
	require.NotNil(t, security.CompletedAt)
	later := testing_.CompletedAt
	if security.CompletedAt.After(*later) {
		later = security.CompletedAt
	}
	assert.True(t, !doc.StartedAt.Before(*later))
}

func TestExecute_BlockedByFailedDependency(t *testing.T) {
	reg := registry.New()
	reg.Register(newStageAgent("planning", false))
	reg.Register(newStageAgent("architecture", false))
	reg.Register(newStageAgent("development", true))
	reg.Register(newStageAgent("testing", false))
	reg.Register(newStageAgent("security", false))
	reg.Register(newStageAgent("documentation", false))

	dispatcher := registry.NewDispatcher(reg, nil)
	convMgr := conversation.New(reg)
	engine := New(reg, dispatcher, convMgr)

	w := featureWorkflow()
	result, err := engine.Execute(context.Background(), w, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, domain.WorkflowStatusFailed, result.Status)
	assert.Contains(t, result.Error, "development")

	assert.Equal(t, domain.WorkflowStatusFailed, w.GetStep("development").Status)
	assert.Equal(t, domain.WorkflowStatusPending, w.GetStep("testing").Status)
	assert.Equal(t, domain.WorkflowStatusPending, w.GetStep("security").Status)
	assert.Equal(t, domain.WorkflowStatusPending, w.GetStep("documentation").Status)
}

func TestResolveApproval_UnblocksParkedStep(t *testing.T) {
	reg := registry.New()
	dispatcher := registry.NewDispatcher(reg, nil)
	convMgr := conversation.New(reg)
	engine := New(reg, dispatcher, convMgr)

	w := domain.NewWorkflow("approval-flow", "")
	w.AddStep(domain.WorkflowStep{ID: "gate", Name: "gate", Type: domain.StepTypeApproval, Status: domain.WorkflowStatusPending})

	done := make(chan *ExecutionResult, 1)
	go func() {
		result, _ := engine.Execute(context.Background(), w, nil)
		done <- result
	}()

	var resolved bool
	for i := 0; i < 1000 && !resolved; i++ {
		resolved = engine.ResolveApproval("gate", true, "alice", "looks good")
		if !resolved {
			time.Sleep(time.Millisecond)
		}
	}
	require.True(t, resolved)

	result := <-done
	assert.True(t, result.Success)
	assert.Equal(t, "alice", result.Outputs["gate"].(map[string]any)["approved_by"])
}
