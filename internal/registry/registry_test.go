package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

type stubAgent struct {
	BaseAgent
	handled int
}

func newStubAgent(name string, caps ...domain.Capability) *stubAgent {
	return &stubAgent{BaseAgent: BaseAgent{AgentName: name, AgentCapabilities: caps}}
}

func (s *stubAgent) ProcessMessage(ctx context.Context, msg Message) (Response, error) {
	return Response{Content: "ok"}, nil
}

func (s *stubAgent) HandleTask(ctx context.Context, task *domain.Task) (TaskResponse, error) {
	s.handled++
	return TaskResponse{Success: true, Output: "done"}, nil
}

func TestAgentsForTask_OrderAndDedup(t *testing.T) {
	r := New()
	planner := newStubAgent("planner", domain.CapabilityPlanning)
	decomposer := newStubAgent("decomposer", domain.CapabilityTaskDecomposition)
	both := newStubAgent("both", domain.CapabilityPlanning, domain.CapabilityTaskDecomposition)

	r.Register(planner)
	r.Register(decomposer)
	r.Register(both)

	task := domain.NewTask("plan", "", domain.TaskTypePlanning, domain.PriorityMedium)
	agents := r.AgentsForTask(task)

	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name()
	}
	assert.Equal(t, []string{"planner", "both", "decomposer"}, names)
}

func TestDispatch_NoSuitableAgent(t *testing.T) {
	r := New()
	d := NewDispatcher(r, nil)
	task := domain.NewTask("t", "", domain.TaskTypeDevelopment, domain.PriorityMedium)

	_, err := d.Dispatch(context.Background(), task)
	require.Error(t, err)
	var notFound *ErrNoSuitableAgent
	assert.ErrorAs(t, err, &notFound)
}

func TestDispatch_WrapsSuccessfulResponse(t *testing.T) {
	r := New()
	agent := newStubAgent("coder", domain.CapabilityCoding)
	r.Register(agent)
	d := NewDispatcher(r, nil)

	task := domain.NewTask("t", "", domain.TaskTypeDevelopment, domain.PriorityMedium)
	result, err := d.Dispatch(context.Background(), task)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "done", result.Output)
	assert.Equal(t, domain.TaskStatusInProgress, task.Status)
	assert.Equal(t, "coder", task.AssignedAgent)
	assert.Equal(t, 1, agent.handled)
}
