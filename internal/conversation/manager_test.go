package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
)

type echoAgent struct {
	registry.BaseAgent
}

func (a *echoAgent) ProcessMessage(ctx context.Context, msg registry.Message) (registry.Response, error) {
	return registry.Response{Content: "echo:" + msg.Content}, nil
}

func (a *echoAgent) HandleTask(ctx context.Context, task *domain.Task) (registry.TaskResponse, error) {
	return registry.TaskResponse{Success: true}, nil
}

func TestSend_InactiveConversationReturnsNil(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	c := m.Create("topic", []string{"a", "b"}, domain.ConversationModeSequential, nil)
	c.End()

	resp, err := m.Send(context.Background(), c.ID, "a", "b", "hi")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestSend_AppendsTurnAndForcesCompletedAtCap(t *testing.T) {
	reg := registry.New()
	reg.Register(&echoAgent{BaseAgent: registry.BaseAgent{AgentName: "b"}})
	m := New(reg)
	c := m.Create("topic", []string{"a", "b"}, domain.ConversationModeSequential, nil)
	c.MaxTurns = 1

	resp, err := m.Send(context.Background(), c.ID, "a", "b", "hi")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "echo:hi", resp.Content)

	got, _ := m.Get(c.ID)
	assert.Len(t, got.Turns, 1)
	assert.Equal(t, domain.ConversationStatusCompleted, got.Status)
}

func TestBroadcast_ExcludesSenderAndPreservesOrder(t *testing.T) {
	reg := registry.New()
	reg.Register(&echoAgent{BaseAgent: registry.BaseAgent{AgentName: "b"}})
	reg.Register(&echoAgent{BaseAgent: registry.BaseAgent{AgentName: "c"}})
	m := New(reg)
	c := m.Create("topic", []string{"a", "b", "c"}, domain.ConversationModeBroadcast, nil)

	responses, err := m.Broadcast(context.Background(), c.ID, "a", "hello")
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "echo:hello", responses[0].Content)
}

func TestBroadcast_InactiveConversationReturnsEmptyList(t *testing.T) {
	reg := registry.New()
	m := New(reg)
	c := m.Create("topic", []string{"a"}, domain.ConversationModeBroadcast, nil)
	m.End(c.ID)

	responses, err := m.Broadcast(context.Background(), c.ID, "a", "hello")
	require.NoError(t, err)
	assert.NotNil(t, responses)
	assert.Empty(t, responses)
}
