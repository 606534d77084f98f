package llmagent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/config"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
)

// fakeOpenAIServer returns a chat completion with the given content for any
// request, mirroring the minimal shape the go-openai client expects back.
func fakeOpenAIServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestAgent(t *testing.T, srvURL, content string) *Agent {
	cfg := &config.Config{LLMAPIKey: "test-key", LLMModel: "gpt-test", LLMMaxTokens: 256, LLMTemperature: 0.5}
	a := New(cfg, "planner", "plans work", "be concise", []domain.Capability{domain.CapabilityPlanning})
	oaiCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	oaiCfg.BaseURL = srvURL + "/v1"
	a.client = openai.NewClientWithConfig(oaiCfg)
	return a
}

func TestHandleTask_ReturnsModelOutput(t *testing.T) {
	srv := fakeOpenAIServer(t, "here is the plan")
	defer srv.Close()

	a := newTestAgent(t, srv.URL, "here is the plan")
	task := domain.NewTask("plan release", "decide the steps", domain.TaskTypePlanning, domain.PriorityMedium)

	resp, err := a.HandleTask(context.Background(), task)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "here is the plan", resp.Output)
}

func TestProcessMessage_ReturnsModelOutput(t *testing.T) {
	srv := fakeOpenAIServer(t, "acknowledged")
	defer srv.Close()

	a := newTestAgent(t, srv.URL, "acknowledged")
	resp, err := a.ProcessMessage(context.Background(), registry.Message{Content: "status?"})
	require.NoError(t, err)
	require.Equal(t, "acknowledged", resp.Content)
}

func TestHandleTask_TransportErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := newTestAgent(t, srv.URL, "")
	task := domain.NewTask("plan release", "decide the steps", domain.TaskTypePlanning, domain.PriorityMedium)

	resp, err := a.HandleTask(context.Background(), task)
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.True(t, resp.Retryable)
}
