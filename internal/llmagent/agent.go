// Package llmagent implements the reference LLM-backed Agent named in
// SPEC_FULL.md §4.2, grounded on cedricziel-mel-agent's pkg/nodes/llm/llm.go
// (sashabaranov/go-openai chat completion call shape) and C360Studio-
// semspec's llm package's config-driven provider/model selection.
package llmagent

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/config"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
)

// Agent is a registry.Agent backed by a chat-completion LLM call. One Agent
// instance is bound to a single capability set and system prompt; register
// several with different names/capabilities to model distinct roles (e.g.
// a "planner" and a "reviewer") over the same underlying model.
type Agent struct {
	registry.BaseAgent

	client       *openai.Client
	model        string
	maxTokens    int
	temperature  float32
	systemPrompt string
}

// New constructs an Agent from the shared Config (§6a): provider, model,
// API key, max tokens, and temperature all come from ORCHESTRATOR_LLM_*
// variables, never read directly by this package.
func New(cfg *config.Config, name, description, systemPrompt string, capabilities []domain.Capability) *Agent {
	return &Agent{
		BaseAgent: registry.BaseAgent{
			AgentName:         name,
			AgentDescription:  description,
			AgentCapabilities: capabilities,
		},
		client:       openai.NewClient(cfg.LLMAPIKey),
		model:        cfg.LLMModel,
		maxTokens:    cfg.LLMMaxTokens,
		temperature:  float32(cfg.LLMTemperature),
		systemPrompt: systemPrompt,
	}
}

// ProcessMessage answers a single inbound message with one chat completion.
func (a *Agent) ProcessMessage(ctx context.Context, msg registry.Message) (registry.Response, error) {
	content, err := a.complete(ctx, msg.Content)
	if err != nil {
		return registry.Response{}, err
	}
	return registry.Response{Content: content}, nil
}

// HandleTask runs the task's description through the model and reports the
// completion as the task's output. Per §4.2, an agent may ask for a
// correction pass by setting NeedsCorrection; this reference implementation
// never does so on its own — correction is driven by an Evaluator, not by
// the agent itself.
func (a *Agent) HandleTask(ctx context.Context, task *domain.Task) (registry.TaskResponse, error) {
	output, err := a.complete(ctx, task.Description)
	if err != nil {
		return registry.TaskResponse{
			Success:   false,
			Error:     err.Error(),
			Retryable: true,
		}, nil
	}
	return registry.TaskResponse{Success: true, Output: output}, nil
}

func (a *Agent) complete(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if a.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llmagent: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llmagent: no response choices for agent %q", a.Name())
	}
	return resp.Choices[0].Message.Content, nil
}
