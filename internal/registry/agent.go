// Package registry implements the capability-indexed Agent Registry &
// Dispatcher described in SPEC_FULL.md §4.2, generalized from the teacher's
// worker.Registry (a single-key-per-step-type Executor map duplicated in
// internal/steps/registry.go) into a set-of-capabilities index.
package registry

import (
	"context"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// Message is an inbound message delivered to an agent's ProcessMessage entry
// point, e.g. by the Conversation Manager.
type Message struct {
	Sender       string
	Recipient    string
	Content      string
	Metadata     map[string]any
}

// Response is what an agent's ProcessMessage entry point returns.
type Response struct {
	Content  string
	Metadata map[string]any
}

// TaskResponse is what an agent's HandleTask entry point returns. Unlike
// Response, it may flag that the output needs to go through the correction
// loop before being treated as terminal.
type TaskResponse struct {
	Success         bool
	Output          any
	Artifacts       []domain.Artifact
	Error           string
	NeedsCorrection bool
	Retryable       bool
}

// Agent is a named, polymorphic handler with a capability set and per-task
// entry points (§4.2).
type Agent interface {
	Name() string
	Description() string
	Capabilities() []domain.Capability
	CanHandle(taskType domain.TaskType) bool

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error

	ProcessMessage(ctx context.Context, msg Message) (Response, error)
	HandleTask(ctx context.Context, task *domain.Task) (TaskResponse, error)
}

// BaseAgent is an embeddable helper implementing the bookkeeping most
// concrete agents share, matching the teacher's habit of small embeddable
// structs for repeated plumbing (cf. worker.baseExecutor).
type BaseAgent struct {
	AgentName        string
	AgentDescription string
	AgentCapabilities []domain.Capability
}

func (b *BaseAgent) Name() string                         { return b.AgentName }
func (b *BaseAgent) Description() string                  { return b.AgentDescription }
func (b *BaseAgent) Capabilities() []domain.Capability     { return b.AgentCapabilities }

func (b *BaseAgent) CanHandle(taskType domain.TaskType) bool {
	required := domain.RequiredCapabilities(taskType)
	if len(required) == 0 {
		return false
	}
	have := make(map[domain.Capability]struct{}, len(b.AgentCapabilities))
	for _, c := range b.AgentCapabilities {
		have[c] = struct{}{}
	}
	for _, r := range required {
		if _, ok := have[r]; ok {
			return true
		}
	}
	return false
}

func (b *BaseAgent) Initialize(ctx context.Context) error { return nil }
func (b *BaseAgent) Shutdown(ctx context.Context) error   { return nil }
