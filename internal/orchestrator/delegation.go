package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/template"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/workflow"
)

// GetTask returns a queued/tracked task by id.
func (f *Facade) GetTask(id uuid.UUID) (*domain.Task, bool) {
	return f.queue.Get(id)
}

// ListTasksByStatus returns every tracked task in the given status.
func (f *Facade) ListTasksByStatus(status domain.TaskStatus) []*domain.Task {
	return f.queue.ByStatus(status)
}

// RegisterAgent registers a single agent (§6).
func (f *Facade) RegisterAgent(a registry.Agent) {
	f.registry.Register(a)
}

// RegisterAgents registers every agent in the map, keyed by a caller-chosen
// label (agents self-report their own Name()).
func (f *Facade) RegisterAgents(agents map[string]registry.Agent) {
	for _, a := range agents {
		f.registry.Register(a)
	}
}

// UnregisterAgent removes an agent from the registry.
func (f *Facade) UnregisterAgent(name string) {
	f.registry.Unregister(name)
}

// CreateConversation starts a new conversation (§4.6).
func (f *Facade) CreateConversation(topic string, participants []string, mode domain.ConversationMode, taskID *uuid.UUID) *domain.Conversation {
	return f.conversations.Create(topic, participants, mode, taskID)
}

// SendMessage sends a message within a conversation.
func (f *Facade) SendMessage(ctx context.Context, id uuid.UUID, sender, recipient, content string) (*registry.Response, error) {
	return f.conversations.Send(ctx, id, sender, recipient, content)
}

// BroadcastMessage broadcasts a message to every other participant.
func (f *Facade) BroadcastMessage(ctx context.Context, id uuid.UUID, sender, content string) ([]*registry.Response, error) {
	return f.conversations.Broadcast(ctx, id, sender, content)
}

// EndConversation forcibly completes a conversation.
func (f *Facade) EndConversation(id uuid.UUID) {
	f.conversations.End(id)
}

// ExecuteWorkflow runs a workflow to completion (or blocked/cancelled
// termination), per §4.9.
func (f *Facade) ExecuteWorkflow(ctx context.Context, w *domain.Workflow, inputs map[string]any) (*workflow.ExecutionResult, error) {
	return f.engine.Execute(ctx, w, inputs)
}

// GetWorkflowStatus returns a tracked workflow's current status.
func (f *Facade) GetWorkflowStatus(id uuid.UUID) (domain.WorkflowStatus, bool) {
	return f.engine.GetStatus(id)
}

// GetWorkflowResult returns the last recorded ExecutionResult for a workflow.
func (f *Facade) GetWorkflowResult(id uuid.UUID) (*workflow.ExecutionResult, bool) {
	return f.engine.GetResult(id)
}

// CancelWorkflow cooperatively cancels a running workflow.
func (f *Facade) CancelWorkflow(id uuid.UUID) bool {
	return f.engine.Cancel(id)
}

// PauseWorkflow pauses a running workflow.
func (f *Facade) PauseWorkflow(id uuid.UUID) bool {
	return f.engine.Pause(id)
}

// ResolveApproval delivers an external decision to a parked approval step.
func (f *Facade) ResolveApproval(stepID string, approved bool, approver, comment string) bool {
	return f.engine.ResolveApproval(stepID, approved, approver, comment)
}

// RegisterTemplate adds a task template to the facade's library.
func (f *Facade) RegisterTemplate(t *domain.TaskTemplate) {
	f.templates.Register(t)
}

// SubmitTaskFromTemplate implements create_task + submit_task (§4.10): it
// builds a task from a registered template and immediately submits it.
func (f *Facade) SubmitTaskFromTemplate(name, title string, variables map[string]any, opts template.CreateTaskOptions) (uuid.UUID, error) {
	task, err := f.templates.CreateTask(name, title, variables, opts)
	if err != nil {
		return uuid.Nil, err
	}
	return f.SubmitTask(task)
}

// Templates exposes the facade's template library for listing/filtering.
func (f *Facade) Templates() *template.Library {
	return f.templates
}
