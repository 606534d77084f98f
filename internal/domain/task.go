package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is the fundamental unit of work the orchestrator schedules, dispatches
// to an agent, retries, and optionally runs through the correction loop.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        TaskType   `json:"type"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`

	ParentID     *uuid.UUID  `json:"parent_id,omitempty"`
	Dependencies []uuid.UUID `json:"dependencies,omitempty"`
	SubtaskIDs   []uuid.UUID `json:"subtask_ids,omitempty"`

	AssignedAgent string `json:"assigned_agent,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	RetryConfig RetryConfig `json:"retry_config"`
	RetryState  RetryState  `json:"retry_state"`

	CorrectionCount int `json:"correction_count"`
	MaxCorrections  int `json:"max_corrections"`

	Result *TaskResult `json:"result,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewTask constructs a Task in the pending state with sensible defaults.
func NewTask(title, description string, typ TaskType, priority Priority) *Task {
	now := time.Now()
	return &Task{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		Type:           typ,
		Priority:       priority,
		Status:         TaskStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		RetryConfig:    DefaultRetryConfig(),
		MaxCorrections: 3,
		Metadata:       make(map[string]any),
	}
}

// touch refreshes UpdatedAt; every mutating method below calls it.
func (t *Task) touch() {
	t.UpdatedAt = time.Now()
}

// transitionTo moves the task to status if the current status is not
// terminal. Per the single-ownership invariant, callers are responsible for
// holding whatever lock guards the owning queue.
func (t *Task) transitionTo(status TaskStatus) {
	if t.Status.IsTerminal() {
		return
	}
	t.Status = status
	t.touch()
}

// MarkInProgress transitions the task to in_progress, setting StartedAt the
// first time it is entered.
func (t *Task) MarkInProgress(agent string) {
	t.transitionTo(TaskStatusInProgress)
	t.AssignedAgent = agent
	if t.StartedAt == nil {
		now := time.Now()
		t.StartedAt = &now
	}
}

// MarkCompleted transitions the task to completed with its terminal result.
func (t *Task) MarkCompleted(result *TaskResult) {
	t.transitionTo(TaskStatusCompleted)
	now := time.Now()
	t.CompletedAt = &now
	t.Result = result
}

// MarkFailedTerminal transitions the task to failed with its terminal result.
func (t *Task) MarkFailedTerminal(result *TaskResult) {
	t.transitionTo(TaskStatusFailed)
	now := time.Now()
	t.CompletedAt = &now
	t.Result = result
}

// MarkRetrying transitions the task to retrying after a failed attempt that
// is still within its retry budget.
func (t *Task) MarkRetrying() {
	t.transitionTo(TaskStatusRetrying)
}

// ResetForRetry moves a retrying task back to pending and clears the
// scheduled next-retry timestamp, mirroring process_retries (§4.1).
func (t *Task) ResetForRetry() {
	if t.Status != TaskStatusRetrying {
		return
	}
	t.Status = TaskStatusPending
	t.RetryState.ClearSchedule()
	t.touch()
}

// MarkCancelled transitions the task to cancelled; cancellation is
// administrative and bypasses the dispatcher/correction-loop ownership rule.
func (t *Task) MarkCancelled() {
	t.transitionTo(TaskStatusCancelled)
}

// MarkNeedsCorrection transitions the task to needs_correction and increments
// its correction counter; the caller must have already checked the
// CorrectionCount < MaxCorrections bound.
func (t *Task) MarkNeedsCorrection() {
	t.transitionTo(TaskStatusNeedsCorrection)
	t.CorrectionCount++
}

// IsReady reports whether the task can be returned by pop_next given the
// supplied set of completed task ids.
func (t *Task) IsReady(completed map[uuid.UUID]struct{}) bool {
	if t.Status != TaskStatusPending {
		return false
	}
	for _, dep := range t.Dependencies {
		if _, ok := completed[dep]; !ok {
			return false
		}
	}
	return true
}
