package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workflow is a named DAG of steps with shared variables and status,
// generalized from the teacher's Flow/FlowVersion/FlowSpec trio into a
// single in-memory definition-plus-instance record.
type Workflow struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Version     int            `json:"version"`
	Status      WorkflowStatus `json:"status"`
	Steps       []WorkflowStep `json:"steps"`
	Variables   map[string]any `json:"variables,omitempty"`
	InputSchema any            `json:"input_schema,omitempty"`
	OutputSchema any           `json:"output_schema,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewWorkflow constructs an empty, pending Workflow.
func NewWorkflow(name, description string) *Workflow {
	return &Workflow{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Version:     1,
		Status:      WorkflowStatusPending,
		Variables:   make(map[string]any),
		CreatedAt:   time.Now(),
	}
}

// AddStep appends a step to the workflow definition.
func (w *Workflow) AddStep(step WorkflowStep) {
	w.Steps = append(w.Steps, step)
}

// GetStep returns the step with the given id, or nil.
func (w *Workflow) GetStep(id string) *WorkflowStep {
	for i := range w.Steps {
		if w.Steps[i].ID == id {
			return &w.Steps[i]
		}
	}
	return nil
}

// GetStepByName returns the step with the given name, or nil. Names are
// unique within a workflow by convention, not by enforced constraint.
func (w *Workflow) GetStepByName(name string) *WorkflowStep {
	for i := range w.Steps {
		if w.Steps[i].Name == name {
			return &w.Steps[i]
		}
	}
	return nil
}

// GetReadySteps returns every pending step whose dependency set is a subset
// of completedIDs (§4.8).
func (w *Workflow) GetReadySteps(completedIDs map[string]struct{}) []*WorkflowStep {
	var ready []*WorkflowStep
	for i := range w.Steps {
		step := &w.Steps[i]
		if step.Status != WorkflowStatusPending {
			continue
		}
		allDepsDone := true
		for _, dep := range step.Dependencies {
			if _, ok := completedIDs[dep]; !ok {
				allDepsDone = false
				break
			}
		}
		if allDepsDone {
			ready = append(ready, step)
		}
	}
	return ready
}

// WorkflowStep is a single DAG node. Config shape depends on Type; see
// SPEC_FULL.md §4.9.1.
type WorkflowStep struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          StepType       `json:"type"`
	Config        map[string]any `json:"config,omitempty"`
	Dependencies  []string       `json:"dependencies,omitempty"`
	Timeout       *time.Duration `json:"timeout,omitempty"`
	RetryConfig   *RetryConfig   `json:"retry_config,omitempty"`
	OnFailureStep string         `json:"on_failure_step,omitempty"`
	Condition     string         `json:"condition,omitempty"`
	Status        WorkflowStatus `json:"status"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	Result        map[string]any `json:"result,omitempty"`
	Error         string         `json:"error,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// MarkRunning transitions a step to running, recording StartedAt.
func (s *WorkflowStep) MarkRunning() {
	s.Status = WorkflowStatusRunning
	now := time.Now()
	s.StartedAt = &now
}

// MarkCompleted transitions a step to completed with its result.
func (s *WorkflowStep) MarkCompleted(result map[string]any) {
	s.Status = WorkflowStatusCompleted
	now := time.Now()
	s.CompletedAt = &now
	s.Result = result
}

// MarkFailed transitions a step to failed with an error message.
func (s *WorkflowStep) MarkFailed(errText string) {
	s.Status = WorkflowStatusFailed
	now := time.Now()
	s.CompletedAt = &now
	s.Error = errText
}

// WorkflowDict is the data-only, round-trippable representation described
// in §6/§8 ("Round-trip" testable property).
type WorkflowDict struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Version     int                `json:"version"`
	Variables   map[string]any     `json:"variables,omitempty"`
	Steps       []WorkflowStepDict `json:"steps"`
}

// WorkflowStepDict is the data-only representation of a WorkflowStep.
type WorkflowStepDict struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	StepType     string         `json:"step_type"`
	Config       map[string]any `json:"config,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
	TimeoutSec   float64        `json:"timeout_sec,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ToDict serializes the workflow to its data-only representation.
func (w *Workflow) ToDict() WorkflowDict {
	dict := WorkflowDict{
		ID:        w.ID.String(),
		Name:      w.Name,
		Description: w.Description,
		Version:   w.Version,
		Variables: w.Variables,
	}
	for _, s := range w.Steps {
		sd := WorkflowStepDict{
			ID:           s.ID,
			Name:         s.Name,
			StepType:     string(s.Type),
			Config:       s.Config,
			Dependencies: s.Dependencies,
			Metadata:     s.Metadata,
		}
		if s.Timeout != nil {
			sd.TimeoutSec = s.Timeout.Seconds()
		}
		dict.Steps = append(dict.Steps, sd)
	}
	return dict
}

// WorkflowFromDict rebuilds a Workflow from its data-only representation.
// The round-trip preserves id, name, version, variables, and every step's
// id/name/type/config/dependencies/timeout/metadata per the §8 Round-trip law.
func WorkflowFromDict(d WorkflowDict) (*Workflow, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	w := &Workflow{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Version:     d.Version,
		Status:      WorkflowStatusPending,
		Variables:   d.Variables,
	}
	for _, sd := range d.Steps {
		step := WorkflowStep{
			ID:           sd.ID,
			Name:         sd.Name,
			Type:         StepType(sd.StepType),
			Config:       sd.Config,
			Dependencies: sd.Dependencies,
			Status:       WorkflowStatusPending,
			Metadata:     sd.Metadata,
		}
		if sd.TimeoutSec > 0 {
			d := time.Duration(sd.TimeoutSec * float64(time.Second))
			step.Timeout = &d
		}
		w.Steps = append(w.Steps, step)
	}
	return w, nil
}
