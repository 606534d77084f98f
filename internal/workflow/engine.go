package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/conversation"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
)

// DefaultMaxParallelSteps is the default bound on concurrently launched
// ready steps, per §4.9.
const DefaultMaxParallelSteps = 5

// ExecutionResult carries the outcome of one Engine.Execute call (§4.9).
type ExecutionResult struct {
	WorkflowID  uuid.UUID
	Success     bool
	Status      domain.WorkflowStatus
	StepResults map[string]map[string]any // keyed by step id
	Outputs     map[string]any            // keyed by step name, mapping-shaped results only
	Error       string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// approvalRequest is the parked state for a suspended approval step.
type approvalRequest struct {
	decision chan approvalDecision
}

type approvalDecision struct {
	approved bool
	approver string
	comment  string
}

// Engine is the bounded-parallel DAG executor described in §4.9, generalized
// from the teacher's internal/orchestrator dispatch loop and
// internal/engine's ready-set computation.
type Engine struct {
	mu               sync.Mutex
	workflows        map[uuid.UUID]*domain.Workflow
	results          map[uuid.UUID]*ExecutionResult
	pendingApprovals map[string]*approvalRequest

	agents        *registry.Registry
	dispatcher    *registry.Dispatcher
	conversations *conversation.Manager

	MaxParallelSteps int
}

// New constructs an Engine wired to the given registry, dispatcher, and
// conversation manager.
func New(agents *registry.Registry, dispatcher *registry.Dispatcher, conversations *conversation.Manager) *Engine {
	return &Engine{
		workflows:        make(map[uuid.UUID]*domain.Workflow),
		results:          make(map[uuid.UUID]*ExecutionResult),
		pendingApprovals: make(map[string]*approvalRequest),
		agents:           agents,
		dispatcher:       dispatcher,
		conversations:    conversations,
		MaxParallelSteps: DefaultMaxParallelSteps,
	}
}

// RegisterAgent registers a single agent with the engine's registry.
func (e *Engine) RegisterAgent(a registry.Agent) {
	e.agents.Register(a)
}

// RegisterAgents registers every agent in the map, keyed by a caller-chosen
// label (the map key is unused — agents self-report their Name()).
func (e *Engine) RegisterAgents(agents map[string]registry.Agent) {
	for _, a := range agents {
		e.agents.Register(a)
	}
}

// Execute runs the execution algorithm in §4.9 against w, merging inputs
// into its variables first.
func (e *Engine) Execute(ctx context.Context, w *domain.Workflow, inputs map[string]any) (*ExecutionResult, error) {
	if err := Validate(w); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.workflows[w.ID] = w
	e.mu.Unlock()

	w.Status = domain.WorkflowStatusRunning
	now := time.Now()
	w.StartedAt = &now
	if w.Variables == nil {
		w.Variables = make(map[string]any)
	}
	for k, v := range inputs {
		w.Variables[k] = v
	}

	result := &ExecutionResult{
		WorkflowID:  w.ID,
		StepResults: make(map[string]map[string]any),
		Outputs:     make(map[string]any),
		StartedAt:   now,
	}

	completed := make(map[string]struct{})
	maxParallel := e.MaxParallelSteps
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallelSteps
	}

	for {
		if w.Status == domain.WorkflowStatusCancelled {
			break
		}

		ready := w.GetReadySteps(completed)
		if len(ready) == 0 {
			if !anyPending(w) {
				break
			}
			if anyFailed(w) {
				result.Error = blockedError(w)
				w.Status = domain.WorkflowStatusFailed
				break
			}
			// Nothing ready, nothing failed, but steps remain pending: a
			// pending step depends on a step that is neither completed in
			// this run nor failed (e.g. one that entered Execute with a
			// non-pending status). No further progress is possible, so stop;
			// the finalization below marks the workflow completed because
			// no step failed, and those steps stay pending.
			break
		}

		if len(ready) > maxParallel {
			ready = ready[:maxParallel]
		}

		outcomes := e.launchAll(ctx, w, ready)
		for i, step := range ready {
			outcome := outcomes[i]
			if outcome.err != nil {
				step.MarkFailed(outcome.err.Error())
			} else {
				step.MarkCompleted(outcome.payload)
				completed[step.ID] = struct{}{}
				if outcome.payload != nil {
					result.Outputs[step.Name] = outcome.payload
				}
			}
			result.StepResults[step.ID] = step.Result
		}
	}

	if !w.Status.IsTerminal() {
		if anyFailedOrBlocked(w) {
			w.Status = domain.WorkflowStatusFailed
			result.Success = false
			if result.Error == "" {
				result.Error = blockedError(w)
			}
		} else {
			w.Status = domain.WorkflowStatusCompleted
			result.Success = true
		}
	} else {
		result.Success = w.Status == domain.WorkflowStatusCompleted
	}

	result.Status = w.Status
	completedAt := time.Now()
	w.CompletedAt = &completedAt
	result.CompletedAt = completedAt
	result.Duration = completedAt.Sub(now)

	e.mu.Lock()
	e.results[w.ID] = result
	e.mu.Unlock()

	return result, nil
}

type stepOutcome struct {
	payload map[string]any
	err     error
}

// launchAll implements the "gather-with-exceptions" primitive of §9: launch
// every step concurrently, await all, and return one outcome per step
// (exceptions become step failures, never escaping to the caller).
func (e *Engine) launchAll(ctx context.Context, w *domain.Workflow, steps []*domain.WorkflowStep) []stepOutcome {
	outcomes := make([]stepOutcome, len(steps))
	var wg sync.WaitGroup
	for i, step := range steps {
		step.MarkRunning()
		wg.Add(1)
		go func(i int, step *domain.WorkflowStep) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = stepOutcome{err: fmt.Errorf("step panicked: %v", r)}
				}
			}()
			stepCtx := ctx
			var cancel context.CancelFunc
			if step.Timeout != nil {
				stepCtx, cancel = context.WithTimeout(ctx, *step.Timeout)
				defer cancel()
			}
			payload, err := e.dispatchStep(stepCtx, w, step)
			outcomes[i] = stepOutcome{payload: payload, err: err}
		}(i, step)
	}
	wg.Wait()
	return outcomes
}

func anyPending(w *domain.Workflow) bool {
	for _, s := range w.Steps {
		if s.Status == domain.WorkflowStatusPending {
			return true
		}
	}
	return false
}

func anyFailed(w *domain.Workflow) bool {
	for _, s := range w.Steps {
		if s.Status == domain.WorkflowStatusFailed {
			return true
		}
	}
	return false
}

func anyFailedOrBlocked(w *domain.Workflow) bool {
	return anyFailed(w)
}

func blockedError(w *domain.Workflow) string {
	var quoted []string
	for _, s := range w.Steps {
		if s.Status == domain.WorkflowStatusFailed {
			quoted = append(quoted, fmt.Sprintf("'%s'", s.Name))
		}
	}
	return fmt.Sprintf("Workflow blocked: steps failed: [%s]", strings.Join(quoted, ", "))
}

// GetStatus returns the live status of a tracked workflow.
func (e *Engine) GetStatus(id uuid.UUID) (domain.WorkflowStatus, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.workflows[id]
	if !ok {
		return "", false
	}
	return w.Status, true
}

// GetResult returns the last ExecutionResult recorded for id.
func (e *Engine) GetResult(id uuid.UUID) (*ExecutionResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.results[id]
	return r, ok
}

// Cancel cooperatively marks a running workflow cancelled; in-flight steps
// continue until they next check status or complete (§5).
func (e *Engine) Cancel(id uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.workflows[id]
	if !ok {
		return false
	}
	w.Status = domain.WorkflowStatusCancelled
	return true
}

// Pause marks a running workflow paused.
func (e *Engine) Pause(id uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.workflows[id]
	if !ok || w.Status != domain.WorkflowStatusRunning {
		return false
	}
	w.Status = domain.WorkflowStatusPaused
	return true
}

// Running returns the ids of every workflow not yet in a terminal status.
func (e *Engine) Running() []uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []uuid.UUID
	for id, w := range e.workflows {
		if !w.Status.IsTerminal() {
			out = append(out, id)
		}
	}
	return out
}

// ResolveApproval delivers an external decision to a parked approval step
// (§4.9.1, §9). It is a no-op if no step is currently parked under stepID.
func (e *Engine) ResolveApproval(stepID string, approved bool, approver, comment string) bool {
	e.mu.Lock()
	req, ok := e.pendingApprovals[stepID]
	if ok {
		delete(e.pendingApprovals, stepID)
	}
	e.mu.Unlock()
	if !ok {
		return false
	}
	req.decision <- approvalDecision{approved: approved, approver: approver, comment: comment}
	return true
}
