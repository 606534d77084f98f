package registry

import (
	"context"
	"time"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// Corrector is the facade's hook into the Evaluation/Correction Loop
// (§4.4). The Dispatcher depends only on this narrow interface so that
// registry never imports the correction package — the Orchestrator Facade
// wires the two together.
type Corrector interface {
	Run(ctx context.Context, task *domain.Task, initialOutput any) (*domain.TaskResult, error)
}

// Dispatcher implements §4.2's dispatch(task) → response over a Registry.
type Dispatcher struct {
	registry  *Registry
	corrector Corrector
}

// NewDispatcher constructs a Dispatcher. corrector may be nil, in which case
// an agent's needs_correction flag is ignored and its response is wrapped
// as-is.
func NewDispatcher(r *Registry, corrector Corrector) *Dispatcher {
	return &Dispatcher{registry: r, corrector: corrector}
}

// Dispatch implements the four-step algorithm in §4.2.
func (d *Dispatcher) Dispatch(ctx context.Context, task *domain.Task) (*domain.TaskResult, error) {
	candidates := d.registry.AgentsForTask(task)
	if len(candidates) == 0 {
		return nil, &ErrNoSuitableAgent{TaskType: task.Type}
	}
	agent := candidates[0]

	task.MarkInProgress(agent.Name())

	start := time.Now()
	resp, err := agent.HandleTask(ctx, task)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		return &domain.TaskResult{
			Success:       false,
			Error:         err.Error(),
			ExecutionTime: elapsed,
			Retryable:     true,
		}, nil
	}

	if resp.NeedsCorrection && d.corrector != nil {
		result, err := d.corrector.Run(ctx, task, resp.Output)
		if err != nil {
			return nil, err
		}
		if result.ExecutionTime == 0 {
			result.ExecutionTime = elapsed
		}
		return result, nil
	}

	return &domain.TaskResult{
		Success:       resp.Success,
		Output:        resp.Output,
		Artifacts:     resp.Artifacts,
		Error:         resp.Error,
		ExecutionTime: elapsed,
		Retryable:     resp.Retryable,
	}, nil
}
