// Package correction implements the iterative Evaluation/Correction Loop of
// SPEC_FULL.md §4.4, grounded conceptually on the teacher's domain.Proposal
// review/approve/reject state machine (draft → pending_review parallels
// evaluate → needs_correction; SandboxResult.Steps[].Diff parallels an
// EvaluationFinding list) though the code itself is new — the teacher has
// no generic multi-evaluator composition.
package correction

import (
	"context"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/evaluator"
)

// Status is the terminal disposition of a correction loop run.
type Status string

const (
	StatusCompleted            Status = "completed"
	StatusMaxIterationsReached Status = "max-iterations-reached"
	StatusFailed               Status = "failed"
)

// Handler may rewrite output in response to a single finding. It returns the
// (possibly unchanged) output and whether it applied a change.
type Handler func(ctx context.Context, output any, finding domain.EvaluationFinding) (any, bool)

// Iteration records what happened on one pass of the loop.
type Iteration struct {
	Combined domain.EvaluationResult
	Applied  []string
}

// Result is the loop's contract-shaped return value: {success, final_output,
// iterations[], status, total_iterations} per §4.4.
type Result struct {
	Success         bool
	FinalOutput     any
	Iterations      []Iteration
	Status          Status
	TotalIterations int
}

// Loop composes evaluators and correction handlers per §4.4.
type Loop struct {
	Evaluators      []evaluator.Evaluator
	Handlers        map[string]Handler
	MaxIterations   int
	MinPassingScore float64
}

// Default returns the "Default" factory preset: 3 iterations, min-score 0.8.
func Default() *Loop {
	return &Loop{MaxIterations: 3, MinPassingScore: 0.8, Handlers: make(map[string]Handler)}
}

// Strict returns the "Strict" factory preset: 5 iterations, min-score 0.95.
func Strict() *Loop {
	return &Loop{MaxIterations: 5, MinPassingScore: 0.95, Handlers: make(map[string]Handler)}
}

// Lenient returns the "Lenient" factory preset: 2 iterations, min-score 0.6.
func Lenient() *Loop {
	return &Loop{MaxIterations: 2, MinPassingScore: 0.6, Handlers: make(map[string]Handler)}
}

// RegisterHandler attaches a correction handler for a finding category.
func (l *Loop) RegisterHandler(category string, h Handler) {
	if l.Handlers == nil {
		l.Handlers = make(map[string]Handler)
	}
	l.Handlers[category] = h
}

// RunDetailed implements the full algorithm in §4.4 and returns the
// contract-shaped Result. Each iteration that still needs correction moves
// the task to needs_correction and bumps its correction count (while below
// MaxCorrections), but RunDetailed never sets a terminal status — callers
// that need the task completed or failed (the dispatcher, via the Corrector
// interface) should use Run instead.
func (l *Loop) RunDetailed(ctx context.Context, task *domain.Task, initialOutput any) (*Result, error) {
	output := initialOutput
	var iterations []Iteration

	maxIter := l.MaxIterations
	if maxIter <= 0 {
		maxIter = 3
	}

	for i := 0; i < maxIter; i++ {
		var results []domain.EvaluationResult
		for _, ev := range l.Evaluators {
			res, err := ev.Evaluate(ctx, output, evaluator.Context{Task: task})
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}

		combined := domain.CombineEvaluations(results)
		iter := Iteration{Combined: combined}

		if combined.Passed && combined.Score >= l.MinPassingScore {
			iterations = append(iterations, iter)
			return &Result{
				Success: true, FinalOutput: output, Iterations: iterations,
				Status: StatusCompleted, TotalIterations: len(iterations),
			}, nil
		}

		if !combined.NeedsCorrection {
			iterations = append(iterations, iter)
			return &Result{
				Success: combined.Passed, FinalOutput: output, Iterations: iterations,
				Status: StatusCompleted, TotalIterations: len(iterations),
			}, nil
		}

		for _, finding := range combined.Findings {
			if finding.Severity != domain.SeverityError && finding.Severity != domain.SeverityCritical {
				continue
			}
			handler, ok := l.Handlers[finding.Category]
			if !ok {
				iter.Applied = append(iter.Applied, "no handler for "+finding.Category)
				continue
			}
			newOutput, applied := handler(ctx, output, finding)
			if applied {
				output = newOutput
				iter.Applied = append(iter.Applied, "applied handler for "+finding.Category)
			}
		}
		iterations = append(iterations, iter)

		if task.CorrectionCount < task.MaxCorrections {
			task.MarkNeedsCorrection()
		}
	}

	return &Result{
		Success: false, FinalOutput: output, Iterations: iterations,
		Status: StatusMaxIterationsReached, TotalIterations: len(iterations),
	}, nil
}

// Run adapts RunDetailed into the registry.Corrector interface: it drives
// the loop and, per §4.4's final clause, transitions the task to
// completed or failed based on the outcome.
func (l *Loop) Run(ctx context.Context, task *domain.Task, initialOutput any) (*domain.TaskResult, error) {
	detailed, err := l.RunDetailed(ctx, task, initialOutput)
	if err != nil {
		return nil, err
	}

	result := &domain.TaskResult{
		Success: detailed.Success,
		Output:  detailed.FinalOutput,
		Metadata: map[string]any{
			"correction_status": string(detailed.Status),
			"total_iterations":  detailed.TotalIterations,
		},
	}
	if !detailed.Success {
		result.Error = "correction loop did not pass"
		if detailed.Status == StatusMaxIterationsReached {
			result.Error = "correction loop exhausted max iterations"
		}
		task.MarkFailedTerminal(result)
	} else {
		task.MarkCompleted(result)
	}
	return result, nil
}
