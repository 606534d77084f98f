// Package evaluator implements the Evaluator contract of SPEC_FULL.md §4.3.
// It is new code — the teacher has no evaluator concept — grounded on the
// review/diff shape of the teacher's domain.Proposal (SandboxResult's
// per-step diff records play the same role EvaluationFindings do here).
package evaluator

import (
	"context"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// Context carries whatever side information an Evaluator needs beyond the
// content itself (e.g. the originating task, prior findings).
type Context struct {
	Task *domain.Task
	Extra map[string]any
}

// Evaluator is polymorphic over a single capability: score a piece of
// content and decide whether the score should trigger correction.
type Evaluator interface {
	Name() string
	Criteria() []string
	Evaluate(ctx context.Context, content any, evalCtx Context) (domain.EvaluationResult, error)
	ShouldTriggerCorrection(result domain.EvaluationResult) bool
}

// BaseEvaluator supplies the default ShouldTriggerCorrection: trigger
// whenever the result didn't pass, matching the common case across the
// pack's review-style components (semspec's task-reviewer, plan-reviewer).
type BaseEvaluator struct {
	EvaluatorName     string
	EvaluatorCriteria []string
}

func (b *BaseEvaluator) Name() string            { return b.EvaluatorName }
func (b *BaseEvaluator) Criteria() []string       { return b.EvaluatorCriteria }

func (b *BaseEvaluator) ShouldTriggerCorrection(result domain.EvaluationResult) bool {
	return !result.Passed
}
