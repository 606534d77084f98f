package correction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/evaluator"
)

type alwaysNeedsCorrection struct {
	evaluator.BaseEvaluator
}

func (e *alwaysNeedsCorrection) Evaluate(ctx context.Context, content any, evalCtx evaluator.Context) (domain.EvaluationResult, error) {
	return domain.EvaluationResult{
		EvaluatorName:   e.Name(),
		Passed:          false,
		Score:           0.5,
		NeedsCorrection: true,
		Findings: []domain.EvaluationFinding{
			{Category: "style", Severity: domain.SeverityError, Message: "bad"},
		},
	}, nil
}

func TestRunDetailed_CorrectionExhaustion(t *testing.T) {
	loop := Default()
	loop.Evaluators = []evaluator.Evaluator{&alwaysNeedsCorrection{BaseEvaluator: evaluator.BaseEvaluator{EvaluatorName: "stub"}}}

	task := domain.NewTask("t", "", domain.TaskTypeCodeReview, domain.PriorityMedium)
	task.MaxCorrections = 10

	result, err := loop.RunDetailed(context.Background(), task, "draft")
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalIterations)
	assert.Equal(t, StatusMaxIterationsReached, result.Status)
	assert.False(t, result.Success)
	assert.Equal(t, 3, task.CorrectionCount)
}

type passingEvaluator struct {
	evaluator.BaseEvaluator
}

func (e *passingEvaluator) Evaluate(ctx context.Context, content any, evalCtx evaluator.Context) (domain.EvaluationResult, error) {
	return domain.EvaluationResult{EvaluatorName: e.Name(), Passed: true, Score: 0.9}, nil
}

func TestRun_CompletesAndMarksTask(t *testing.T) {
	loop := Default()
	loop.Evaluators = []evaluator.Evaluator{&passingEvaluator{BaseEvaluator: evaluator.BaseEvaluator{EvaluatorName: "stub"}}}

	task := domain.NewTask("t", "", domain.TaskTypeCodeReview, domain.PriorityMedium)
	result, err := loop.Run(context.Background(), task, "draft")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
}
