package queue

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

func TestPopNext_PriorityAndDependencyOrdering(t *testing.T) {
	q := New()

	a := domain.NewTask("A", "", domain.TaskTypeDevelopment, domain.PriorityLow)
	c := domain.NewTask("C", "", domain.TaskTypeDevelopment, domain.PriorityHigh)
	b := domain.NewTask("B", "", domain.TaskTypeDevelopment, domain.PriorityCritical)
	b.Dependencies = []uuid.UUID{a.ID}

	require.NoError(t, q.Add(a))
	require.NoError(t, q.Add(c))
	require.NoError(t, q.Add(b))

	first := q.PopNext()
	require.NotNil(t, first)
	assert.Equal(t, c.ID, first.ID)
	require.NoError(t, q.MarkCompleted(first.ID, &domain.TaskResult{Success: true}))

	second := q.PopNext()
	require.NotNil(t, second)
	assert.Equal(t, a.ID, second.ID)
	require.NoError(t, q.MarkCompleted(second.ID, &domain.TaskResult{Success: true}))

	third := q.PopNext()
	require.NotNil(t, third)
	assert.Equal(t, b.ID, third.ID)
}

func TestMarkFailed_ExponentialBackoff(t *testing.T) {
	q := New()
	task := domain.NewTask("T", "", domain.TaskTypeDevelopment, domain.PriorityMedium)
	task.RetryConfig = domain.RetryConfig{
		Strategy:   domain.RetryStrategyExponential,
		BaseDelay:  1.0,
		MaxRetries: 3,
		MaxDelay:   10.0,
	}
	require.NoError(t, q.Add(task))

	var delays []float64
	for i := 0; i < 3; i++ {
		retried, err := q.MarkFailed(task.ID, "boom")
		require.NoError(t, err)
		assert.True(t, retried)
		got, _ := q.Get(task.ID)
		require.NotNil(t, got.RetryState.NextRetryAt)
		require.NotNil(t, got.RetryState.LastAttemptAt)
		delays = append(delays, got.RetryState.NextRetryAt.Sub(*got.RetryState.LastAttemptAt).Seconds())
	}
	assert.InDeltaSlice(t, []float64{1.0, 2.0, 4.0}, delays, 0.0001)

	retried, err := q.MarkFailed(task.ID, "boom")
	require.NoError(t, err)
	assert.False(t, retried)
	got, _ := q.Get(task.ID)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
	assert.Nil(t, got.RetryState.NextRetryAt)
}

func TestMarkFailed_RetryablePredicate(t *testing.T) {
	q := New()
	task := domain.NewTask("T", "", domain.TaskTypeDevelopment, domain.PriorityMedium)
	task.RetryConfig = domain.RetryConfig{
		Strategy:      domain.RetryStrategyLinear,
		BaseDelay:     1.0,
		MaxRetries:    5,
		RetryOnErrors: []string{"timeout"},
	}
	require.NoError(t, q.Add(task))

	retried, err := q.MarkFailed(task.ID, "Request timeout")
	require.NoError(t, err)
	assert.True(t, retried)

	got, _ := q.Get(task.ID)
	assert.Equal(t, domain.TaskStatusRetrying, got.Status)

	retried, err = q.MarkFailed(task.ID, "Bad credentials")
	require.NoError(t, err)
	assert.False(t, retried)

	got, _ = q.Get(task.ID)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
}

func TestProcessRetries_ResetsToPending(t *testing.T) {
	q := New()
	task := domain.NewTask("T", "", domain.TaskTypeDevelopment, domain.PriorityMedium)
	task.RetryConfig = domain.RetryConfig{Strategy: domain.RetryStrategyImmediate, MaxRetries: 1}
	require.NoError(t, q.Add(task))

	_, err := q.MarkFailed(task.ID, "any")
	require.NoError(t, err)

	ids := q.ProcessRetries()
	require.Len(t, ids, 1)
	got, _ := q.Get(task.ID)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Nil(t, got.RetryState.NextRetryAt)
}
