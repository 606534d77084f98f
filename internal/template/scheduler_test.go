package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

func TestCreateTask_SubstitutesVariablesAndTagsMetadata(t *testing.T) {
	lib := NewLibrary()
	lib.Register(&domain.TaskTemplate{
		Name:            "deploy",
		Description:     "Deploy ${service} to ${environment}",
		DefaultTaskType: domain.TaskTypeDevelopment,
		DefaultPriority: domain.PriorityMedium,
		DefaultVariables: map[string]any{
			"environment": "staging",
		},
	})

	task, err := lib.CreateTask("deploy", "deploy-task", map[string]any{
		"service":     "billing",
		"environment": "production",
	}, CreateTaskOptions{})
	require.NoError(t, err)

	assert.Contains(t, task.Description, "billing")
	assert.Contains(t, task.Description, "production")
	assert.Equal(t, "deploy", task.Metadata["template_name"])
	vars, ok := task.Metadata["template_variables"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "production", vars["environment"])
}

func TestCreateTask_UnknownTemplate(t *testing.T) {
	lib := NewLibrary()
	_, err := lib.CreateTask("missing", "t", nil, CreateTaskOptions{})
	require.Error(t, err)
	var notFound *ErrTemplateNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestScheduler_IntervalTriggerDedup(t *testing.T) {
	lib := NewLibrary()
	lib.Register(&domain.TaskTemplate{
		Name:            "sync-report",
		Description:     "Sync report",
		DefaultTaskType: domain.TaskTypeDevelopment,
		DefaultPriority: domain.PriorityLow,
		Trigger: &domain.Trigger{
			Kind:            domain.TriggerKindInterval,
			IntervalSeconds: 300,
		},
	})

	var submitted []*domain.Task
	sched := NewScheduler(lib, func(t *domain.Task) { submitted = append(submitted, t) })

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	firstTick := base
	secondTick := base.Add(5 * time.Minute)

	task1, err := sched.Tick("sync-report", firstTick)
	require.NoError(t, err)
	require.NotNil(t, task1)

	task2, err := sched.Tick("sync-report", secondTick)
	require.NoError(t, err)
	require.NotNil(t, task2)

	// A third tick at the same scheduled time as the second is a duplicate.
	task3, err := sched.Tick("sync-report", secondTick)
	require.NoError(t, err)
	assert.Nil(t, task3)

	require.Len(t, submitted, 2)
	vars1 := submitted[0].Metadata["template_variables"].(map[string]any)
	vars2 := submitted[1].Metadata["template_variables"].(map[string]any)
	assert.NotEqual(t, vars1["scheduled_time"], vars2["scheduled_time"])
}
