package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := &Collectors{
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{Name: "t_submitted"}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{Name: "t_completed"}),
	}
	require.NoError(t, reg.Register(c.TasksSubmitted))
	require.NoError(t, reg.Register(c.TasksCompleted))

	c.TasksSubmitted.Inc()
	c.TasksSubmitted.Inc()
	c.TasksCompleted.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.TasksSubmitted))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.TasksCompleted))
}

func TestNew_RegistersAllCollectors(t *testing.T) {
	assert.NotPanics(t, func() {
		c := New()
		assert.NotNil(t, c.TasksSubmitted)
		assert.NotNil(t, c.WorkflowStepDuration)
		assert.NotNil(t, c.QueueDepth)
	})
}
