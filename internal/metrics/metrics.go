// Package metrics registers every Prometheus collector the orchestrator
// exposes, consolidating the inline promauto calls scattered across the
// teacher's cmd/automata-*/main.go files (each binary defined its own ad
// hoc counters next to main()) into the single registration point named in
// SPEC_FULL.md §6a.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors holds every metric the orchestrator updates. Construct once
// with New and pass the result wherever a counter needs incrementing; there
// is no global registry access outside this package.
type Collectors struct {
	TasksSubmitted  prometheus.Counter
	TasksCompleted  prometheus.Counter
	TasksFailed     prometheus.Counter
	TaskRetries     prometheus.Counter
	CorrectionIterations prometheus.Histogram
	WorkflowStepDuration  *prometheus.HistogramVec
	QueueDepth      prometheus.Gauge
}

// New registers every collector against the default registry and returns
// the handle used to update them. Safe to call once per process; calling it
// twice will panic on duplicate registration, matching promauto's own
// behavior.
func New() *Collectors {
	return &Collectors{
		TasksSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orchestrator_tasks_submitted_total",
			Help: "Total tasks submitted to the orchestrator.",
		}),
		TasksCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orchestrator_tasks_completed_total",
			Help: "Total tasks that reached a completed terminal state.",
		}),
		TasksFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orchestrator_tasks_failed_total",
			Help: "Total tasks that reached a failed terminal state.",
		}),
		TaskRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orchestrator_task_retries_total",
			Help: "Total retry attempts scheduled across all tasks.",
		}),
		CorrectionIterations: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "orchestrator_correction_iterations",
			Help:    "Distribution of total_iterations reported by the correction loop.",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
		WorkflowStepDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orchestrator_workflow_step_duration_seconds",
			Help:    "Duration of individual workflow step executions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step_type"}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "orchestrator_queue_depth",
			Help: "Number of non-terminal tasks currently held by the queue.",
		}),
	}
}
