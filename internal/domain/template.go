package domain

// TaskTemplate is an immutable pattern for producing Tasks, generalized
// from the teacher's Schedule entity: description placeholders use the
// ${var} convention instead of a cron body, and the result is a Task rather
// than a triggered Run.
type TaskTemplate struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	DefaultTaskType     TaskType       `json:"default_task_type"`
	DefaultPriority     Priority       `json:"default_priority"`
	DefaultVariables    map[string]any `json:"default_variables,omitempty"`
	RetryConfig         *RetryConfig   `json:"retry_config,omitempty"`
	MetadataTemplate    map[string]any `json:"metadata_template,omitempty"`
	Tags                []string       `json:"tags,omitempty"`
	Trigger             *Trigger       `json:"trigger,omitempty"`
}

// TriggerKind distinguishes cron-expression triggers from fixed-interval
// ones on a TaskTemplate.
type TriggerKind string

const (
	TriggerKindCron     TriggerKind = "cron"
	TriggerKindInterval TriggerKind = "interval"
)

// Trigger describes how a TaskTemplate is ticked automatically, grounded on
// the teacher's Schedule cron/interval due-date computation.
type Trigger struct {
	Kind             TriggerKind `json:"kind"`
	CronExpression   string      `json:"cron_expression,omitempty"`
	IntervalSeconds  float64     `json:"interval_seconds,omitempty"`
	Timezone         string      `json:"timezone,omitempty"`
}
