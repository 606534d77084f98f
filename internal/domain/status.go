package domain

// TaskStatus is the lifecycle state of a Task.
//
// Lifecycle:
//
//	pending → in_progress → completed
//	                      ↘ needs_correction → completed | failed
//	                      ↘ retrying → pending
//	                      ↘ failed
//	(any non-terminal) → cancelled
//
// queued and under_review belong to the closed set, but no code path in
// this module moves a task into either.
type TaskStatus string

const (
	TaskStatusPending         TaskStatus = "pending"
	TaskStatusQueued          TaskStatus = "queued"
	TaskStatusInProgress      TaskStatus = "in_progress"
	TaskStatusUnderReview     TaskStatus = "under_review"
	TaskStatusNeedsCorrection TaskStatus = "needs_correction"
	TaskStatusRetrying        TaskStatus = "retrying"
	TaskStatusCompleted       TaskStatus = "completed"
	TaskStatusFailed          TaskStatus = "failed"
	TaskStatusCancelled       TaskStatus = "cancelled"
)

// IsTerminal reports whether the status is one of the Task's terminal states.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

func (s TaskStatus) String() string {
	return string(s)
}

// Priority orders ready tasks; higher value wins ties broken by created_at.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// rank returns an ordinal used for comparisons; higher is more urgent.
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 0
	default:
		return -1
	}
}

// Less reports whether p is strictly lower priority than other.
func (p Priority) Less(other Priority) bool {
	return p.rank() < other.rank()
}

// TaskType is the closed set of work a Task may represent.
type TaskType string

const (
	TaskTypePlanning        TaskType = "planning"
	TaskTypeDevelopment     TaskType = "development"
	TaskTypeTesting         TaskType = "testing"
	TaskTypeSecurityReview  TaskType = "security-review"
	TaskTypeDocumentation   TaskType = "documentation"
	TaskTypeCodeReview      TaskType = "code-review"
	TaskTypeBugFix          TaskType = "bug-fix"
	TaskTypeFeature         TaskType = "feature"
)

// Capability is a tag describing what an Agent can do.
type Capability string

const (
	CapabilityPlanning         Capability = "planning"
	CapabilityCoding           Capability = "coding"
	CapabilityTesting          Capability = "testing"
	CapabilitySecurityAnalysis Capability = "security-analysis"
	CapabilityDocumentation    Capability = "documentation"
	CapabilityCodeReview       Capability = "code-review"
	CapabilityTaskDecomposition Capability = "task-decomposition"
	CapabilityEvaluation       Capability = "evaluation"
)

// RequiredCapabilities returns the closed-set mapping from task type to the
// capabilities an agent must advertise to be considered for dispatch.
func RequiredCapabilities(t TaskType) []Capability {
	switch t {
	case TaskTypePlanning:
		return []Capability{CapabilityPlanning, CapabilityTaskDecomposition}
	case TaskTypeDevelopment:
		return []Capability{CapabilityCoding}
	case TaskTypeTesting:
		return []Capability{CapabilityTesting}
	case TaskTypeSecurityReview:
		return []Capability{CapabilitySecurityAnalysis}
	case TaskTypeDocumentation:
		return []Capability{CapabilityDocumentation}
	case TaskTypeCodeReview:
		return []Capability{CapabilityCodeReview, CapabilityEvaluation}
	case TaskTypeBugFix:
		return []Capability{CapabilityCoding, CapabilityTesting}
	case TaskTypeFeature:
		return []Capability{CapabilityPlanning, CapabilityCoding}
	default:
		return nil
	}
}

// Severity of an EvaluationFinding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ConversationMode controls how a Conversation routes turns.
type ConversationMode string

const (
	ConversationModeSequential ConversationMode = "sequential"
	ConversationModeRoundRobin ConversationMode = "round-robin"
	ConversationModeDynamic    ConversationMode = "dynamic"
	ConversationModeBroadcast  ConversationMode = "broadcast"
)

// ConversationStatus is the lifecycle state of a Conversation.
type ConversationStatus string

const (
	ConversationStatusActive    ConversationStatus = "active"
	ConversationStatusPaused    ConversationStatus = "paused"
	ConversationStatusCompleted ConversationStatus = "completed"
	ConversationStatusFailed    ConversationStatus = "failed"
)

// WorkflowStatus is the lifecycle state of a Workflow and, by convention, of
// its steps as well.
type WorkflowStatus string

const (
	WorkflowStatusPending   WorkflowStatus = "pending"
	WorkflowStatusRunning   WorkflowStatus = "running"
	WorkflowStatusPaused    WorkflowStatus = "paused"
	WorkflowStatusCompleted WorkflowStatus = "completed"
	WorkflowStatusFailed    WorkflowStatus = "failed"
	WorkflowStatusCancelled WorkflowStatus = "cancelled"
)

func (s WorkflowStatus) IsTerminal() bool {
	switch s {
	case WorkflowStatusCompleted, WorkflowStatusFailed, WorkflowStatusCancelled:
		return true
	default:
		return false
	}
}

// StepType is the closed set of workflow step kinds.
type StepType string

const (
	StepTypeTask         StepType = "task"
	StepTypeAgentAction  StepType = "agent_action"
	StepTypeConversation StepType = "conversation"
	StepTypeCondition    StepType = "condition"
	StepTypeParallel     StepType = "parallel"
	StepTypeLoop         StepType = "loop"
	StepTypeWait         StepType = "wait"
	StepTypeApproval     StepType = "approval"
)

// RetryStrategy is the closed set of backoff strategies a RetryConfig may use.
type RetryStrategy string

const (
	RetryStrategyNone        RetryStrategy = "none"
	RetryStrategyImmediate   RetryStrategy = "immediate"
	RetryStrategyLinear      RetryStrategy = "linear"
	RetryStrategyExponential RetryStrategy = "exponential"
)
