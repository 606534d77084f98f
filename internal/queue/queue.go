// Package queue implements the priority- and dependency-ordered Task queue
// described in SPEC_FULL.md §4.1, generalized from the teacher's
// orchestrator.RunState.GetReadySteps ready-set computation and its
// repo.TaskRepository status-filtered listers.
package queue

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// TaskQueue holds every task submitted to the orchestrator and answers the
// pull-based pop_next query. All mutations are serialized by mu; readers of
// retention-stable fields may bypass the lock in principle, but this
// implementation keeps it simple and always takes the lock, matching the
// teacher's repo-layer approach of a single guarded map.
type TaskQueue struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// New constructs an empty TaskQueue.
func New() *TaskQueue {
	return &TaskQueue{tasks: make(map[uuid.UUID]*domain.Task)}
}

// Add inserts a task. Returns ErrCyclicDependency if following its
// dependency ids through tasks already in the queue (directly or
// transitively) leads back to this task — a conservative cycle check
// performed eagerly per the acyclicity invariant. Dependency ids unknown to
// the queue are not followed.
func (q *TaskQueue) Add(t *domain.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.wouldCycle(t) {
		return ErrCyclicDependency
	}
	q.tasks[t.ID] = t
	return nil
}

// wouldCycle walks t's dependency graph (assuming t itself were inserted)
// looking for a path back to t.ID. Callers must hold mu.
func (q *TaskQueue) wouldCycle(t *domain.Task) bool {
	visited := make(map[uuid.UUID]struct{})
	var walk func(id uuid.UUID) bool
	walk = func(id uuid.UUID) bool {
		if id == t.ID {
			return true
		}
		if _, ok := visited[id]; ok {
			return false
		}
		visited[id] = struct{}{}
		dep, ok := q.tasks[id]
		if !ok {
			return false
		}
		for _, d := range dep.Dependencies {
			if walk(d) {
				return true
			}
		}
		return false
	}
	for _, dep := range t.Dependencies {
		if walk(dep) {
			return true
		}
	}
	return false
}

// Get returns the task with the given id.
func (q *TaskQueue) Get(id uuid.UUID) (*domain.Task, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	t, ok := q.tasks[id]
	return t, ok
}

// completedSet returns the ids of every completed task. Callers must hold
// at least a read lock.
func (q *TaskQueue) completedSet() map[uuid.UUID]struct{} {
	done := make(map[uuid.UUID]struct{})
	for id, t := range q.tasks {
		if t.Status == domain.TaskStatusCompleted {
			done[id] = struct{}{}
		}
	}
	return done
}

// PopNext returns the highest-priority ready task (ties broken by earliest
// CreatedAt), or nil if none is ready. This is a pure read: per the Open
// Question resolution in SPEC_FULL.md §9, it never mutates task status —
// the caller (the dispatcher) transitions the task once it actually starts
// work.
func (q *TaskQueue) PopNext() *domain.Task {
	q.mu.RLock()
	defer q.mu.RUnlock()

	done := q.completedSet()
	var candidates []*domain.Task
	for _, t := range q.tasks {
		if t.IsReady(done) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority != b.Priority {
			return b.Priority.Less(a.Priority)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return candidates[0]
}

// MarkCompleted transitions the task to completed.
func (q *TaskQueue) MarkCompleted(id uuid.UUID, result *domain.TaskResult) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	t, ok := q.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	t.MarkCompleted(result)
	return nil
}

// MarkFailed implements the mark_failed algorithm in §4.1: increment the
// retry attempt, append an error record, and either schedule a retry or
// fail the task terminally. Returns whether a retry was scheduled.
func (q *TaskQueue) MarkFailed(id uuid.UUID, errText string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	t, ok := q.tasks[id]
	if !ok {
		return false, ErrTaskNotFound
	}

	now := time.Now()
	t.RetryState.RecordFailure(errText, now)

	if t.RetryState.Attempt <= t.RetryConfig.MaxRetries && t.RetryConfig.IsRetryable(errText) {
		delay := t.RetryConfig.Delay(t.RetryState.Attempt)
		t.RetryState.ScheduleRetry(now, delay)
		t.MarkRetrying()
		return true, nil
	}

	t.RetryState.ClearSchedule()
	t.MarkFailedTerminal(&domain.TaskResult{
		Success: false,
		Error:   errText,
		Metadata: map[string]any{
			"retry_history": t.RetryState.History,
		},
	})
	return false, nil
}

// ReadyForRetry returns every task whose status is retrying and whose
// next-retry timestamp has passed.
func (q *TaskQueue) ReadyForRetry() []*domain.Task {
	q.mu.RLock()
	defer q.mu.RUnlock()

	now := time.Now()
	var ready []*domain.Task
	for _, t := range q.tasks {
		if t.Status != domain.TaskStatusRetrying {
			continue
		}
		if t.RetryState.NextRetryAt != nil && !t.RetryState.NextRetryAt.After(now) {
			ready = append(ready, t)
		}
	}
	return ready
}

// ProcessRetries resets every due retrying task back to pending and returns
// their ids, per §4.1's process_retries.
func (q *TaskQueue) ProcessRetries() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	var ids []uuid.UUID
	for id, t := range q.tasks {
		if t.Status != domain.TaskStatusRetrying {
			continue
		}
		if t.RetryState.NextRetryAt != nil && !t.RetryState.NextRetryAt.After(now) {
			t.ResetForRetry()
			ids = append(ids, id)
		}
	}
	return ids
}

// ByStatus returns every task with the given status.
func (q *TaskQueue) ByStatus(status domain.TaskStatus) []*domain.Task {
	q.mu.RLock()
	defer q.mu.RUnlock()
	var out []*domain.Task
	for _, t := range q.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the total number of tasks held by the queue, regardless of status.
func (q *TaskQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.tasks)
}

// PendingCount returns the number of tasks not yet in a terminal state.
func (q *TaskQueue) PendingCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	n := 0
	for _, t := range q.tasks {
		if !t.Status.IsTerminal() {
			n++
		}
	}
	return n
}
