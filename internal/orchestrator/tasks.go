package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// SubmitTask adds a task to the queue and returns its id, emitting a
// task.submitted Lifecycle event and a best-effort snapshot write (§4.5/§6).
func (f *Facade) SubmitTask(task *domain.Task) (uuid.UUID, error) {
	if err := f.queue.Add(task); err != nil {
		return uuid.Nil, err
	}
	f.emit("task.submitted", "task", task.ID.String(), map[string]any{"type": task.Type, "priority": task.Priority})
	f.snapshot("task", task.ID.String(), task)
	return task.ID, nil
}

// ProcessTask dispatches a single task to a suitable agent (running it
// through the correction loop if the agent's response needs correction),
// applies the outcome to the queue's retry-or-terminal bookkeeping, and
// emits the corresponding Lifecycle event.
func (f *Facade) ProcessTask(ctx context.Context, task *domain.Task) (*domain.TaskResult, error) {
	result, err := f.dispatcher.Dispatch(ctx, task)
	if err != nil {
		return nil, err
	}

	if result.Success {
		_ = f.queue.MarkCompleted(task.ID, result)
		f.emit("task.completed", "task", task.ID.String(), map[string]any{"execution_time": result.ExecutionTime})
	} else {
		retried, markErr := f.queue.MarkFailed(task.ID, result.Error)
		if markErr == nil && retried {
			f.emit("task.retrying", "task", task.ID.String(), map[string]any{"error": result.Error})
		} else {
			f.emit("task.failed", "task", task.ID.String(), map[string]any{"error": result.Error})
		}
	}
	f.snapshot("task", task.ID.String(), task)

	return result, nil
}

// RunTaskLoop implements §4.5's run_task_loop: repeatedly pop_next and
// process until the queue is exhausted or Shutdown is called. It returns
// the number of tasks processed.
func (f *Facade) RunTaskLoop(ctx context.Context) (int, error) {
	f.mu.RLock()
	stopCh := f.stop
	f.mu.RUnlock()

	processed := 0
	for {
		select {
		case <-ctx.Done():
			return processed, ctx.Err()
		case <-stopCh:
			return processed, nil
		default:
		}

		for _, id := range f.queue.ProcessRetries() {
			if t, ok := f.queue.Get(id); ok {
				f.emit("task.retry_ready", "task", t.ID.String(), nil)
			}
		}

		task := f.queue.PopNext()
		if task == nil {
			return processed, nil
		}

		if _, err := f.ProcessTask(ctx, task); err != nil {
			return processed, err
		}
		processed++
	}
}
