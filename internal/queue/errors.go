package queue

import "errors"

var (
	// ErrTaskNotFound is returned when an operation references an unknown task id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCyclicDependency is returned when adding a task would create a
	// dependency cycle, detected eagerly per §3's acyclicity invariant.
	ErrCyclicDependency = errors.New("cyclic task dependency")
)
