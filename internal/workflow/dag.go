// Package workflow implements the Workflow Definition and Workflow Engine of
// SPEC_FULL.md §4.8/§4.9, generalized from the teacher's internal/engine
// (DAG build/topological-sort/ready-set, text/template config rendering)
// and internal/orchestrator (ready-step dispatch loop), and from
// internal/steps (per-type Step interface and Request/Response shape).
package workflow

import (
	"fmt"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// ErrCyclicSteps is returned by Validate when a workflow's step dependencies
// do not form a DAG, per the acyclicity invariant in §3.
type ErrCyclicSteps struct {
	Cycle []string
}

func (e *ErrCyclicSteps) Error() string {
	return fmt.Sprintf("cyclic workflow step dependency: %v", e.Cycle)
}

// ErrUnknownDependency is returned by Validate when a step names a
// dependency id that does not exist in the workflow.
type ErrUnknownDependency struct {
	StepID    string
	DependsOn string
}

func (e *ErrUnknownDependency) Error() string {
	return fmt.Sprintf("step %q depends on unknown step %q", e.StepID, e.DependsOn)
}

// Validate checks that every dependency id exists and that the step graph is
// acyclic, using Kahn's algorithm (grounded on the teacher's engine.dag.go
// topological sort), detected eagerly per the acyclicity invariant (§3).
func Validate(w *domain.Workflow) error {
	byID := make(map[string]*domain.WorkflowStep, len(w.Steps))
	for i := range w.Steps {
		byID[w.Steps[i].ID] = &w.Steps[i]
	}

	indegree := make(map[string]int, len(w.Steps))
	adjacency := make(map[string][]string, len(w.Steps))
	for i := range w.Steps {
		step := &w.Steps[i]
		if _, ok := indegree[step.ID]; !ok {
			indegree[step.ID] = 0
		}
		for _, dep := range step.Dependencies {
			if _, ok := byID[dep]; !ok {
				return &ErrUnknownDependency{StepID: step.ID, DependsOn: dep}
			}
			adjacency[dep] = append(adjacency[dep], step.ID)
			indegree[step.ID]++
		}
	}

	var queue []string
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adjacency[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited != len(w.Steps) {
		var remaining []string
		for id, deg := range indegree {
			if deg > 0 {
				remaining = append(remaining, id)
			}
		}
		return &ErrCyclicSteps{Cycle: remaining}
	}
	return nil
}
