// Package orchestrator implements the Orchestrator Facade of SPEC_FULL.md
// §4.5/§6: a thin composition over the task queue, agent registry and
// dispatcher, correction loop, conversation manager, workflow engine, and
// template library, generalized from the teacher's internal/orchestrator
// composition root (orchestrator.go/state.go), which wired repos and MQ
// consumers instead of in-process collaborators.
package orchestrator
