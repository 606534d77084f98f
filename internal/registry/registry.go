package registry

import (
	"fmt"
	"sync"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// Registry is the capability index: capability → ordered list of agent
// names, with insertion order preserved for deterministic selection (§4.2).
type Registry struct {
	mu         sync.RWMutex
	agents     map[string]Agent
	byCapability map[domain.Capability][]string
	mirror     Mirror
}

// Mirror is the optional external observer hook described in SPEC_FULL.md
// §6a (the Redis-backed distributed registry mirror). It never influences
// dispatch; New wires a NoopMirror by default.
type Mirror interface {
	Register(name string, capabilities []domain.Capability)
	Unregister(name string)
}

// NoopMirror discards every call. It is the default Mirror.
type NoopMirror struct{}

func (NoopMirror) Register(string, []domain.Capability) {}
func (NoopMirror) Unregister(string)                     {}

// New constructs an empty Registry with a no-op mirror.
func New() *Registry {
	return &Registry{
		agents:       make(map[string]Agent),
		byCapability: make(map[domain.Capability][]string),
		mirror:       NoopMirror{},
	}
}

// SetMirror installs a Mirror implementation (e.g. the Redis mirror); pass
// NoopMirror{} to disable.
func (r *Registry) SetMirror(m Mirror) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mirror = m
}

// Register adds an agent to the registry, appending it to the ordered list
// for each of its advertised capabilities.
func (r *Registry) Register(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.Name()] = a
	for _, cap := range a.Capabilities() {
		r.byCapability[cap] = append(r.byCapability[cap], a.Name())
	}
	r.mirror.Register(a.Name(), a.Capabilities())
}

// Unregister removes an agent and its capability-index entries.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, name)
	for cap, names := range r.byCapability {
		r.byCapability[cap] = removeName(names, name)
	}
	r.mirror.Unregister(name)
}

func removeName(names []string, target string) []string {
	out := names[:0]
	for _, n := range names {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// AgentsByCapability returns the ordered list of agents registered under cap.
func (r *Registry) AgentsByCapability(cap domain.Capability) []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Agent
	for _, name := range r.byCapability[cap] {
		if a, ok := r.agents[name]; ok {
			out = append(out, a)
		}
	}
	return out
}

// AgentsForTask implements §4.2's agents_for_task: iterate the task type's
// required capabilities, collect registered agents under any of them,
// de-duplicate preserving insertion order, and filter by CanHandle.
func (r *Registry) AgentsForTask(task *domain.Task) []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []Agent
	for _, cap := range domain.RequiredCapabilities(task.Type) {
		for _, name := range r.byCapability[cap] {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			a, ok := r.agents[name]
			if !ok || !a.CanHandle(task.Type) {
				continue
			}
			out = append(out, a)
		}
	}
	return out
}

// Get returns the agent with the given name.
func (r *Registry) Get(name string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// Names returns every registered agent name, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.agents))
	for name := range r.agents {
		out = append(out, name)
	}
	return out
}

// Count returns the number of registered agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// ErrNoSuitableAgent is returned by Dispatcher.Dispatch when no agent
// qualifies for a task's type.
type ErrNoSuitableAgent struct {
	TaskType domain.TaskType
}

func (e *ErrNoSuitableAgent) Error() string {
	return fmt.Sprintf("no suitable agent for type %s", e.TaskType)
}
