package orchestrator

import (
	"context"
	"sync"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/conversation"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/queue"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/template"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/workflow"
)

// Config wires the Facade's collaborators. New always constructs its own
// Queue, Registry, Dispatcher, Conversations, Engine, and Templates; a
// caller only supplies a Corrector (if the correction loop should run) and
// the optional ambient collaborators.
type Config struct {
	Name             string
	Corrector        registry.Corrector
	MaxParallelSteps int
	Events           EventPublisher
	Snapshots        SnapshotStore
}

// Facade is the Orchestrator Facade: the single entry point composing
// §§4.1–4.4, §4.6, and §4.8/4.9 into the programmatic surface named in §6.
type Facade struct {
	mu      sync.RWMutex
	name    string
	running bool

	queue         *queue.TaskQueue
	registry      *registry.Registry
	dispatcher    *registry.Dispatcher
	conversations *conversation.Manager
	engine        *workflow.Engine
	templates     *template.Library

	events    EventPublisher
	snapshots SnapshotStore

	stop chan struct{}
}

// New constructs a Facade with fresh, empty collaborators.
func New(cfg Config) *Facade {
	name := cfg.Name
	if name == "" {
		name = "orchestrator"
	}

	reg := registry.New()
	dispatcher := registry.NewDispatcher(reg, cfg.Corrector)
	convMgr := conversation.New(reg)
	engine := workflow.New(reg, dispatcher, convMgr)
	if cfg.MaxParallelSteps > 0 {
		engine.MaxParallelSteps = cfg.MaxParallelSteps
	}

	return &Facade{
		name:          name,
		queue:         queue.New(),
		registry:      reg,
		dispatcher:    dispatcher,
		conversations: convMgr,
		engine:        engine,
		templates:     template.NewLibrary(),
		events:        cfg.Events,
		snapshots:     cfg.Snapshots,
	}
}

// Status is the snapshot returned by GetStatus (§6).
type Status struct {
	Name                    string
	Running                 bool
	AgentCount              int
	AgentNames              []string
	PendingTaskCount        int
	ActiveConversationCount int
}

// Start marks the facade running and initializes every registered agent.
// Per §4.5, this and every other facade-driven transition emits a
// Lifecycle event to the configured EventPublisher.
func (f *Facade) Start(ctx context.Context) error {
	f.mu.Lock()
	f.running = true
	f.stop = make(chan struct{})
	f.mu.Unlock()

	for _, name := range f.registry.Names() {
		agent, ok := f.registry.Get(name)
		if !ok {
			continue
		}
		if err := agent.Initialize(ctx); err != nil {
			return err
		}
	}

	f.emit("orchestrator.started", "orchestrator", f.name, nil)
	return nil
}

// Shutdown cooperatively stops RunTaskLoop and shuts down every registered
// agent.
func (f *Facade) Shutdown(ctx context.Context) error {
	f.mu.Lock()
	running := f.running
	stopCh := f.stop
	f.running = false
	f.mu.Unlock()

	if running && stopCh != nil {
		close(stopCh)
	}

	for _, name := range f.registry.Names() {
		agent, ok := f.registry.Get(name)
		if !ok {
			continue
		}
		if err := agent.Shutdown(ctx); err != nil {
			return err
		}
	}

	f.emit("orchestrator.stopped", "orchestrator", f.name, nil)
	return nil
}

// GetStatus returns the orchestrator status snapshot named in §6.
func (f *Facade) GetStatus() Status {
	f.mu.RLock()
	running := f.running
	f.mu.RUnlock()

	return Status{
		Name:                    f.name,
		Running:                 running,
		AgentCount:              f.registry.Count(),
		AgentNames:              f.registry.Names(),
		PendingTaskCount:        f.queue.PendingCount(),
		ActiveConversationCount: len(f.conversations.Active()),
	}
}
