// Package conversation implements the Conversation Manager of SPEC_FULL.md
// §4.6: multi-participant message exchange bounded by max_turns. New code —
// the teacher has no conversation concept — grounded on the teacher's
// domain status-enum-plus-method idiom and on gomind's HITL checkpoint
// pattern for turn-bounded interaction.
package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registry"
)

// Manager owns every live Conversation and the registry used to resolve
// recipients into agents.
type Manager struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]*domain.Conversation
	agents        *registry.Registry
}

// New constructs a Manager over the given agent registry.
func New(agents *registry.Registry) *Manager {
	return &Manager{
		conversations: make(map[uuid.UUID]*domain.Conversation),
		agents:        agents,
	}
}

// Create starts a new active conversation.
func (m *Manager) Create(topic string, participants []string, mode domain.ConversationMode, taskID *uuid.UUID) *domain.Conversation {
	c := domain.NewConversation(topic, participants, mode, taskID)
	m.mu.Lock()
	m.conversations[c.ID] = c
	m.mu.Unlock()
	return c
}

// Get returns the conversation with the given id.
func (m *Manager) Get(id uuid.UUID) (*domain.Conversation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conversations[id]
	return c, ok
}

// AddParticipant appends a participant to an existing conversation,
// supporting the "dynamic" mode's mid-conversation joins (§9).
func (m *Manager) AddParticipant(id uuid.UUID, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return false
	}
	c.AddParticipant(name)
	return true
}

// Send implements §4.6's send semantics: returns nil if the conversation is
// inactive or the recipient is not a registered agent; otherwise invokes the
// recipient's ProcessMessage and appends the resulting turn.
func (m *Manager) Send(ctx context.Context, id uuid.UUID, sender, recipient, content string) (*registry.Response, error) {
	m.mu.Lock()
	c, ok := m.conversations[id]
	m.mu.Unlock()
	if !ok || c.Status != domain.ConversationStatusActive {
		return nil, nil
	}

	agent, ok := m.agents.Get(recipient)
	if !ok {
		return nil, nil
	}

	resp, err := agent.ProcessMessage(ctx, registry.Message{
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		Metadata:  map[string]any{"conversation_id": id.String()},
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	c.AppendTurn(domain.Turn{
		Speaker:   sender,
		Inbound:   content,
		Response:  resp.Content,
		Timestamp: time.Now(),
	})
	m.mu.Unlock()

	return &resp, nil
}

// Broadcast implements §4.6's broadcast semantics: send to every participant
// except the sender, in participant order, collecting successful responses.
// Per the Open Question resolution in SPEC_FULL.md §9, broadcasting on an
// inactive conversation degrades to an empty (never nil) list.
func (m *Manager) Broadcast(ctx context.Context, id uuid.UUID, sender, content string) ([]*registry.Response, error) {
	m.mu.RLock()
	c, ok := m.conversations[id]
	m.mu.RUnlock()
	if !ok {
		return []*registry.Response{}, nil
	}

	responses := []*registry.Response{}
	for _, participant := range c.Participants {
		if participant == sender {
			continue
		}
		resp, err := m.Send(ctx, id, sender, participant, content)
		if err != nil {
			return responses, err
		}
		if resp != nil {
			responses = append(responses, resp)
		}
	}
	return responses, nil
}

// End forcibly completes a conversation.
func (m *Manager) End(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.conversations[id]; ok {
		c.End()
	}
}

// Active returns every conversation currently in the active status.
func (m *Manager) Active() []*domain.Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Conversation
	for _, c := range m.conversations {
		if c.Status == domain.ConversationStatusActive {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the total number of conversations the manager has created,
// regardless of status.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conversations)
}
