package domain

import (
	"time"

	"github.com/google/uuid"
)

// Turn is one exchange within a Conversation: a speaker sends an inbound
// message and, if the recipient answered, an optional response.
type Turn struct {
	Speaker   string    `json:"speaker"`
	Inbound   string    `json:"inbound"`
	Response  string    `json:"response,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered transcript of turns between named agents on a
// single topic, bounded by MaxTurns.
type Conversation struct {
	ID           uuid.UUID          `json:"id"`
	Topic        string             `json:"topic"`
	Participants []string           `json:"participants"`
	Mode         ConversationMode   `json:"mode"`
	Status       ConversationStatus `json:"status"`
	Turns        []Turn             `json:"turns,omitempty"`
	TaskID       *uuid.UUID         `json:"task_id,omitempty"`
	MaxTurns     int                `json:"max_turns"`
	CreatedAt    time.Time          `json:"created_at"`
}

// NewConversation constructs an active Conversation with the default
// 50-turn cap used throughout the pack's multi-agent examples.
func NewConversation(topic string, participants []string, mode ConversationMode, taskID *uuid.UUID) *Conversation {
	return &Conversation{
		ID:           uuid.New(),
		Topic:        topic,
		Participants: append([]string(nil), participants...),
		Mode:         mode,
		Status:       ConversationStatusActive,
		TaskID:       taskID,
		MaxTurns:     50,
		CreatedAt:    time.Now(),
	}
}

// AppendTurn appends a turn and forces status to completed once MaxTurns is
// reached, per the turn-cap invariant in §3.
func (c *Conversation) AppendTurn(turn Turn) {
	c.Turns = append(c.Turns, turn)
	if c.MaxTurns > 0 && len(c.Turns) >= c.MaxTurns {
		c.Status = ConversationStatusCompleted
	}
}

// HasParticipant reports whether name is a registered participant.
func (c *Conversation) HasParticipant(name string) bool {
	for _, p := range c.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// AddParticipant appends name if not already present.
func (c *Conversation) AddParticipant(name string) {
	if !c.HasParticipant(name) {
		c.Participants = append(c.Participants, name)
	}
}

// End forces the conversation to completed regardless of turn count.
func (c *Conversation) End() {
	if c.Status == ConversationStatusActive || c.Status == ConversationStatusPaused {
		c.Status = ConversationStatusCompleted
	}
}
