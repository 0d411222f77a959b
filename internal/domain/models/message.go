package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles as sent on the chat-completions wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn in an assistant conversation. Content is the
// chat-display text; ApplyContent, when set on assistant messages, is the
// sanitized HTML the frontend inserts into the document.
type ChatMessage struct {
	ID           uuid.UUID `json:"id"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	ApplyContent string    `json:"apply_content,omitempty"`
	IsError      bool      `json:"is_error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Conversation is an ordered message history for one assistant session.
// Histories live in memory for the lifetime of the server process; the
// frontend treats them as ephemeral chat state, not documents.
type Conversation struct {
	ID        uuid.UUID     `json:"id"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewConversation creates an empty conversation with a fresh ID.
func NewConversation() *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:        uuid.New(),
		Messages:  []ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot returns a copy with its own message slice, safe to read and
// marshal while the original keeps changing under the owner's lock.
func (c *Conversation) Snapshot() *Conversation {
	out := *c
	out.Messages = make([]ChatMessage, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}

// Append adds a message with the given role and returns it.
func (c *Conversation) Append(role, content string) ChatMessage {
	return c.AppendMessage(ChatMessage{Role: role, Content: content})
}

// AppendMessage adds a prepared message, filling in ID and timestamp.
func (c *Conversation) AppendMessage(msg ChatMessage) ChatMessage {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now().UTC()
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.CreatedAt
	return msg
}
