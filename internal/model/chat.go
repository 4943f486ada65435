// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the placeholder title every new chat starts with.
const DefaultTitle = "New Chat"

// DefaultSystemPrompt is the system instruction applied to new chats.
const DefaultSystemPrompt = "You are a helpful assistant."

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds a complete conversation with its metadata.
//
// Message order is conversation order: messages are append-only apart from
// whole-message deletion, and never reordered.
type Chat struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	SystemPrompt string    `json:"system_prompt"`
	Messages     []Message `json:"messages"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewChat creates a fresh chat with a generated ID, the placeholder title,
// the default system prompt, and an empty message sequence.
func NewChat() *Chat {
	return &Chat{
		ID:           uuid.NewString(),
		Title:        DefaultTitle,
		SystemPrompt: DefaultSystemPrompt,
		Messages:     []Message{},
		CreatedAt:    time.Now(),
	}
}

// =============================================================================
// MESSAGE ACCESS
// =============================================================================

// MessageByID returns the message with the given ID, or false if not found.
func (c *Chat) MessageByID(id string) (Message, bool) {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return Message{}, false
}

// LastMessage returns the most recent message, or false if the chat is empty.
func (c *Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of messages.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// WithoutMessage returns a copy of the message sequence with the message of
// the given ID removed, preserving the order of the rest. The second return
// is false when no message matched.
func (c *Chat) WithoutMessage(id string) ([]Message, bool) {
	for i, msg := range c.Messages {
		if msg.ID == id {
			out := make([]Message, 0, len(c.Messages)-1)
			out = append(out, c.Messages[:i]...)
			out = append(out, c.Messages[i+1:]...)
			return out, true
		}
	}
	return c.Messages, false
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// DisplayTitle returns the chat title or the placeholder when unset.
func (c *Chat) DisplayTitle() string {
	if strings.TrimSpace(c.Title) != "" {
		return c.Title
	}
	return DefaultTitle
}

// Preview returns a short preview of the chat for the sidebar.
func (c *Chat) Preview(maxLen int) string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Text != "" {
			return msg.Preview(maxLen)
		}
	}
	return "Empty chat"
}

// Clone creates a deep copy of the chat.
func (c *Chat) Clone() *Chat {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	for i, msg := range c.Messages {
		if msg.Sources != nil {
			clone.Messages[i].Sources = make([]Source, len(msg.Sources))
			copy(clone.Messages[i].Sources, msg.Sources)
		}
	}
	return &clone
}
