// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Gemini"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a grounding citation returned by the web-search backend.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Valid reports whether the source has both a URI and a title.
// Only valid sources are displayed in the sources panel.
func (s Source) Valid() bool {
	return s.URI != "" && s.Title != ""
}

// ValidSources returns the sources that have both fields set, order preserved.
func ValidSources(sources []Source) []Source {
	var valid []Source
	for _, s := range sources {
		if s.Valid() {
			valid = append(valid, s)
		}
	}
	return valid
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a chat.
//
// Text may be empty only when an image is present. Image holds an encoded
// data URI (data:image/...;base64,...). Sources appear only on model messages
// produced by the web-search backend.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"`
	Sources   []Source  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(text, image string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		Image:     image,
		CreatedAt: time.Now(),
	}
}

// NewModelMessage creates a model message with a generated ID.
func NewModelMessage(text, image string, sources []Source) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleModel,
		Text:      text,
		Image:     image,
		Sources:   sources,
		CreatedAt: time.Now(),
	}
}

// HasImage reports whether the message carries an inline image.
func (m Message) HasImage() bool {
	return m.Image != ""
}

// HasSources reports whether the message carries at least one valid source.
func (m Message) HasSources() bool {
	for _, s := range m.Sources {
		if s.Valid() {
			return true
		}
	}
	return false
}

// Preview returns a truncated preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Text)
	if len(runes) <= maxLen {
		return m.Text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
