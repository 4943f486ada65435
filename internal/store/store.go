// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/morganforge/gemchat-tui/internal/model"
)

// =============================================================================
// CHAT STORE
// =============================================================================

// Store owns the chat list and the active selection.
//
// Chats are ordered newest first: new chats are prepended, never appended.
// The active chat is referenced by ID, so only one in-memory copy of any
// chat's message list exists.
type Store struct {
	mu        sync.Mutex
	persister Persister

	chats      []*model.Chat
	activeID   string
	webhookURL string
}

// New creates a store backed by the given persister. Call Load before use.
func New(persister Persister) *Store {
	return &Store{persister: persister}
}

// =============================================================================
// LOAD
// =============================================================================

// Load restores the chat list and webhook URL from the persister.
//
// When no chat list exists, or the stored blob cannot be parsed, the store
// falls back to first-run initialization: one fresh chat, selected. Load
// never fails on malformed data.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.persister.Load(KeyChats)
	if err != nil {
		return err
	}

	var chats []*model.Chat
	if ok {
		if err := json.Unmarshal(data, &chats); err != nil {
			log.Printf("store: discarding unparseable chat list: %v", err)
			chats = nil
		}
	}

	if len(chats) == 0 {
		chat := model.NewChat()
		s.chats = []*model.Chat{chat}
		s.activeID = chat.ID
		s.persistLocked()
	} else {
		s.chats = chats
		s.activeID = chats[0].ID
	}

	if data, ok, err := s.persister.Load(KeyWebhookURL); err == nil && ok {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			log.Printf("store: discarding unparseable webhook URL: %v", err)
		} else {
			s.webhookURL = url
		}
	}

	return nil
}

// =============================================================================
// LIST AND SELECTION
// =============================================================================

// List returns the chats in reverse-creation order (newest first).
// The returned slice is the store's own; callers must not mutate it.
func (s *Store) List() []*model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats
}

// Select sets the active chat. No-op when the ID is not present.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chat := range s.chats {
		if chat.ID == id {
			s.activeID = id
			return
		}
	}
}

// ActiveID returns the active chat ID, auto-selecting the most recent chat
// when the active ID is unset but chats exist.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" && len(s.chats) > 0 {
		s.activeID = s.chats[0].ID
	}
	return s.activeID
}

// Active returns the active chat, or nil when none is selected.
func (s *Store) Active() *model.Chat {
	id := s.ActiveID()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

// Get returns the chat with the given ID, or nil.
func (s *Store) Get(id string) *model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

// NewChat creates a chat per the creation rule, prepends it to the list,
// makes it active, and persists.
func (s *Store) NewChat() *model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := model.NewChat()
	s.chats = append([]*model.Chat{chat}, s.chats...)
	s.activeID = chat.ID
	s.persistLocked()
	return chat
}

// =============================================================================
// UPDATE
// =============================================================================

// ChatUpdate is a partial set of chat fields to merge. Nil fields are left
// unchanged, mirroring a Partial<Chat> merge.
type ChatUpdate struct {
	Title        *string
	SystemPrompt *string
	Messages     *[]model.Message
}

// Update merges the given fields into the chat with that ID. Every chat
// mutation (new message, deleted message, renamed title, changed system
// prompt) goes through here, so persistence triggering stays centralized.
// Returns false when the chat is not found.
func (s *Store) Update(id string, update ChatUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.findLocked(id)
	if chat == nil {
		return false
	}

	if update.Title != nil {
		chat.Title = *update.Title
	}
	if update.SystemPrompt != nil {
		chat.SystemPrompt = *update.SystemPrompt
	}
	if update.Messages != nil {
		chat.Messages = *update.Messages
	}

	s.persistLocked()
	return true
}

// =============================================================================
// WEBHOOK URL
// =============================================================================

// WebhookURL returns the persisted n8n webhook URL (may be empty).
func (s *Store) WebhookURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.webhookURL
}

// SetWebhookURL stores and persists the webhook URL.
func (s *Store) SetWebhookURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.webhookURL = url
	data, err := json.Marshal(url)
	if err != nil {
		return
	}
	if err := s.persister.Save(KeyWebhookURL, data); err != nil {
		log.Printf("store: failed to persist webhook URL: %v", err)
	}
}

// =============================================================================
// INTERNALS
// =============================================================================

// findLocked returns the chat with the given ID. Caller holds the mutex.
func (s *Store) findLocked(id string) *model.Chat {
	for _, chat := range s.chats {
		if chat.ID == id {
			return chat
		}
	}
	return nil
}

// persistLocked saves the chat list. An empty list is never persisted, so
// saved data cannot be erased by writing an uninitialized state.
// Caller holds the mutex.
func (s *Store) persistLocked() {
	if len(s.chats) == 0 {
		return
	}
	data, err := json.Marshal(s.chats)
	if err != nil {
		log.Printf("store: failed to marshal chat list: %v", err)
		return
	}
	if err := s.persister.Save(KeyChats, data); err != nil {
		log.Printf("store: failed to persist chat list: %v", err)
	}
}
