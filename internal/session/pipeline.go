// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/router"
	"github.com/morganforge/gemchat-tui/internal/store"
	"github.com/morganforge/gemchat-tui/internal/util"
)

// ErrorText is the generic placeholder appended when a backend call
// fails. The underlying error is logged, never shown to the user.
const ErrorText = "Sorry, I ran into an error. Please try again."

var (
	// ErrBusy is returned when a submission arrives while another
	// request is still in flight. The submission is dropped whole; no
	// user message is appended.
	ErrBusy = errors.New("a request is already in flight")

	// ErrUnknownChat is returned when the target chat does not exist.
	ErrUnknownChat = errors.New("chat not found")
)

// Dispatcher routes a classified request to a backend. Satisfied by
// router.Router.
type Dispatcher interface {
	Route(ctx context.Context, req router.Request) (router.Response, error)
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline owns the one-request-at-a-time send flow over a chat store.
type Pipeline struct {
	store      *store.Store
	dispatcher Dispatcher

	mu       sync.Mutex
	inFlight bool
}

// NewPipeline creates a pipeline over the given store and dispatcher.
func NewPipeline(s *store.Store, d Dispatcher) *Pipeline {
	return &Pipeline{store: s, dispatcher: d}
}

// Busy reports whether a request is currently in flight.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// begin claims the in-flight flag. Returns false if already claimed.
func (p *Pipeline) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return false
	}
	p.inFlight = true
	return true
}

func (p *Pipeline) end() {
	p.mu.Lock()
	p.inFlight = false
	p.mu.Unlock()
}

// Result is the outcome of one completed send.
type Result struct {
	UserMessage  model.Message
	ModelMessage model.Message

	// ShowSources signals the caller to surface the sources panel.
	ShowSources bool

	// Failed marks a recovered backend failure: ModelMessage carries
	// the generic error placeholder instead of a backend response.
	Failed bool
}

// Send runs the full pipeline for one submission: append the user
// message, dispatch to a backend, append the model's reply.
//
// Backend failures are recovered here, not returned: the reply becomes
// a MODEL message with ErrorText and the detail is logged. The only
// errors Send returns are ErrBusy and ErrUnknownChat, both of which
// leave the chat untouched.
func (p *Pipeline) Send(ctx context.Context, chatID string, mode model.Mode, prompt, image string) (Result, error) {
	if !p.begin() {
		return Result{}, ErrBusy
	}
	defer p.end()

	chat := p.store.Get(chatID)
	if chat == nil {
		return Result{}, ErrUnknownChat
	}

	// Snapshot the history before the new prompt joins it; the chat
	// backend appends the prompt itself as the final entry.
	history := append([]model.Message(nil), chat.Messages...)
	systemPrompt := chat.SystemPrompt

	userMsg, _ := p.AppendUserMessage(chatID, prompt, image)

	log.Printf("session: dispatch mode=%s chat=%s prompt=%q", mode, chatID, util.TruncateRunes(prompt, 60))

	resp, err := p.dispatcher.Route(ctx, router.Request{
		Prompt:       prompt,
		Image:        image,
		Mode:         mode,
		History:      history,
		SystemPrompt: systemPrompt,
		WebhookURL:   p.store.WebhookURL(),
	})
	if err != nil {
		log.Printf("session: backend call failed: %v", err)
		errMsg := model.NewModelMessage(ErrorText, "", nil)
		p.appendMessage(chatID, errMsg)
		return Result{UserMessage: userMsg, ModelMessage: errMsg, Failed: true}, nil
	}

	modelMsg := model.NewModelMessage(resp.Text, resp.Image, resp.Sources)
	p.appendMessage(chatID, modelMsg)

	return Result{
		UserMessage:  userMsg,
		ModelMessage: modelMsg,
		ShowSources:  resp.HasSources(),
	}, nil
}

// =============================================================================
// MESSAGE ASSEMBLY
// =============================================================================

// AppendUserMessage appends a USER message with a fresh identifier.
// Returns false when the chat does not exist.
func (p *Pipeline) AppendUserMessage(chatID, text, image string) (model.Message, bool) {
	msg := model.NewUserMessage(text, image)
	return msg, p.appendMessage(chatID, msg)
}

// AppendModelMessage appends a MODEL message built from a normalized
// backend response.
func (p *Pipeline) AppendModelMessage(chatID string, resp router.Response) (model.Message, bool) {
	msg := model.NewModelMessage(resp.Text, resp.Image, resp.Sources)
	return msg, p.appendMessage(chatID, msg)
}

// DeleteMessage removes exactly the message with that identifier,
// preserving the order of the rest. No-op when the chat or message is
// not found.
func (p *Pipeline) DeleteMessage(chatID, messageID string) bool {
	chat := p.store.Get(chatID)
	if chat == nil {
		return false
	}
	msgs, ok := chat.WithoutMessage(messageID)
	if !ok {
		return false
	}
	return p.store.Update(chatID, store.ChatUpdate{Messages: &msgs})
}

func (p *Pipeline) appendMessage(chatID string, msg model.Message) bool {
	chat := p.store.Get(chatID)
	if chat == nil {
		return false
	}
	msgs := append(append([]model.Message(nil), chat.Messages...), msg)
	return p.store.Update(chatID, store.ChatUpdate{Messages: &msgs})
}
