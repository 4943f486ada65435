// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/morganforge/gemchat-tui/internal/model"
)

// =============================================================================
// COMMAND PREFIXES
// =============================================================================

const (
	// GeneratePrefix triggers image generation. The trailing space is
	// part of the prefix: "/generatefoo" is not a command.
	GeneratePrefix = "/generate "

	// EditPrefix triggers an image edit, but only when the submission
	// carries an attached image. Without one the prompt falls through
	// to mode-based routing.
	EditPrefix = "/edit "
)

// FallbackText is returned when no classification rule matches.
const FallbackText = "This model does not support the current input type or command."

// =============================================================================
// BACKEND CONTRACTS
// =============================================================================

// ChatBackend is the Gemini capability surface the router dispatches
// chat, search, and image requests to. Images travel as data URIs.
type ChatBackend interface {
	Chat(ctx context.Context, mode model.Mode, history []model.Message, prompt, image, systemPrompt string) (string, error)
	WebSearch(ctx context.Context, prompt string) (string, []model.Source, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	EditImage(ctx context.Context, prompt, image string) (string, error)
}

// AgentBackend forwards a prompt to an external n8n workflow. Run
// never fails on webhook misconfiguration; it returns diagnostic text
// instead.
type AgentBackend interface {
	Run(ctx context.Context, prompt, webhookURL string) (string, error)
}

// =============================================================================
// REQUEST / RESPONSE
// =============================================================================

// Request carries one user submission plus the conversation context
// the backends need to answer it.
type Request struct {
	Prompt       string
	Image        string // attached image as a data URI, "" if none
	Mode         model.Mode
	History      []model.Message // prior messages, oldest first
	SystemPrompt string
	WebhookURL   string
}

// Response is the uniform shape every backend result is reduced to.
type Response struct {
	Text    string
	Image   string // data URI, "" if the backend produced no image
	Sources []model.Source
}

// HasSources reports whether the response carries at least one source
// with both a URI and a title. The UI surfaces the sources panel only
// when this holds.
func (r Response) HasSources() bool {
	for _, s := range r.Sources {
		if s.Valid() {
			return true
		}
	}
	return false
}

// =============================================================================
// ROUTER
// =============================================================================

// Router dispatches classified prompts to its backends.
type Router struct {
	chat  ChatBackend
	agent AgentBackend
}

// New creates a router over the given backends.
func New(chat ChatBackend, agent AgentBackend) *Router {
	return &Router{chat: chat, agent: agent}
}

// Route classifies the request and calls exactly one backend.
//
// Rule order (first match wins, prefix match is case-insensitive):
//  1. "/generate " prefix  -> image generation
//  2. "/edit " prefix with an attached image -> image edit
//  3. web-search mode      -> grounded search
//  4. agent mode           -> n8n webhook
//  5. chat mode            -> conversational model
//  6. nothing matched      -> fixed fallback text, no backend call
func (r *Router) Route(ctx context.Context, req Request) (Response, error) {
	prompt := strings.TrimSpace(req.Prompt)
	lower := strings.ToLower(prompt)

	if strings.HasPrefix(lower, GeneratePrefix) {
		sub := prompt[len(GeneratePrefix):]
		image, err := r.chat.GenerateImage(ctx, sub)
		if err != nil {
			return Response{}, err
		}
		return Response{
			Text:  fmt.Sprintf("Here is the generated image for: \"%s\"", sub),
			Image: image,
		}, nil
	}

	if strings.HasPrefix(lower, EditPrefix) && req.Image != "" {
		sub := prompt[len(EditPrefix):]
		image, err := r.chat.EditImage(ctx, sub, req.Image)
		if err != nil {
			return Response{}, err
		}
		return Response{
			Text:  fmt.Sprintf("Here is the edited image based on your request: \"%s\"", sub),
			Image: image,
		}, nil
	}

	switch req.Mode {
	case model.ModeWebSearch:
		text, sources, err := r.chat.WebSearch(ctx, prompt)
		if err != nil {
			return Response{}, err
		}
		return Response{Text: text, Sources: model.ValidSources(sources)}, nil

	case model.ModeAgent:
		text, err := r.agent.Run(ctx, prompt, req.WebhookURL)
		if err != nil {
			return Response{}, err
		}
		return Response{Text: text}, nil

	case model.ModeFlash, model.ModePro:
		text, err := r.chat.Chat(ctx, req.Mode, req.History, prompt, req.Image, req.SystemPrompt)
		if err != nil {
			return Response{}, err
		}
		return Response{Text: text}, nil
	}

	return Response{Text: FallbackText}, nil
}
