// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"testing"

	"github.com/morganforge/gemchat-tui/internal/model"
)

// fakeChat records which capability was invoked and with what.
type fakeChat struct {
	chatCalls     int
	searchCalls   int
	generateCalls int
	editCalls     int

	lastPrompt string
	lastImage  string
	lastMode   model.Mode

	text    string
	image   string
	sources []model.Source
	err     error
}

func (f *fakeChat) Chat(_ context.Context, mode model.Mode, _ []model.Message, prompt, image, _ string) (string, error) {
	f.chatCalls++
	f.lastMode = mode
	f.lastPrompt = prompt
	f.lastImage = image
	return f.text, f.err
}

func (f *fakeChat) WebSearch(_ context.Context, prompt string) (string, []model.Source, error) {
	f.searchCalls++
	f.lastPrompt = prompt
	return f.text, f.sources, f.err
}

func (f *fakeChat) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.generateCalls++
	f.lastPrompt = prompt
	return f.image, f.err
}

func (f *fakeChat) EditImage(_ context.Context, prompt, image string) (string, error) {
	f.editCalls++
	f.lastPrompt = prompt
	f.lastImage = image
	return f.image, f.err
}

func (f *fakeChat) totalCalls() int {
	return f.chatCalls + f.searchCalls + f.generateCalls + f.editCalls
}

type fakeAgent struct {
	calls   int
	lastURL string
	text    string
	err     error
}

func (f *fakeAgent) Run(_ context.Context, _ string, webhookURL string) (string, error) {
	f.calls++
	f.lastURL = webhookURL
	return f.text, f.err
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestRoute_Fallback(t *testing.T) {
	chat := &fakeChat{}
	agent := &fakeAgent{}
	r := New(chat, agent)

	resp, err := r.Route(context.Background(), Request{
		Prompt: "hello",
		Mode:   model.Mode(99),
	})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if resp.Text != FallbackText {
		t.Errorf("Text = %q, want the fallback text", resp.Text)
	}
	if chat.totalCalls() != 0 || agent.calls != 0 {
		t.Error("Fallback must not call any backend")
	}
}

func TestRoute_Generate(t *testing.T) {
	chat := &fakeChat{image: "data:image/jpeg;base64,xyz"}
	r := New(chat, &fakeAgent{})

	resp, err := r.Route(context.Background(), Request{
		Prompt: "/generate foo",
		Mode:   model.ModeFlash,
	})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if resp.Text != `Here is the generated image for: "foo"` {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.Image == "" {
		t.Error("Image should be populated")
	}
	if chat.generateCalls != 1 || chat.chatCalls != 0 {
		t.Errorf("generateCalls = %d, chatCalls = %d", chat.generateCalls, chat.chatCalls)
	}
	if chat.lastPrompt != "foo" {
		t.Errorf("Backend prompt = %q, want prefix stripped", chat.lastPrompt)
	}
}

func TestRoute_Generate_CaseInsensitive(t *testing.T) {
	chat := &fakeChat{image: "data:image/jpeg;base64,xyz"}
	r := New(chat, &fakeAgent{})

	// Prefix matching ignores case, but the generation prompt keeps
	// the submission's original casing.
	resp, err := r.Route(context.Background(), Request{
		Prompt: "/Generate A Sunset",
		Mode:   model.ModeFlash,
	})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if chat.lastPrompt != "A Sunset" {
		t.Errorf("Backend prompt = %q, want %q", chat.lastPrompt, "A Sunset")
	}
	if resp.Text != `Here is the generated image for: "A Sunset"` {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestRoute_Edit(t *testing.T) {
	chat := &fakeChat{image: "data:image/png;base64,edited"}
	r := New(chat, &fakeAgent{})

	resp, err := r.Route(context.Background(), Request{
		Prompt: "/edit make it blue",
		Image:  "data:image/png;base64,original",
		Mode:   model.ModeFlash,
	})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if resp.Text != `Here is the edited image based on your request: "make it blue"` {
		t.Errorf("Text = %q", resp.Text)
	}
	if chat.editCalls != 1 {
		t.Errorf("editCalls = %d, want 1", chat.editCalls)
	}
	if chat.lastImage != "data:image/png;base64,original" {
		t.Errorf("Backend image = %q", chat.lastImage)
	}
}

func TestRoute_EditWithoutImage_FallsThrough(t *testing.T) {
	chat := &fakeChat{text: "chat reply"}
	r := New(chat, &fakeAgent{})

	resp, err := r.Route(context.Background(), Request{
		Prompt: "/edit foo",
		Mode:   model.ModeFlash,
	})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if chat.editCalls != 0 {
		t.Error("Edit without an attached image must not reach the edit backend")
	}
	if chat.chatCalls != 1 {
		t.Errorf("chatCalls = %d, want fall-through to chat mode", chat.chatCalls)
	}
	if resp.Text != "chat reply" {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestRoute_WebSearch(t *testing.T) {
	chat := &fakeChat{
		text: "grounded answer",
		sources: []model.Source{
			{URI: "https://a.example", Title: "A"},
			{URI: "", Title: "missing uri"},
			{URI: "https://b.example", Title: "B"},
		},
	}
	r := New(chat, &fakeAgent{})

	resp, err := r.Route(context.Background(), Request{
		Prompt: "what is new",
		Mode:   model.ModeWebSearch,
	})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if chat.searchCalls != 1 {
		t.Errorf("searchCalls = %d, want 1", chat.searchCalls)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("Sources = %d, want invalid citations filtered", len(resp.Sources))
	}
	if resp.Sources[0].Title != "A" || resp.Sources[1].Title != "B" {
		t.Errorf("Source order not preserved: %+v", resp.Sources)
	}
	if !resp.HasSources() {
		t.Error("HasSources should report true")
	}
}

func TestRoute_Agent(t *testing.T) {
	agent := &fakeAgent{text: "workflow says hi"}
	chat := &fakeChat{}
	r := New(chat, agent)

	resp, err := r.Route(context.Background(), Request{
		Prompt:     "run the report",
		Mode:       model.ModeAgent,
		WebhookURL: "https://n8n.example/webhook/abc",
	})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if agent.calls != 1 {
		t.Errorf("agent calls = %d, want 1", agent.calls)
	}
	if agent.lastURL != "https://n8n.example/webhook/abc" {
		t.Errorf("Webhook URL = %q", agent.lastURL)
	}
	if resp.Text != "workflow says hi" {
		t.Errorf("Text = %q", resp.Text)
	}
	if chat.totalCalls() != 0 {
		t.Error("Agent mode must not touch the chat backend")
	}
}

func TestRoute_ChatModes(t *testing.T) {
	for _, mode := range []model.Mode{model.ModeFlash, model.ModePro} {
		chat := &fakeChat{text: "reply"}
		r := New(chat, &fakeAgent{})

		resp, err := r.Route(context.Background(), Request{
			Prompt: "hello there",
			Mode:   mode,
		})
		if err != nil {
			t.Fatalf("Route failed for %s: %v", mode, err)
		}
		if chat.chatCalls != 1 {
			t.Errorf("%s: chatCalls = %d, want 1", mode, chat.chatCalls)
		}
		if chat.lastMode != mode {
			t.Errorf("Backend mode = %v, want %v", chat.lastMode, mode)
		}
		if resp.Text != "reply" {
			t.Errorf("Text = %q", resp.Text)
		}
	}
}

func TestRoute_BackendErrorPropagates(t *testing.T) {
	wantErr := errors.New("model overloaded")
	chat := &fakeChat{err: wantErr}
	r := New(chat, &fakeAgent{})

	_, err := r.Route(context.Background(), Request{
		Prompt: "hello",
		Mode:   model.ModePro,
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want backend error propagated", err)
	}
}

func TestResponse_HasSources(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want bool
	}{
		{"no sources", Response{Text: "hi"}, false},
		{"one valid", Response{Sources: []model.Source{{URI: "u", Title: "t"}}}, true},
		{"only invalid", Response{Sources: []model.Source{{URI: "u"}, {Title: "t"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.HasSources(); got != tt.want {
				t.Errorf("HasSources() = %v, want %v", got, tt.want)
			}
		})
	}
}
