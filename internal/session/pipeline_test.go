// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/router"
	"github.com/morganforge/gemchat-tui/internal/store"
)

// fakeDispatcher returns canned responses; optionally blocks until
// released so tests can hold the pipeline in flight.
type fakeDispatcher struct {
	resp    router.Response
	err     error
	lastReq router.Request
	calls   int
	started chan struct{} // when non-nil, closed on first Route entry
	block   chan struct{} // when non-nil, Route waits for a receive
}

func (f *fakeDispatcher) Route(_ context.Context, req router.Request) (router.Response, error) {
	f.calls++
	f.lastReq = req
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

func newTestPipeline(t *testing.T, d Dispatcher) (*Pipeline, *store.Store) {
	t.Helper()
	s := store.New(store.NewMemPersister())
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return NewPipeline(s, d), s
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_AppendsBothMessages(t *testing.T) {
	d := &fakeDispatcher{resp: router.Response{Text: "model reply"}}
	p, s := newTestPipeline(t, d)
	chatID := s.ActiveID()

	res, err := p.Send(context.Background(), chatID, model.ModeFlash, "hello", "")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	chat := s.Get(chatID)
	if len(chat.Messages) != 2 {
		t.Fatalf("Messages = %d, want user + model", len(chat.Messages))
	}
	if chat.Messages[0].Role != model.RoleUser || chat.Messages[0].Text != "hello" {
		t.Errorf("First message = %+v, want the user submission", chat.Messages[0])
	}
	if chat.Messages[1].Role != model.RoleModel || chat.Messages[1].Text != "model reply" {
		t.Errorf("Second message = %+v, want the model reply", chat.Messages[1])
	}
	if res.Failed {
		t.Error("Result should not be marked failed")
	}
	if res.UserMessage.ID == res.ModelMessage.ID {
		t.Error("Messages must get distinct identifiers")
	}
}

func TestSend_HistoryExcludesNewPrompt(t *testing.T) {
	d := &fakeDispatcher{resp: router.Response{Text: "second reply"}}
	p, s := newTestPipeline(t, d)
	chatID := s.ActiveID()

	if _, err := p.Send(context.Background(), chatID, model.ModeFlash, "first", ""); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := p.Send(context.Background(), chatID, model.ModeFlash, "second", ""); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// The backend receives the prior exchange only; it appends the new
	// prompt to the conversation itself.
	if len(d.lastReq.History) != 2 {
		t.Fatalf("History = %d messages, want the first exchange only", len(d.lastReq.History))
	}
	if d.lastReq.History[0].Text != "first" {
		t.Errorf("History[0] = %q", d.lastReq.History[0].Text)
	}
	if d.lastReq.Prompt != "second" {
		t.Errorf("Prompt = %q", d.lastReq.Prompt)
	}
}

func TestSend_CarriesChatContext(t *testing.T) {
	d := &fakeDispatcher{resp: router.Response{Text: "ok"}}
	p, s := newTestPipeline(t, d)
	chatID := s.ActiveID()

	sys := "Answer in French."
	s.Update(chatID, store.ChatUpdate{SystemPrompt: &sys})
	s.SetWebhookURL("https://n8n.example/webhook/x")

	if _, err := p.Send(context.Background(), chatID, model.ModeAgent, "go", ""); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if d.lastReq.SystemPrompt != sys {
		t.Errorf("SystemPrompt = %q", d.lastReq.SystemPrompt)
	}
	if d.lastReq.WebhookURL != "https://n8n.example/webhook/x" {
		t.Errorf("WebhookURL = %q", d.lastReq.WebhookURL)
	}
	if d.lastReq.Mode != model.ModeAgent {
		t.Errorf("Mode = %v", d.lastReq.Mode)
	}
}

func TestSend_BackendFailureBecomesErrorMessage(t *testing.T) {
	d := &fakeDispatcher{err: errors.New("quota exhausted")}
	p, s := newTestPipeline(t, d)
	chatID := s.ActiveID()

	res, err := p.Send(context.Background(), chatID, model.ModePro, "hello", "")
	if err != nil {
		t.Fatalf("Backend failure must be recovered, got error: %v", err)
	}
	if !res.Failed {
		t.Error("Result should be marked failed")
	}
	if res.ModelMessage.Text != ErrorText {
		t.Errorf("ModelMessage.Text = %q, want the generic placeholder", res.ModelMessage.Text)
	}

	chat := s.Get(chatID)
	if len(chat.Messages) != 2 {
		t.Fatalf("Messages = %d, want user message plus placeholder", len(chat.Messages))
	}
	if p.Busy() {
		t.Error("In-flight flag must be cleared after a failure")
	}
}

func TestSend_UnknownChat(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeDispatcher{})

	_, err := p.Send(context.Background(), "no-such-chat", model.ModeFlash, "hello", "")
	if !errors.Is(err, ErrUnknownChat) {
		t.Errorf("err = %v, want ErrUnknownChat", err)
	}
	if p.Busy() {
		t.Error("In-flight flag must be cleared")
	}
}

func TestSend_SignalsSources(t *testing.T) {
	d := &fakeDispatcher{resp: router.Response{
		Text:    "grounded",
		Sources: []model.Source{{URI: "https://x.example", Title: "X"}},
	}}
	p, s := newTestPipeline(t, d)

	res, err := p.Send(context.Background(), s.ActiveID(), model.ModeWebSearch, "news", "")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !res.ShowSources {
		t.Error("ShowSources should be signaled when valid sources are present")
	}
	if len(res.ModelMessage.Sources) != 1 {
		t.Errorf("Sources = %d, want 1", len(res.ModelMessage.Sources))
	}
}

// =============================================================================
// IN-FLIGHT GATE TESTS
// =============================================================================

func TestSend_RejectsWhileInFlight(t *testing.T) {
	d := &fakeDispatcher{
		resp:    router.Response{Text: "slow reply"},
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	p, s := newTestPipeline(t, d)
	chatID := s.ActiveID()

	started := d.started
	done := make(chan error, 1)
	go func() {
		_, err := p.Send(context.Background(), chatID, model.ModeFlash, "first", "")
		done <- err
	}()

	// Wait for the first send to reach the backend.
	<-started

	_, err := p.Send(context.Background(), chatID, model.ModeFlash, "second", "")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}

	d.block <- struct{}{}
	if err := <-done; err != nil {
		t.Fatalf("First send failed: %v", err)
	}

	// The rejected submission left no trace.
	chat := s.Get(chatID)
	for _, msg := range chat.Messages {
		if msg.Text == "second" {
			t.Error("Rejected submission must not append a user message")
		}
	}
	if len(chat.Messages) != 2 {
		t.Errorf("Messages = %d, want the first exchange only", len(chat.Messages))
	}
	if p.Busy() {
		t.Error("In-flight flag must be cleared after completion")
	}
}

// =============================================================================
// MESSAGE ASSEMBLY TESTS
// =============================================================================

func TestDeleteMessage(t *testing.T) {
	p, s := newTestPipeline(t, &fakeDispatcher{})
	chatID := s.ActiveID()

	m1, _ := p.AppendUserMessage(chatID, "one", "")
	m2, _ := p.AppendUserMessage(chatID, "two", "")
	m3, _ := p.AppendUserMessage(chatID, "three", "")

	if !p.DeleteMessage(chatID, m2.ID) {
		t.Fatal("DeleteMessage should report success")
	}

	chat := s.Get(chatID)
	if len(chat.Messages) != 2 {
		t.Fatalf("Messages = %d, want 2", len(chat.Messages))
	}
	if chat.Messages[0].ID != m1.ID || chat.Messages[1].ID != m3.ID {
		t.Error("Deletion must preserve the order of the remaining messages")
	}

	if p.DeleteMessage(chatID, "missing-id") {
		t.Error("Deleting an unknown identifier must be a no-op")
	}
	if p.DeleteMessage("missing-chat", m1.ID) {
		t.Error("Deleting from an unknown chat must be a no-op")
	}
}

func TestAppendModelMessage(t *testing.T) {
	p, s := newTestPipeline(t, &fakeDispatcher{})
	chatID := s.ActiveID()

	msg, ok := p.AppendModelMessage(chatID, router.Response{
		Text:  "reply",
		Image: "data:image/jpeg;base64,abc",
	})
	if !ok {
		t.Fatal("AppendModelMessage should succeed")
	}
	if msg.Role != model.RoleModel {
		t.Errorf("Role = %q", msg.Role)
	}

	stored := s.Get(chatID).Messages[0]
	if stored.ID != msg.ID || stored.Image != "data:image/jpeg;base64,abc" {
		t.Errorf("Stored message = %+v", stored)
	}
}
