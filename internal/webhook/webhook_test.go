// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// =============================================================================
// NORMALIZATION TESTS
// =============================================================================

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"array with response key", `[{"response":"hi"}]`, "hi"},
		{"plain string", `"just text"`, "just text"},
		{"array of strings", `["first","second"]`, "first"},
		{"text key", `{"text":"from text"}`, "from text"},
		{"answer key", `{"answer":"from answer"}`, "from answer"},
		{"message key", `{"message":"from message"}`, "from message"},
		{"priority order", `{"message":"low","response":"high"}`, "high"},
		{"not json", `plain body`, "plain body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize([]byte(tt.body)); got != tt.want {
				t.Errorf("Normalize(%s) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestNormalize_UnrecognizedObject(t *testing.T) {
	got := Normalize([]byte(`{"foo":"bar"}`))
	if !strings.HasPrefix(got, "```json") {
		t.Errorf("Expected fenced JSON block, got %q", got)
	}
	if !strings.Contains(got, `"foo": "bar"`) {
		t.Errorf("Fenced block should contain the pretty-printed structure, got %q", got)
	}
}

func TestNormalize_NonStringTextField(t *testing.T) {
	// A recognized key with a non-string value cannot be used as text.
	got := Normalize([]byte(`{"response":42}`))
	if !strings.Contains(got, `"response": 42`) {
		t.Errorf("Expected serialized structure, got %q", got)
	}
}

func TestNormalize_EmptyArray(t *testing.T) {
	got := Normalize([]byte(`[]`))
	if !strings.Contains(got, "couldn't find any text") {
		t.Errorf("Expected fallback message, got %q", got)
	}
}

func TestNormalize_Scalar(t *testing.T) {
	got := Normalize([]byte(`12.5`))
	if !strings.Contains(got, "couldn't find any text") || !strings.Contains(got, "12.5") {
		t.Errorf("Fallback should embed the raw structure, got %q", got)
	}
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestClient_Run_PostsPrompt(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"response":"done"}`))
	}))
	defer server.Close()

	text, err := NewClient().Run(context.Background(), "audit my site", server.URL)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if text != "done" {
		t.Errorf("Text = %q, want %q", text, "done")
	}
	if gotBody["prompt"] != "audit my site" {
		t.Errorf("Posted prompt = %q", gotBody["prompt"])
	}
}

func TestClient_Run_BlankURL(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	for _, url := range []string{"", "   "} {
		text, err := NewClient().Run(context.Background(), "prompt", url)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if text != ConfigNeededMessage {
			t.Errorf("Text = %q, want the configuration-needed message", text)
		}
	}
	if calls != 0 {
		t.Errorf("Blank URL made %d network calls, want 0", calls)
	}
}

func TestClient_Run_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	text, err := NewClient().Run(context.Background(), "prompt", server.URL)
	if err != nil {
		t.Fatalf("Run should not return an error: %v", err)
	}
	if !strings.Contains(text, "HTTP 500") {
		t.Errorf("Diagnostic should embed the error detail, got %q", text)
	}
	if !strings.Contains(text, "webhook URL is correct") {
		t.Errorf("Diagnostic should include recovery guidance, got %q", text)
	}
}

func TestClient_Run_UnreachableHost(t *testing.T) {
	text, err := NewClient().Run(context.Background(), "prompt", "http://127.0.0.1:1/nope")
	if err != nil {
		t.Fatalf("Run should not return an error: %v", err)
	}
	if !strings.Contains(text, "Sorry, I couldn't get a response") {
		t.Errorf("Expected diagnostic text, got %q", text)
	}
}
