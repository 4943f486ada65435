// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractAttachment(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(imgPath, []byte("fake-png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	prompt, image, err := extractAttachment("describe this @image:" + imgPath + " please")
	if err != nil {
		t.Fatalf("extractAttachment: %v", err)
	}
	if prompt != "describe this please" {
		t.Errorf("prompt = %q", prompt)
	}
	if !strings.HasPrefix(image, "data:image/png;base64,") {
		t.Errorf("image = %q, want png data URI", image)
	}
}

func TestExtractAttachment_NoToken(t *testing.T) {
	prompt, image, err := extractAttachment("just a normal message")
	if err != nil {
		t.Fatalf("extractAttachment: %v", err)
	}
	if prompt != "just a normal message" {
		t.Errorf("prompt = %q", prompt)
	}
	if image != "" {
		t.Errorf("image = %q, want empty", image)
	}
}

func TestExtractAttachment_MissingFile(t *testing.T) {
	_, _, err := extractAttachment("look @image:/nonexistent/path.png")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMimeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"a.gif", "image/gif"},
		{"a.webp", "image/webp"},
		{"a.png", "image/png"},
		{"a.bin", "image/png"},
	}
	for _, tt := range tests {
		if got := mimeForPath(tt.path); got != tt.want {
			t.Errorf("mimeForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsSlashCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/new", true},
		{"/mode pro", true},
		{"/MODE pro", true},
		{"/quit", true},
		{"/generate a sunset", false},
		{"/edit make it blue", false},
		{"hello", false},
		{"/unknowncmd", false},
	}
	for _, tt := range tests {
		if got := isSlashCommand(tt.input); got != tt.want {
			t.Errorf("isSlashCommand(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArg  string
	}{
		{"/mode pro", "mode", "pro"},
		{"/new", "new", ""},
		{"/rename  my chat ", "rename", "my chat"},
		{"/system You are terse.", "system", "You are terse."},
	}
	for _, tt := range tests {
		name, arg := splitCommand(tt.input)
		if name != tt.wantName || arg != tt.wantArg {
			t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)",
				tt.input, name, arg, tt.wantName, tt.wantArg)
		}
	}
}
