// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/session"
)

// =============================================================================
// PIPELINE COMMANDS
// =============================================================================

// sendCmd runs the send pipeline off the UI thread and reports back.
func sendCmd(p *session.Pipeline, chatID string, mode model.Mode, prompt, image string) tea.Cmd {
	return func() tea.Msg {
		result, err := p.Send(context.Background(), chatID, mode, prompt, image)
		return SendResultMsg{ChatID: chatID, Result: result, Err: err}
	}
}

// statusExpireCmd arms the expiry timer for a temporary status line.
func statusExpireCmd(seq int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return StatusExpireMsg{Seq: seq}
	})
}

// =============================================================================
// IMAGE ATTACHMENTS
// =============================================================================

// attachmentToken marks an inline image attachment in the input, e.g.
// "describe this @image:/tmp/photo.png".
const attachmentToken = "@image:"

// extractAttachment splits an @image:<path> token out of the prompt.
// Returns the prompt with the token removed and the loaded image as a
// data URI. A prompt without a token passes through unchanged.
func extractAttachment(prompt string) (string, string, error) {
	idx := strings.Index(prompt, attachmentToken)
	if idx < 0 {
		return prompt, "", nil
	}

	rest := prompt[idx+len(attachmentToken):]
	path := rest
	if end := strings.IndexAny(rest, " \t"); end >= 0 {
		path = rest[:end]
		rest = rest[end:]
	} else {
		rest = ""
	}
	if path == "" {
		return prompt, "", fmt.Errorf("missing path after %s", attachmentToken)
	}

	uri, err := loadImageDataURI(path)
	if err != nil {
		return prompt, "", err
	}

	clean := strings.TrimSpace(strings.TrimSpace(prompt[:idx]) + rest)
	return clean, uri, nil
}

// loadImageDataURI reads an image file and encodes it as a data URI.
func loadImageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}
	mime := mimeForPath(path)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// mimeForPath maps an image file extension to its MIME type.
func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// isSlashCommand reports whether the input is a UI-level slash command.
// The /generate and /edit prefixes are NOT commands: they are routed to
// the backends like any other prompt.
func isSlashCommand(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	if !strings.HasPrefix(lower, "/") {
		return false
	}
	name := lower[1:]
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "new", "mode", "system", "webhook", "rename", "delete", "help", "quit":
		return true
	}
	return false
}

// splitCommand separates a slash command into name and argument.
func splitCommand(input string) (string, string) {
	trimmed := strings.TrimSpace(input)
	name := trimmed
	arg := ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		name = trimmed[:i]
		arg = strings.TrimSpace(trimmed[i+1:])
	}
	return strings.ToLower(strings.TrimPrefix(name, "/")), arg
}
