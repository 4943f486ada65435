// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/session"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// SendResultMsg delivers the outcome of a completed send pipeline run.
type SendResultMsg struct {
	ChatID string
	Result session.Result
	Err    error
}

// StatusExpireMsg clears a temporary status line. Seq guards against
// clearing a newer status than the one this expiry was armed for.
type StatusExpireMsg struct {
	Seq int
}

// ConfigReloadMsg is sent by the config file watcher when the
// configuration changes on disk while the TUI is running.
type ConfigReloadMsg struct {
	DefaultMode model.Mode
	WebhookURL  string
}
