// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the gemchat TUI.
//
// The view is a single Bubble Tea model: a header, an optional chat
// list sidebar, a scrollable message viewport, an optional grounding
// sources panel, the input line, and a status bar. Submissions run
// through the session pipeline; while a request is in flight the input
// stays responsive but further submissions are rejected.
package chat
