// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the gemchat
// TUI: the chat list sidebar, the grounding sources panel, and width
// helpers for unicode-safe truncation.
package components
