// styles.go - Shared lipgloss styles for CLI output.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Violet).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	sourceStyle = lipgloss.NewStyle().
			Foreground(styles.LinkColor).
			Underline(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// RenderConditional applies the style only when colors are enabled,
// so piped output stays plain.
func RenderConditional(style lipgloss.Style, text string) string {
	if !ColorsEnabled() {
		return text
	}
	return style.Render(text)
}

// RenderSeparator returns a horizontal rule sized to the terminal.
func RenderSeparator() string {
	return RenderConditional(infoStyle, strings.Repeat("-", TerminalWidth()))
}
