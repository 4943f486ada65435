// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT LIST SIDEBAR
// =============================================================================

// Sidebar renders the chat list, newest chat first, with the active
// chat highlighted.
type Sidebar struct {
	theme  *styles.Theme
	width  int
	height int
}

// NewSidebar creates a sidebar using the given theme.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme, width: 24}
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the configured sidebar width.
func (s *Sidebar) Width() int {
	return s.width
}

// Render renders the chat list. The order of chats is preserved as
// given (the store already lists newest first).
func (s *Sidebar) Render(chats []*model.Chat, activeID string) string {
	inner := s.width - 3 // border + padding
	if inner < 4 {
		inner = 4
	}

	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render(PadWidth("Chats", inner)))
	b.WriteString("\n")

	// Leave room for the title line.
	visible := s.height - 1
	if visible < 1 {
		visible = len(chats)
	}

	for i, chat := range chats {
		if i >= visible {
			break
		}
		title := TruncateWidth(chat.DisplayTitle(), inner-2)
		style := s.theme.ChatItem
		if chat.ID == activeID {
			style = s.theme.ChatItemSelected
		}
		b.WriteString(style.Render(PadWidth(title, inner-2)))
		b.WriteString("\n")
	}

	return s.theme.Sidebar.
		Width(s.width).
		Height(s.height).
		Render(strings.TrimRight(b.String(), "\n"))
}

// JoinSidebar places the sidebar beside the main content.
func JoinSidebar(sidebar, content string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
}
