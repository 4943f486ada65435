// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/session"
	"github.com/morganforge/gemchat-tui/internal/ui/components"
	"github.com/morganforge/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
// Layout: header (1 line) + [sidebar | messages] + [sources panel]
// + input + status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()

	body := m.viewport.View()
	if m.showSources && len(m.lastSources) > 0 {
		panel := components.RenderSources(m.theme, m.lastSources, m.contentWidth()-2)
		body = lipgloss.JoinVertical(lipgloss.Left, body, panel)
	}

	if m.showSidebar && m.theme.GetLayoutMode() == styles.LayoutWide {
		sidebar := m.sidebar.Render(m.store.List(), m.store.ActiveID())
		body = components.JoinSidebar(sidebar, body)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		input,
		status,
	)
}

// =============================================================================
// COMPONENTS
// =============================================================================

func (m Model) renderHeader() string {
	title := "gemchat"
	if chat := m.store.Active(); chat != nil {
		title = chat.DisplayTitle()
	}
	left := m.theme.HeaderTitle.Render("gemchat")
	mid := m.theme.HeaderSubtitle.Render(" " + title)
	return m.theme.Header.Width(m.width).Render(left + mid)
}

func (m Model) renderInput() string {
	line := m.input.View()
	if strings.Contains(m.input.Value(), attachmentToken) {
		line += " " + m.theme.AttachmentTag.Render("image")
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}

func (m Model) renderStatusBar() string {
	modeTag := m.theme.ModeStyle(m.mode.String()).Render(m.mode.DisplayName())

	var middle string
	switch {
	case m.busy:
		middle = m.spinner.View() + " " + m.theme.ThinkingText.Render("Thinking...")
	case m.statusMsg != "":
		middle = m.theme.ThinkingText.Render(m.statusMsg)
	default:
		var parts []string
		for _, b := range m.keyMap.ShortHelp() {
			parts = append(parts,
				m.theme.ShortcutKey.Render(b.Help().Key)+" "+
					m.theme.ShortcutDesc.Render(b.Help().Desc))
		}
		middle = strings.Join(parts, "  ")
	}

	return m.theme.StatusBar.Width(m.width).Render(modeTag + "  " + middle)
}

func (m Model) renderHelpOverlay() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				m.theme.ShortcutKey.Render(components.PadWidth(binding.Help().Key, 10)),
				m.theme.ShortcutDesc.Render(binding.Help().Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.HeaderSubtitle.Render("Slash commands: /new /mode /system /rename /webhook /delete /help /quit"))
	b.WriteString("\n")
	b.WriteString(m.theme.HeaderSubtitle.Render("Press C-g to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// refreshViewport re-renders the active chat into the viewport.
func (m *Model) refreshViewport(toBottom bool) {
	chat := m.store.Active()
	if chat == nil {
		m.viewport.SetContent("")
		return
	}

	var b strings.Builder
	if len(chat.Messages) == 0 {
		b.WriteString(m.theme.ThinkingText.Render(
			"Start the conversation, or try /generate <prompt> for an image."))
	}
	for i, msg := range chat.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	if toBottom {
		m.viewport.GotoBottom()
	}
}

// renderMessage renders a single message bubble.
func (m Model) renderMessage(msg model.Message) string {
	width := m.contentWidth() - 8
	if width < 16 {
		width = 16
	}

	var body string
	switch {
	case msg.Role == model.RoleUser:
		body = msg.Text
		if msg.HasImage() {
			body = strings.TrimSpace(m.theme.ImageBadge.Render("image") + " " + body)
		}
		return m.theme.UserBubble.MaxWidth(width).Render(body)

	case msg.Text == session.ErrorText:
		return m.theme.ErrorBubble.MaxWidth(width).Render(msg.Text)

	default:
		body = m.renderMarkdown(msg.Text)
		if msg.HasImage() {
			badge := m.theme.ImageBadge.Render("image: " + formatImageSize(msg.Image))
			body = strings.TrimSpace(body + "\n" + badge)
		}
		if msg.HasSources() {
			note := m.theme.ThinkingText.Render(
				fmt.Sprintf("%d sources (C-o to view)", len(model.ValidSources(msg.Sources))))
			body = body + "\n" + note
		}
		return m.theme.ModelBubble.MaxWidth(width).Render(body)
	}
}

// renderMarkdown renders model response text through glamour, falling
// back to the raw text when rendering fails.
func (m Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

// formatImageSize describes an inline image payload for display.
func formatImageSize(dataURI string) string {
	// Rough decoded size: three quarters of the base64 payload.
	_, payload, found := strings.Cut(dataURI, ",")
	if !found {
		return "attached"
	}
	kb := len(payload) * 3 / 4 / 1024
	if kb < 1 {
		return "<1 KB"
	}
	return fmt.Sprintf("%d KB", kb)
}
