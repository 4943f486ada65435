// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/session"
	"github.com/morganforge/gemchat-tui/internal/store"
	"github.com/morganforge/gemchat-tui/internal/ui/components"
	"github.com/morganforge/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Core collaborators
	store    *store.Store
	pipeline *session.Pipeline

	// Selected backend mode
	mode model.Mode

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	sidebar  *components.Sidebar

	// Markdown rendering for model responses
	renderer *glamour.TermRenderer

	// Key bindings
	keyMap KeyMap

	// View state
	busy        bool
	showSidebar bool
	showSources bool
	showHelp    bool
	lastSources []model.Source

	// Temporary status line
	statusMsg string
	statusSeq int
}

// New creates the chat view over a loaded store and pipeline.
func New(theme *styles.Theme, s *store.Store, p *session.Pipeline, mode model.Mode, showSidebar bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message, /generate <prompt>, or /help..."
	ti.CharLimit = 8192
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	return Model{
		theme:       theme,
		store:       s,
		pipeline:    p,
		mode:        mode,
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		sidebar:     components.NewSidebar(theme),
		keyMap:      DefaultKeyMap(),
		showSidebar: showSidebar,
	}
}

// Mode returns the currently selected backend mode.
func (m Model) Mode() model.Mode {
	return m.mode
}

// Busy reports whether a request is in flight.
func (m Model) Busy() bool {
	return m.busy
}

// setStatus shows a temporary status line and returns its sequence
// number for expiry arming.
func (m *Model) setStatus(msg string) int {
	m.statusSeq++
	m.statusMsg = msg
	return m.statusSeq
}

// rebuildRenderer recreates the markdown renderer for a new wrap
// width. Glamour renderers are sized at construction.
func (m *Model) rebuildRenderer(wrap int) {
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

// contentWidth returns the width available to the message viewport.
func (m Model) contentWidth() int {
	w := m.width
	if m.showSidebar && m.theme.GetLayoutMode() == styles.LayoutWide {
		w -= m.sidebar.Width()
	}
	if w < 20 {
		w = 20
	}
	return w
}
