// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface. The
// input line keeps focus at all times, so every binding uses a control
// or navigation key that the text input does not consume.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Submit        key.Binding
	NewChat       key.Binding
	NextChat      key.Binding
	PrevChat      key.Binding
	CycleMode     key.Binding
	ToggleSidebar key.Binding
	ToggleSources key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat
// interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("Up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("Down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		NextChat: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("C-Down", "next chat"),
		),
		PrevChat: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("C-Up", "previous chat"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("ctrl+r", "tab"),
			key.WithHelp("Tab/C-r", "cycle mode"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("C-b", "toggle sidebar"),
		),
		ToggleSources: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "toggle sources"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g", "f1"),
			key.WithHelp("C-g", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.CycleMode, k.NewChat, k.Help, k.Quit}
}

// FullHelp returns all bindings, grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.NewChat, k.NextChat, k.PrevChat},
		{k.Submit, k.CycleMode, k.ToggleSidebar, k.ToggleSources},
		{k.Help, k.Quit},
	}
}
