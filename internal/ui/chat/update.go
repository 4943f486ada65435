// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/store"
)

// Init starts the input cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all Bubble Tea messages for the chat view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SendResultMsg:
		return m.handleSendResult(msg)

	case StatusExpireMsg:
		if msg.Seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil

	case ConfigReloadMsg:
		return m.handleConfigReload(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// header + input + status
	chrome := 4
	vpHeight := m.height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.sidebar.SetSize(24, vpHeight)
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = vpHeight
	m.input.Width = m.width - 4

	m.rebuildRenderer(m.contentWidth() - 6)
	m.refreshViewport(true)
	return m
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.NewChat):
		m.store.NewChat()
		m.lastSources = nil
		m.showSources = false
		m.refreshViewport(true)
		return m, nil

	case key.Matches(msg, m.keyMap.NextChat):
		return m.selectAdjacentChat(1), nil

	case key.Matches(msg, m.keyMap.PrevChat):
		return m.selectAdjacentChat(-1), nil

	case key.Matches(msg, m.keyMap.CycleMode):
		m.mode = m.mode.Next()
		seq := m.setStatus("Mode: " + m.mode.DisplayName())
		return m, statusExpireCmd(seq)

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		m.viewport.Width = m.contentWidth()
		m.rebuildRenderer(m.contentWidth() - 6)
		m.refreshViewport(false)
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleSources):
		m.showSources = !m.showSources
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfigReload applies a config file change without a restart.
// The mode is not switched while a request is in flight.
func (m Model) handleConfigReload(msg ConfigReloadMsg) (tea.Model, tea.Cmd) {
	if !m.busy {
		m.mode = msg.DefaultMode
	}
	if msg.WebhookURL != "" {
		m.store.SetWebhookURL(msg.WebhookURL)
	}
	seq := m.setStatus("Configuration reloaded")
	return m, statusExpireCmd(seq)
}

// selectAdjacentChat moves the selection within the chat list.
func (m Model) selectAdjacentChat(delta int) Model {
	chats := m.store.List()
	activeID := m.store.ActiveID()
	for i, chat := range chats {
		if chat.ID == activeID {
			next := i + delta
			if next >= 0 && next < len(chats) {
				m.store.Select(chats[next].ID)
				m.lastSources = nil
				m.showSources = false
				m.refreshViewport(true)
			}
			break
		}
	}
	return m
}

// =============================================================================
// SUBMISSION
// =============================================================================

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	if len(raw) == 0 {
		return m, nil
	}

	if isSlashCommand(raw) {
		m.input.SetValue("")
		return m.runSlashCommand(raw)
	}

	if m.busy {
		seq := m.setStatus("Still waiting for the current response...")
		return m, statusExpireCmd(seq)
	}

	prompt, image, err := extractAttachment(raw)
	if err != nil {
		seq := m.setStatus("Attachment error: " + err.Error())
		return m, statusExpireCmd(seq)
	}
	if prompt == "" && image == "" {
		return m, nil
	}

	chatID := m.store.ActiveID()
	if chatID == "" {
		chatID = m.store.NewChat().ID
	}

	m.input.SetValue("")
	m.busy = true
	m.refreshViewport(true)

	return m, tea.Batch(
		sendCmd(m.pipeline, chatID, m.mode, prompt, image),
		m.spinner.Tick,
	)
}

func (m Model) handleSendResult(msg SendResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.Err != nil {
		seq := m.setStatus(msg.Err.Error())
		m.refreshViewport(true)
		return m, statusExpireCmd(seq)
	}

	if msg.Result.ShowSources {
		m.lastSources = msg.Result.ModelMessage.Sources
		m.showSources = true
	}

	m.refreshViewport(true)
	return m, nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m Model) runSlashCommand(input string) (tea.Model, tea.Cmd) {
	name, arg := splitCommand(input)

	switch name {
	case "quit":
		return m, tea.Quit

	case "help":
		m.showHelp = !m.showHelp
		return m, nil

	case "new":
		m.store.NewChat()
		m.lastSources = nil
		m.showSources = false
		m.refreshViewport(true)
		return m, nil

	case "mode":
		mode, err := model.ParseMode(arg)
		if err != nil {
			seq := m.setStatus("Unknown mode: " + arg)
			return m, statusExpireCmd(seq)
		}
		m.mode = mode
		seq := m.setStatus("Mode: " + mode.DisplayName())
		return m, statusExpireCmd(seq)

	case "system":
		chatID := m.store.ActiveID()
		m.store.Update(chatID, store.ChatUpdate{SystemPrompt: &arg})
		seq := m.setStatus("System prompt updated")
		return m, statusExpireCmd(seq)

	case "rename":
		if arg == "" {
			seq := m.setStatus("Usage: /rename <title>")
			return m, statusExpireCmd(seq)
		}
		m.store.Update(m.store.ActiveID(), store.ChatUpdate{Title: &arg})
		seq := m.setStatus("Chat renamed")
		return m, statusExpireCmd(seq)

	case "webhook":
		m.store.SetWebhookURL(arg)
		status := "Webhook URL saved"
		if arg == "" {
			status = "Webhook URL cleared"
		}
		seq := m.setStatus(status)
		return m, statusExpireCmd(seq)

	case "delete":
		return m.deleteLastMessage()
	}

	seq := m.setStatus("Unknown command: /" + name)
	return m, statusExpireCmd(seq)
}

// deleteLastMessage removes the most recent message from the active
// chat.
func (m Model) deleteLastMessage() (tea.Model, tea.Cmd) {
	chat := m.store.Active()
	if chat == nil || len(chat.Messages) == 0 {
		seq := m.setStatus("Nothing to delete")
		return m, statusExpireCmd(seq)
	}
	last := chat.Messages[len(chat.Messages)-1]
	m.pipeline.DeleteMessage(chat.ID, last.ID)
	m.refreshViewport(true)
	seq := m.setStatus("Message deleted")
	return m, statusExpireCmd(seq)
}
