// chat.go - Interactive terminal chat without the full-screen TUI.
//
// "gemchat chat" runs a readline-style REPL over the same store and
// pipeline as the TUI. Useful over SSH and in terminals where the
// alt-screen TUI is unwanted.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/morganforge/gemchat-tui/internal/config"
	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/session"
	"github.com/morganforge/gemchat-tui/internal/store"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ReplInput provides input history and line editing for the chat REPL.
type ReplInput struct {
	line        *liner.State
	historyFile string
}

// NewReplInput creates a liner-backed input reader with persistent
// history in the config directory.
func NewReplInput() *ReplInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	r := &ReplInput{
		line:        line,
		historyFile: filepath.Join(configDir, "repl_history"),
	}
	r.loadHistory()
	return r
}

func (r *ReplInput) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (r *ReplInput) ReadInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists history with owner-only permissions.
func (r *ReplInput) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (r *ReplInput) Close() {
	r.saveHistory()
	r.line.Close()
}

// =============================================================================
// REPL SESSION
// =============================================================================

// ReplSession holds the state for an interactive chat REPL.
type ReplSession struct {
	Store    *store.Store
	Pipeline *session.Pipeline
	Mode     model.Mode
	ChatID   string
	Input    *ReplInput

	StartTime time.Time
	Sent      int
}

// NewReplSession wires the store, router and pipeline for the REPL.
func NewReplSession(cfg *config.Config, args *ArgParser) (*ReplSession, error) {
	rt, _, err := buildRouter(cfg)
	if err != nil {
		return nil, err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	persister, err := store.NewFilePersister(dataDir)
	if err != nil {
		return nil, err
	}
	s := store.New(persister)
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("failed to load chats: %w", err)
	}

	mode := cfg.Mode()
	if name := args.Flag("mode"); name != "" {
		parsed, err := model.ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("unknown mode %q", name)
		}
		mode = parsed
	}

	chat := s.NewChat()

	return &ReplSession{
		Store:     s,
		Pipeline:  session.NewPipeline(s, rt),
		Mode:      mode,
		ChatID:    chat.ID,
		Input:     NewReplInput(),
		StartTime: time.Now(),
	}, nil
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles "gemchat chat".
func HandleChatCommand(cfg *config.Config, args *ArgParser) error {
	if !IsTTY() {
		return fmt.Errorf("chat requires an interactive terminal; use 'gemchat ask' for piped input")
	}

	repl, err := NewReplSession(cfg, args)
	if err != nil {
		return err
	}
	defer repl.Input.Close()

	printReplWelcome(repl)

	for {
		input, err := repl.Input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println(infoStyle.Render("(ctrl+c again or /quit to exit)"))
				continue
			}
			// io.EOF on ctrl+d
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if done, err := repl.handleSlashCommand(input); done {
			if err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
			}
			break
		} else if err != nil {
			fmt.Println(warningStyle.Render(err.Error()))
			continue
		} else if isReplCommand(input) {
			continue
		}

		repl.sendPrompt(input)
	}

	printReplExit(repl)
	return nil
}

// sendPrompt runs one prompt through the pipeline and prints the reply.
func (r *ReplSession) sendPrompt(input string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := r.Pipeline.Send(ctx, r.ChatID, r.Mode, input, "")
	if err != nil {
		fmt.Println(errorStyle.Render("error: " + err.Error()))
		return
	}
	r.Sent++

	resp := result.ModelMessage
	fmt.Println()
	if IsStdoutTTY() {
		fmt.Println(renderMarkdown(resp.Text))
	} else {
		fmt.Println(resp.Text)
	}

	if sources := model.ValidSources(resp.Sources); len(sources) > 0 {
		fmt.Println()
		for i, s := range sources {
			fmt.Printf("  [%d] %s - %s\n", i+1, s.Title, RenderConditional(sourceStyle, s.URI))
		}
	}
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// isReplCommand reports whether the input was consumed as a REPL
// command rather than a prompt.
func isReplCommand(input string) bool {
	if !strings.HasPrefix(input, "/") {
		return false
	}
	name := strings.ToLower(strings.TrimPrefix(strings.Fields(input)[0], "/"))
	switch name {
	case "mode", "new", "system", "help", "quit", "exit":
		return true
	}
	return false
}

// handleSlashCommand processes REPL commands. Returns done=true when
// the REPL should exit. The /generate and /edit prefixes fall through
// to the router like any other prompt.
func (r *ReplSession) handleSlashCommand(input string) (bool, error) {
	if !isReplCommand(input) {
		return false, nil
	}

	fields := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	arg := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch name {
	case "quit", "exit":
		return true, nil

	case "help":
		printReplHelp()
		return false, nil

	case "new":
		chat := r.Store.NewChat()
		r.ChatID = chat.ID
		fmt.Println(infoStyle.Render("Started a new chat."))
		return false, nil

	case "mode":
		mode, err := model.ParseMode(arg)
		if err != nil {
			return false, fmt.Errorf("unknown mode %q (valid: flash, pro, search, agent)", arg)
		}
		r.Mode = mode
		fmt.Println(infoStyle.Render("Mode: " + mode.DisplayName()))
		return false, nil

	case "system":
		r.Store.Update(r.ChatID, store.ChatUpdate{SystemPrompt: &arg})
		fmt.Println(infoStyle.Render("System prompt updated."))
		return false, nil
	}

	return false, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func printReplWelcome(r *ReplSession) {
	fmt.Println(welcomeStyle.Render("gemchat"))
	fmt.Println(infoStyle.Render("Mode: " + r.Mode.DisplayName() + "  |  /help for commands, /quit to exit"))
	fmt.Println(RenderSeparator())
}

func printReplHelp() {
	fmt.Println(infoStyle.Render(`Commands:
  /mode <name>    switch backend mode (flash, pro, search, agent)
  /new            start a new chat
  /system <text>  set the system prompt for this chat
  /quit           exit

Prompts starting with "/generate " create an image; "/edit " with an
attached image edits one (TUI only).`))
}

func printReplExit(r *ReplSession) {
	fmt.Println(RenderSeparator())
	fmt.Printf("%s\n", infoStyle.Render(fmt.Sprintf(
		"Session: %d messages in %s",
		r.Sent, time.Since(r.StartTime).Round(time.Second))))
}
