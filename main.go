// gemchat - Gemini chat for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/gemchat-tui/internal/cli"
	"github.com/morganforge/gemchat-tui/internal/config"
	"github.com/morganforge/gemchat-tui/internal/gemini"
	"github.com/morganforge/gemchat-tui/internal/router"
	"github.com/morganforge/gemchat-tui/internal/session"
	"github.com/morganforge/gemchat-tui/internal/store"
	"github.com/morganforge/gemchat-tui/internal/ui/chat"
	"github.com/morganforge/gemchat-tui/internal/ui/styles"
	"github.com/morganforge/gemchat-tui/internal/webhook"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.ParseArgs(os.Args[1:])

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case cli.CmdAsk:
		if err := cli.HandleAskCommand(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdChat:
		if err := cli.HandleChatCommand(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfigCommand(cfg, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		if err := runTUI(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// runTUI starts the full-screen chat interface.
func runTUI(cfg *config.Config) error {
	// A missing credential fails before any UI is drawn.
	if err := cfg.RequireAPIKey(); err != nil {
		return fmt.Errorf("%w\n\nSet GEMINI_API_KEY or add it to your config file (gemchat config)", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	client, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		FlashModel:  cfg.Gemini.FlashModel,
		ProModel:    cfg.Gemini.ProModel,
		ImageModel:  cfg.Gemini.ImageModel,
		ImagenModel: cfg.Gemini.ImagenModel,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}
	persister, err := store.NewFilePersister(dataDir)
	if err != nil {
		return err
	}
	s := store.New(persister)
	if err := s.Load(); err != nil {
		return fmt.Errorf("failed to load chats: %w", err)
	}

	// A webhook URL from config seeds the store once; the store copy
	// is the one the user edits with /webhook.
	if cfg.Webhook.URL != "" && s.WebhookURL() == "" {
		s.SetWebhookURL(cfg.Webhook.URL)
	}

	agent := webhook.NewClientWithTimeout(time.Duration(cfg.Webhook.TimeoutSecs) * time.Second)
	pipeline := session.NewPipeline(s, router.New(client, agent))

	theme := styles.NewTheme(cfg.UI.Theme)
	m := chat.New(theme, s, pipeline, cfg.Mode(), cfg.UI.ShowSidebar)

	program := tea.NewProgram(m, tea.WithAltScreen())

	// Hot-reload the config file while the TUI runs. Watch errors are
	// not fatal: the TUI works fine without live reload.
	if path, err := config.ConfigPathTOML(); err == nil {
		watcher, werr := config.NewWatcher(path, 300*time.Millisecond, func(next *config.Config) {
			program.Send(chat.ConfigReloadMsg{
				DefaultMode: next.Mode(),
				WebhookURL:  next.Webhook.URL,
			})
		})
		if werr == nil {
			if werr := watcher.Watch(); werr == nil {
				defer watcher.Close()
			}
		}
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
