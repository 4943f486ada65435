// ask.go - One-shot prompt command.
//
// "gemchat ask <prompt>" sends a single prompt through the same routing
// pipeline as the TUI and prints the answer to stdout. Markdown is
// rendered with glamour when stdout is a terminal; piped output stays
// plain.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/gemchat-tui/internal/config"
	"github.com/morganforge/gemchat-tui/internal/gemini"
	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/router"
	"github.com/morganforge/gemchat-tui/internal/webhook"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAskCommand handles "gemchat ask <prompt>".
//
// Flags:
//
//	--mode <name>     backend mode (flash, pro, search, agent)
//	--image <path>    attach an image file
//	--system <text>   system instruction for this request
//	--plain           disable markdown rendering
func HandleAskCommand(cfg *config.Config, args *ArgParser) error {
	prompt := JoinPositionalArgs(args, 1)
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("usage: gemchat ask [--mode <name>] [--image <path>] <prompt>")
	}

	mode := cfg.Mode()
	if name := args.Flag("mode"); name != "" {
		parsed, err := model.ParseMode(name)
		if err != nil {
			return fmt.Errorf("unknown mode %q (valid: flash, pro, search, agent)", name)
		}
		mode = parsed
	}

	var image string
	if path := args.Flag("image"); path != "" {
		uri, err := encodeImageFile(path)
		if err != nil {
			return err
		}
		image = uri
	}

	rt, webhookURL, err := buildRouter(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	resp, err := rt.Route(ctx, router.Request{
		Prompt:       prompt,
		Image:        image,
		Mode:         mode,
		SystemPrompt: args.Flag("system"),
		WebhookURL:   webhookURL,
	})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	printResponse(resp, args.BoolFlag("plain"))
	return nil
}

// buildRouter constructs the backend router from configuration.
// Returns the router and the configured webhook URL.
func buildRouter(cfg *config.Config) (*router.Router, string, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		FlashModel:  cfg.Gemini.FlashModel,
		ProModel:    cfg.Gemini.ProModel,
		ImageModel:  cfg.Gemini.ImageModel,
		ImagenModel: cfg.Gemini.ImagenModel,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	agent := webhook.NewClientWithTimeout(time.Duration(cfg.Webhook.TimeoutSecs) * time.Second)
	return router.New(client, agent), cfg.Webhook.URL, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// printResponse writes the routed response to stdout.
func printResponse(resp router.Response, plain bool) {
	text := resp.Text
	if !plain && IsStdoutTTY() {
		text = renderMarkdown(text)
	}
	fmt.Println(strings.TrimRight(text, "\n"))

	if resp.Image != "" {
		fmt.Println(RenderConditional(infoStyle, "[image data returned; use the TUI to view it]"))
	}

	if sources := model.ValidSources(resp.Sources); len(sources) > 0 {
		fmt.Println()
		fmt.Println(RenderConditional(infoStyle, "Sources:"))
		for i, s := range sources {
			fmt.Printf("  %d. %s\n     %s\n",
				i+1,
				RenderConditional(infoStyle, s.Title),
				RenderConditional(sourceStyle, s.URI))
		}
	}
}

// renderMarkdown renders response text through glamour, falling back
// to raw text on failure.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(TerminalWidth()),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

// encodeImageFile reads an image file and encodes it as a data URI.
func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}

	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".gif":
		mime = "image/gif"
	case ".webp":
		mime = "image/webp"
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
