// config_cmd.go - "gemchat config" resolved-configuration display.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/morganforge/gemchat-tui/internal/config"
)

// HandleConfigCommand handles "gemchat config". It prints the resolved
// configuration with the API key redacted.
func HandleConfigCommand(cfg *config.Config, args *ArgParser) error {
	path := "(defaults)"
	if p, err := config.ConfigPathTOML(); err == nil {
		path = p
	}

	fmt.Println(welcomeStyle.Render("gemchat configuration"))
	fmt.Println(infoStyle.Render("config file: " + path))
	fmt.Println(RenderSeparator())

	fmt.Printf("  default_mode   %s\n", cfg.DefaultMode)
	fmt.Printf("  data_dir       %s\n", cfg.DataDir)
	fmt.Printf("  theme          %s\n", cfg.UI.Theme)
	fmt.Printf("  show_sidebar   %v\n", cfg.UI.ShowSidebar)
	fmt.Println()
	fmt.Printf("  gemini.api_key      %s\n", redactKey(cfg.Gemini.APIKey))
	fmt.Printf("  gemini.flash_model  %s\n", cfg.Gemini.FlashModel)
	fmt.Printf("  gemini.pro_model    %s\n", cfg.Gemini.ProModel)
	fmt.Printf("  gemini.image_model  %s\n", cfg.Gemini.ImageModel)
	fmt.Printf("  gemini.imagen_model %s\n", cfg.Gemini.ImagenModel)
	fmt.Println()
	fmt.Printf("  webhook.url          %s\n", valueOr(cfg.Webhook.URL, "(not set)"))
	fmt.Printf("  webhook.timeout_secs %d\n", cfg.Webhook.TimeoutSecs)

	return nil
}

// redactKey shows only the last four characters of a credential.
func redactKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
