// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// =============================================================================
// BACKEND MODE
// =============================================================================

// Mode selects the backend capability the router dispatches to.
//
// The image commands (/generate, /edit) are reached via prompt prefixes
// regardless of the selected mode, so they have no mode of their own.
type Mode int

const (
	// ModeFlash is the fast conversational tier.
	ModeFlash Mode = iota
	// ModePro is the capable conversational tier.
	ModePro
	// ModeWebSearch grounds responses in web search results.
	ModeWebSearch
	// ModeAgent forwards the prompt to the configured n8n workflow webhook.
	ModeAgent
)

// AllModes lists every mode in selector order.
func AllModes() []Mode {
	return []Mode{ModeFlash, ModePro, ModeWebSearch, ModeAgent}
}

// String returns the stable identifier for the mode.
func (m Mode) String() string {
	switch m {
	case ModeFlash:
		return "flash"
	case ModePro:
		return "pro"
	case ModeWebSearch:
		return "web-search"
	case ModeAgent:
		return "agent"
	default:
		return "unknown"
	}
}

// DisplayName returns the name shown in the mode selector.
func (m Mode) DisplayName() string {
	switch m {
	case ModeFlash:
		return "Gemini Flash"
	case ModePro:
		return "Gemini Pro"
	case ModeWebSearch:
		return "Web Search"
	case ModeAgent:
		return "n8n Agent"
	default:
		return "Unknown"
	}
}

// IsChat reports whether the mode is one of the conversational tiers.
func (m Mode) IsChat() bool {
	return m == ModeFlash || m == ModePro
}

// Next cycles to the following mode, wrapping around.
func (m Mode) Next() Mode {
	modes := AllModes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return ModeFlash
}

// ParseMode parses a mode identifier as accepted on the command line and in
// slash commands. Model IDs are accepted as aliases for their tier.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "flash", "gemini-2.5-flash":
		return ModeFlash, nil
	case "pro", "gemini-2.5-pro":
		return ModePro, nil
	case "web-search", "search", "web":
		return ModeWebSearch, nil
	case "agent", "n8n", "n8n-agent":
		return ModeAgent, nil
	}
	return ModeFlash, fmt.Errorf("unknown mode %q (expected flash, pro, web-search, or agent)", s)
}
