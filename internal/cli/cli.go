// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and help text for gemchat.
package cli

import (
	"fmt"
	"runtime"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdConfig
	CmdVersion
	CmdHelp
)

const usageText = `gemchat - Gemini chat for the terminal

Gemchat is a terminal client for Google's Gemini models with chat,
web-search grounding, image generation and an n8n agent mode.

Usage:
  gemchat                    Start the TUI (default)
  gemchat ask "question"     Ask a single question and exit
  gemchat chat               Interactive chat without the full TUI
  gemchat config             Show the resolved configuration
  gemchat version            Show version information
  gemchat help               Show this help

Ask flags:
  --mode <name>    Backend mode: flash, pro, search, agent
  --image <path>   Attach an image file to the prompt
  --system <text>  System instruction for this request
  --plain          Plain text output (no markdown rendering)

Prompts:
  /generate <prompt>   Generate an image from the prompt
  /edit <prompt>       Edit the attached image (requires --image)

Configuration:
  ~/.gemchat/config.toml (or config.json)
  GEMINI_API_KEY           Gemini API key (required)
  N8N_WEBHOOK_URL          Webhook URL for agent mode
  GEMCHAT_DEFAULT_MODE     Startup mode (flash, pro, search, agent)
  GEMCHAT_THEME            dark, light or auto
`

// ParseArgs maps raw arguments to a command and its parser.
// No arguments selects the TUI.
func ParseArgs(raw []string) (Command, *ArgParser) {
	parser := NewArgParser(raw)

	if parser.BoolFlag("version") {
		return CmdVersion, parser
	}
	if parser.BoolFlag("help") || parser.BoolFlag("h") {
		return CmdHelp, parser
	}

	switch parser.Subcommand() {
	case "":
		return CmdTUI, parser
	case "ask":
		return CmdAsk, parser
	case "chat":
		return CmdChat, parser
	case "config":
		return CmdConfig, parser
	case "version", "v":
		return CmdVersion, parser
	case "help":
		return CmdHelp, parser
	default:
		// Unknown subcommand: treat the whole line as an ask prompt,
		// so "gemchat what is Go?" just works.
		return CmdAsk, prependAsk(raw)
	}
}

// prependAsk re-parses the arguments with an implicit "ask"
// subcommand.
func prependAsk(raw []string) *ArgParser {
	args := make([]string, 0, len(raw)+1)
	args = append(args, "ask")
	args = append(args, raw...)
	return NewArgParser(args)
}

// PrintUsage writes the top-level help text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information.
func PrintVersion() {
	fmt.Printf("gemchat %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
	fmt.Printf("  %s/%s, %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
}
