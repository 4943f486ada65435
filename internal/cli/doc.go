// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands
// for gemchat.
//
// # Key Types
//
//   - Command: enumeration of the top-level commands
//   - ArgParser: unified flag and positional argument parsing
//
// # Usage
//
//	cmd, parser := cli.ParseArgs(os.Args[1:])
//	switch cmd {
//	case cli.CmdAsk:
//	    return cli.HandleAskCommand(cfg, parser)
//	case cli.CmdChat:
//	    return cli.HandleChatCommand(cfg, parser)
//	}
//
// The default command (no arguments) starts the full-screen TUI; that
// path is handled in main, not here.
package cli
