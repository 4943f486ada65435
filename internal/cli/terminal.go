// terminal.go - TTY detection and terminal capabilities for CLI output.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is attached to a terminal.
// Piped output gets plain text without ANSI styling.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// TERMINAL SIZE
// =============================================================================

const (
	defaultTermWidth = 80
	minTermWidth     = 40
	maxRenderWidth   = 110
)

// TerminalWidth returns the current terminal width, clamped to a range
// that renders markdown legibly. Falls back to 80 columns when the size
// cannot be determined.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	if w < minTermWidth {
		return minTermWidth
	}
	if w > maxRenderWidth {
		return maxRenderWidth
	}
	return w
}

// =============================================================================
// COLOR SUPPORT
// =============================================================================

var (
	colorsOnce   sync.Once
	colorProfile termenv.Profile
)

// ColorsEnabled reports whether ANSI colors should be emitted.
// Colors are disabled for non-TTY output and when NO_COLOR is set.
func ColorsEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !IsStdoutTTY() {
		return false
	}
	return ColorProfile() != termenv.Ascii
}

// ColorProfile returns the detected terminal color profile.
func ColorProfile() termenv.Profile {
	colorsOnce.Do(func() {
		colorProfile = termenv.ColorProfile()
	})
	return colorProfile
}
