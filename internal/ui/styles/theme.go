// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble  lipgloss.Style
	ModelBubble lipgloss.Style
	ErrorBubble lipgloss.Style
	ImageBadge  lipgloss.Style

	// ==========================================================================
	// SIDEBAR (CHAT LIST) STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarTitle     lipgloss.Style
	ChatItem         lipgloss.Style
	ChatItemSelected lipgloss.Style
	ChatItemMeta     lipgloss.Style

	// ==========================================================================
	// SOURCES PANEL STYLES
	// ==========================================================================

	SourcesPanel  lipgloss.Style
	SourcesHeader lipgloss.Style
	SourceTitle   lipgloss.Style
	SourceURI     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	AttachmentTag    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ModeFlash    lipgloss.Style
	ModePro      lipgloss.Style
	ModeSearch   lipgloss.Style
	ModeAgent    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	InfoStyle    lipgloss.Style
	LinkStyle    lipgloss.Style
}

// NewTheme creates a theme, detecting dark/light from the terminal.
// theme is the configured preference: "dark", "light", or "auto".
func NewTheme(theme string) *Theme {
	colorProfile := termenv.ColorProfile()

	isDark := termenv.HasDarkBackground()
	switch theme {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.ModelBubble = lipgloss.NewStyle().
		Foreground(ModelBubbleFg).
		Background(ModelBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ModelBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		BorderLeft(true).
		PaddingLeft(2)

	t.ImageBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 1).
		Bold(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.ChatItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ChatItemSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.ChatItemMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Sources panel
	t.SourcesPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1)

	t.SourcesHeader = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.SourceTitle = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SourceURI = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.AttachmentTag = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Blue).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ModeFlash = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ModePro = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.ModeSearch = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ModeAgent = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Status styles
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GetLayoutMode returns the current layout mode based on width. The
// sidebar is hidden below LayoutWide.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// ModeStyle returns the status-bar style for a backend mode name.
func (t *Theme) ModeStyle(mode string) lipgloss.Style {
	switch mode {
	case "pro":
		return t.ModePro
	case "web-search":
		return t.ModeSearch
	case "agent":
		return t.ModeAgent
	default:
		return t.ModeFlash
	}
}
