// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/ui/styles"
)

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"zero width", "hello", 0, ""},
		{"tiny width", "hello", 2, "he"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWidth(tt.in, tt.width); got != tt.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateWidth_WideRunes(t *testing.T) {
	// CJK runes occupy two cells each.
	got := TruncateWidth("日本語のテキスト", 8)
	if w := runewidth.StringWidth(got); w > 8 {
		t.Errorf("Truncated width = %d cells, want <= 8 (%q)", w, got)
	}
}

func TestPadWidth(t *testing.T) {
	got := PadWidth("ab", 5)
	if got != "ab   " {
		t.Errorf("PadWidth = %q", got)
	}
	if w := runewidth.StringWidth(PadWidth("日本語テキスト", 6)); w != 6 {
		t.Errorf("Padded wide string width = %d, want 6", w)
	}
}

func TestRenderSources_FiltersInvalid(t *testing.T) {
	theme := styles.NewTheme("dark")
	sources := []model.Source{
		{URI: "https://a.example", Title: "Article A"},
		{URI: "", Title: "no uri"},
	}

	out := RenderSources(theme, sources, 60)
	if !strings.Contains(out, "Article A") {
		t.Error("Panel should list the valid source")
	}
	if strings.Contains(out, "no uri") {
		t.Error("Panel must not list sources missing a URI")
	}
}

func TestRenderSources_EmptyWhenNoneValid(t *testing.T) {
	theme := styles.NewTheme("dark")
	if out := RenderSources(theme, []model.Source{{Title: "only title"}}, 60); out != "" {
		t.Errorf("Expected empty render, got %q", out)
	}
}

func TestSidebar_HighlightsActive(t *testing.T) {
	theme := styles.NewTheme("dark")
	sb := NewSidebar(theme)
	sb.SetSize(24, 10)

	c1 := model.NewChat()
	c2 := model.NewChat()
	c2.Title = "Trip planning"

	out := sb.Render([]*model.Chat{c2, c1}, c2.ID)
	if !strings.Contains(out, "Trip planning") {
		t.Error("Sidebar should show chat titles")
	}
	if !strings.Contains(out, "Chats") {
		t.Error("Sidebar should show the list title")
	}
}
