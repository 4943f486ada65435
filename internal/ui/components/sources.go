// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/morganforge/gemchat-tui/internal/model"
	"github.com/morganforge/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// GROUNDING SOURCES PANEL
// =============================================================================

// RenderSources renders the grounding citations panel shown after a
// web-search response. Only valid sources (uri and title both present)
// are listed; order is preserved as returned by the backend.
func RenderSources(theme *styles.Theme, sources []model.Source, width int) string {
	valid := model.ValidSources(sources)
	if len(valid) == 0 {
		return ""
	}

	inner := width - 4 // border + padding
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(theme.SourcesHeader.Render("Sources"))
	for i, src := range valid {
		b.WriteString("\n")
		b.WriteString(theme.SourceTitle.Render(
			TruncateWidth(fmt.Sprintf("%d. %s", i+1, src.Title), inner)))
		b.WriteString("\n   ")
		b.WriteString(theme.SourceURI.Render(TruncateWidth(src.URI, inner-3)))
	}

	return theme.SourcesPanel.Width(width).Render(b.String())
}
