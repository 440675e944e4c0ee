// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdulazeez2247/moe/internal/ui/styles"
	"github.com/abdulazeez2247/moe/internal/util"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// HelpLine renders "key desc" pairs separated by dots.
func HelpLine(theme *styles.Theme, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, theme.HelpKey.Render(pairs[i])+" "+theme.HelpDesc.Render(pairs[i+1]))
	}
	return strings.Join(parts, theme.HelpDesc.Render(" · "))
}

// Center places s in the middle of width columns.
func Center(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// Truncate shortens s to width display columns.
func Truncate(s string, width int) string {
	return util.TruncateWidth(s, width)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
