// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// DISPLAY WIDTH
// =============================================================================

// TruncateWidth shortens s to at most maxWidth terminal columns, appending an
// ellipsis when something was cut. Wide (CJK) runes count as two columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads s with spaces up to width columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// StringWidth returns the number of terminal columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// WrapWidth word-wraps each line of s to at most width columns. Existing
// newlines are kept and words wider than width get a line of their own.
func WrapWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		col := 0
		for j, word := range strings.Fields(line) {
			w := runewidth.StringWidth(word)
			switch {
			case j == 0:
			case col+1+w > width:
				b.WriteByte('\n')
				col = 0
			default:
				b.WriteByte(' ')
				col++
			}
			b.WriteString(word)
			col += w
		}
	}
	return b.String()
}

// =============================================================================
// TEXT NORMALIZATION
// =============================================================================

// NormalizeInput trims surrounding whitespace and converts s to Unicode NFC,
// so the same question typed on different platforms reaches the backend as
// identical bytes.
func NormalizeInput(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// =============================================================================
// HUMAN READABLE FORMATTING
// =============================================================================

// HumanBytes formats a byte count for display ("1.2 MB").
func HumanBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// HumanCount formats an integer with thousands separators ("5,000").
func HumanCount(n int) string {
	return humanize.Comma(int64(n))
}
