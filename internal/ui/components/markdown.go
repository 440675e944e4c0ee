// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Markdown renders answer text with glamour. Renderers are cached per wrap
// width since building one parses a full style sheet.
type Markdown struct {
	enabled bool
	style   string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a renderer. With enabled false, Render returns its
// input unchanged.
func NewMarkdown(enabled, dark bool) *Markdown {
	style := "light"
	if dark {
		style = "dark"
	}
	return &Markdown{
		enabled:   enabled,
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render formats text wrapped to width. Any renderer failure falls back to
// the plain text.
func (m *Markdown) Render(text string, width int) string {
	if m == nil || !m.enabled || strings.TrimSpace(text) == "" {
		return text
	}
	if width < 20 {
		width = 20
	}

	m.mu.Lock()
	r, ok := m.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.mu.Unlock()
			return text
		}
		m.renderers[width] = r
	}
	m.mu.Unlock()

	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
