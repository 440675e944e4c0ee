// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// =============================================================================
// INPUT AREA COMPONENT
// =============================================================================

// DefaultMaxChars caps a question.
const DefaultMaxChars = 4000

// InputArea is a bordered text input with a character counter.
type InputArea struct {
	input    textinput.Model
	maxChars int
	width    int
	theme    *styles.Theme
}

// NewInputArea creates an input with placeholder text.
func NewInputArea(theme *styles.Theme, placeholder string) *InputArea {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = DefaultMaxChars
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.Walnut).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Walnut)

	return &InputArea{
		input:    ti,
		maxChars: DefaultMaxChars,
		width:    80,
		theme:    theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	return i.input.Focus()
}

// Blur removes focus from the input.
func (i *InputArea) Blur() {
	i.input.Blur()
}

// Focused reports whether the input has focus.
func (i *InputArea) Focused() bool {
	return i.input.Focused()
}

// SetWidth sets the outer width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	i.input.Width = clamp(width-16, 10, 200)
}

// Value returns the current text.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue replaces the text.
func (i *InputArea) SetValue(v string) {
	i.input.SetValue(v)
}

// Reset clears the text.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// Update forwards msg to the text input.
func (i *InputArea) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return cmd
}

// View renders the input with its counter.
func (i *InputArea) View() string {
	n := len([]rune(i.input.Value()))
	counter := i.theme.Muted.Render(fmt.Sprintf("%d/%d", n, i.maxChars))
	if n > i.maxChars*9/10 {
		counter = i.theme.Warning.Render(fmt.Sprintf("%d/%d", n, i.maxChars))
	}

	style := i.theme.Input
	if i.input.Focused() {
		style = i.theme.InputFocused
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, i.input.View(), "  ", counter)
	return style.Width(clamp(i.width-2, 20, 400)).Render(row)
}
