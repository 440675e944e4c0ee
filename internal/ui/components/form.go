// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// Field describes one form input.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Secret      bool
}

// Form is a vertical list of labelled inputs. Tab and shift+tab move focus;
// errors are shown under the field they belong to.
type Form struct {
	fields []Field
	inputs []textinput.Model
	errs   map[string]string
	focus  int
	width  int
	theme  *styles.Theme
}

// NewForm creates a form with the first field focused.
func NewForm(theme *styles.Theme, fields ...Field) *Form {
	f := &Form{
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
		errs:   make(map[string]string),
		width:  50,
		theme:  theme,
	}
	for i, fd := range fields {
		ti := textinput.New()
		ti.Placeholder = fd.Placeholder
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 40
		if fd.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// Init starts the cursor blinking.
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// SetWidth sets the outer width.
func (f *Form) SetWidth(width int) {
	f.width = width
	for i := range f.inputs {
		f.inputs[i].Width = clamp(width-6, 10, 60)
	}
}

// Value returns the text of the field with key.
func (f *Form) Value(key string) string {
	for i, fd := range f.fields {
		if fd.Key == key {
			return f.inputs[i].Value()
		}
	}
	return ""
}

// SetValue replaces the text of the field with key.
func (f *Form) SetValue(key, value string) {
	for i, fd := range f.fields {
		if fd.Key == key {
			f.inputs[i].SetValue(value)
		}
	}
}

// SetError shows msg under key. An empty msg clears it.
func (f *Form) SetError(key, msg string) {
	if msg == "" {
		delete(f.errs, key)
		return
	}
	f.errs[key] = msg
}

// ClearErrors removes every field error.
func (f *Form) ClearErrors() {
	f.errs = make(map[string]string)
}

// Focused returns the key of the focused field.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].Key
}

// OnLast reports whether focus is on the last field.
func (f *Form) OnLast() bool {
	return f.focus == len(f.fields)-1
}

// Next moves focus forward, wrapping.
func (f *Form) Next() tea.Cmd {
	return f.move(1)
}

// Prev moves focus backward, wrapping.
func (f *Form) Prev() tea.Cmd {
	return f.move(-1)
}

func (f *Form) move(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.inputs[f.focus].Focus()
}

// Update forwards msg to the focused input.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// View renders every field.
func (f *Form) View() string {
	var b strings.Builder
	for i, fd := range f.fields {
		b.WriteString(f.theme.Label.Render(fd.Label))
		b.WriteString("\n")
		style := f.theme.Input
		if i == f.focus {
			style = f.theme.InputFocused
		}
		b.WriteString(style.Width(clamp(f.width-2, 14, 64)).Render(f.inputs[i].View()))
		b.WriteString("\n")
		if msg, ok := f.errs[fd.Key]; ok {
			b.WriteString(f.theme.Error.Render(msg))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
