// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// ToastKind selects the toast color.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// DefaultToastTTL is how long a toast stays up.
const DefaultToastTTL = 4 * time.Second

// ToastExpiredMsg clears the toast with the matching sequence number.
type ToastExpiredMsg struct{ Seq int }

// Toast is a one-line status message.
type Toast struct {
	Text string
	Kind ToastKind

	seq   int
	theme *styles.Theme
}

// NewToast creates an empty toast.
func NewToast(theme *styles.Theme) *Toast {
	return &Toast{theme: theme}
}

// Show displays text and returns the command that expires it.
func (t *Toast) Show(text string, kind ToastKind) tea.Cmd {
	t.seq++
	t.Text = text
	t.Kind = kind
	seq := t.seq
	return tea.Tick(DefaultToastTTL, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Seq: seq}
	})
}

// Expire clears the toast if msg belongs to the latest Show.
func (t *Toast) Expire(msg ToastExpiredMsg) {
	if msg.Seq == t.seq {
		t.Text = ""
	}
}

// View renders the toast.
func (t *Toast) View() string {
	if t.Text == "" {
		return ""
	}
	switch t.Kind {
	case ToastError:
		return t.theme.Error.Render("✗ " + t.Text)
	case ToastSuccess:
		return t.theme.Success.Render("✓ " + t.Text)
	default:
		return t.theme.Muted.Render(t.Text)
	}
}
