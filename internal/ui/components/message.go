// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// UpgradeAction is the inline call to action under an upgrade message.
const UpgradeAction = "View plans"

// MessageView renders chat messages as bubbles.
type MessageView struct {
	Width int

	theme *styles.Theme
	md    *Markdown
}

// NewMessageView creates a message renderer. md may be nil.
func NewMessageView(theme *styles.Theme, md *Markdown) *MessageView {
	return &MessageView{Width: 80, theme: theme, md: md}
}

// RenderAll renders msgs top to bottom with a blank line between them.
func (v *MessageView) RenderAll(msgs []model.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, v.Render(m))
	}
	return strings.Join(parts, "\n\n")
}

// Render renders one message.
func (v *MessageView) Render(m model.Message) string {
	bubbleWidth := v.Width * 3 / 4
	if bubbleWidth < 30 {
		bubbleWidth = clamp(v.Width-2, 10, 30)
	}
	textWidth := bubbleWidth - 4

	name := v.theme.SenderName.Render(m.Sender.DisplayName())
	stamp := v.theme.Meta.Render(m.Timestamp.Format("15:04"))
	head := name + " " + stamp

	if m.IsUser() {
		body := v.theme.UserBubble.Width(bubbleWidth).Render(m.Text)
		return lipgloss.PlaceHorizontal(v.Width, lipgloss.Right,
			lipgloss.JoinVertical(lipgloss.Right, head, body))
	}

	var style lipgloss.Style
	var text string
	switch {
	case m.UpgradeRequired:
		style = v.theme.UpgradeBubble
		text = m.Text + "\n\n" + v.theme.Link.Render(UpgradeAction) +
			v.theme.Muted.Render("  (ctrl+u)")
	case m.IsError:
		style = v.theme.ErrorBubble
		text = m.Text
	default:
		style = v.theme.BotBubble
		text = v.md.Render(m.Text, textWidth)
	}

	lines := []string{head, style.Width(bubbleWidth).Render(text)}
	if len(m.Sources) > 0 {
		lines = append(lines, v.theme.Muted.Render("Sources: ")+v.theme.Source.Render(strings.Join(m.Sources, ", ")))
	}
	if meta := m.Meta(); meta != "" {
		lines = append(lines, v.theme.Meta.Render(meta)+v.vote(m))
	} else if m.Votable() {
		lines = append(lines, v.vote(m))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *MessageView) vote(m model.Message) string {
	if !m.Votable() {
		return ""
	}
	switch m.Vote {
	case model.VoteUp:
		return "  " + v.theme.VoteUp.Render("+1 helpful")
	case model.VoteDown:
		return "  " + v.theme.VoteDown.Render("-1 not helpful")
	default:
		return "  " + v.theme.Muted.Render("rate: ctrl+y / ctrl+n")
	}
}
