// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand, page title, plan badge and quota.
type Header struct {
	Title     string
	PageTitle string
	Tier      plan.Tier
	Used      int
	SignedIn  bool
	Width     int

	bar   progress.Model
	theme *styles.Theme
}

// NewHeader creates a header for an anonymous free user.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "Moe",
		Tier:  plan.Free,
		Width: 80,
		bar: progress.New(
			progress.WithGradient("#D9A066", "#7C4A1E"),
			progress.WithWidth(16),
			progress.WithoutPercentage(),
		),
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetPlan updates the tier and how many queries have been used this period.
func (h *Header) SetPlan(tier plan.Tier, used int) {
	h.Tier = tier
	h.Used = used
}

// QuotaFraction is the share of the period's quota still available, or -1
// for unlimited plans.
func (h *Header) QuotaFraction() float64 {
	q := plan.QuotaFor(h.Tier)
	if q.Unlimited || q.Limit <= 0 {
		return -1
	}
	left, _ := plan.Remaining(h.Tier, h.Used)
	return float64(left) / float64(q.Limit)
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	inner := width - 4

	left := h.theme.Brand.Render(h.Title)
	if h.PageTitle != "" {
		left += h.theme.Subtitle.Render("  " + h.PageTitle)
	}

	right := []string{h.theme.Badge(h.Tier.String(), h.Tier.DisplayName())}
	hint := plan.QuotaHint(h.Tier, h.Used)
	if frac := h.QuotaFraction(); frac >= 0 {
		right = append(right, h.bar.ViewAs(frac))
		if frac <= 0.2 {
			hint = h.theme.Warning.Render(hint)
		} else {
			hint = h.theme.Subtitle.Render(hint)
		}
	} else {
		hint = h.theme.Success.Render(hint)
	}
	right = append(right, hint)
	if !h.SignedIn {
		right = append(right, h.theme.Muted.Render("guest"))
	}
	rightStr := strings.Join(right, " ")

	gap := inner - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if gap < 1 {
		// Too narrow: drop the page title, then the bar.
		left = h.theme.Brand.Render(h.Title)
		gap = inner - lipgloss.Width(left) - lipgloss.Width(rightStr)
		if gap < 1 {
			gap = 1
		}
	}
	line := left + strings.Repeat(" ", gap) + rightStr
	return h.theme.Header.Width(width - 2).Render(line)
}
