// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted from config.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// CHROME
	// ==========================================================================

	App        lipgloss.Style
	Header     lipgloss.Style
	Brand      lipgloss.Style
	Subtitle   lipgloss.Style
	Footer     lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
	PageTitle  lipgloss.Style
	Sidebar    lipgloss.Style
	NavItem    lipgloss.Style
	NavActive  lipgloss.Style
	NavFocused lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserBubble    lipgloss.Style
	BotBubble     lipgloss.Style
	ErrorBubble   lipgloss.Style
	UpgradeBubble lipgloss.Style
	SenderName    lipgloss.Style
	Meta          lipgloss.Style
	Source        lipgloss.Style
	VoteUp        lipgloss.Style
	VoteDown      lipgloss.Style
	Thinking      lipgloss.Style

	// ==========================================================================
	// FORMS AND CARDS
	// ==========================================================================

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Price        lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Link    lipgloss.Style
}

// NewTheme creates a theme for mode. Auto follows the terminal background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var dark bool
	switch strings.ToLower(mode) {
	case ModeDark:
		dark = true
	case ModeLight:
		dark = false
	default:
		dark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(dark)

	t := &Theme{
		IsDark:       dark,
		ColorProfile: profile,
		Width:        80,
		Height:       24,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Foreground(TextPrimary)

	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Walnut).
		Padding(0, 1)
	t.Brand = lipgloss.NewStyle().Bold(true).Foreground(Walnut)
	t.Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(TextMuted).PaddingLeft(1)
	t.HelpKey = lipgloss.NewStyle().Foreground(Maple).Bold(true)
	t.HelpDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.PageTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary).MarginBottom(1)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)
	t.NavItem = lipgloss.NewStyle().Foreground(TextSecondary).PaddingLeft(2)
	t.NavActive = lipgloss.NewStyle().Foreground(Walnut).Bold(true).PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).BorderLeft(true).BorderForeground(Walnut)
	t.NavFocused = lipgloss.NewStyle().Foreground(TextInverse).Background(Maple).PaddingLeft(2)

	t.UserBubble = lipgloss.NewStyle().
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.BotBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 1)
	t.ErrorBubble = t.BotBubble.
		BorderForeground(Rose).
		Foreground(Rose)
	t.UpgradeBubble = t.BotBubble.
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber)
	t.SenderName = lipgloss.NewStyle().Bold(true).Foreground(Walnut)
	t.Meta = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.Source = lipgloss.NewStyle().Foreground(Maple)
	t.VoteUp = lipgloss.NewStyle().Foreground(Sage).Bold(true)
	t.VoteDown = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.Thinking = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputFocused = t.Input.BorderForeground(Walnut)
	t.Label = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceBright).
		Padding(0, 2)
	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Walnut).
		Bold(true).
		Padding(0, 2)
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		Width(26)
	t.CardSelected = t.Card.BorderForeground(Walnut)
	t.Price = lipgloss.NewStyle().Bold(true).Foreground(Walnut)

	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
	t.Success = lipgloss.NewStyle().Foreground(Sage)
	t.Error = lipgloss.NewStyle().Foreground(Rose)
	t.Warning = lipgloss.NewStyle().Foreground(Amber)
	t.Link = lipgloss.NewStyle().Foreground(Maple).Underline(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	// LayoutNarrow hides the sidebar.
	LayoutNarrow LayoutMode = iota
	// LayoutWide shows the sidebar next to the page.
	LayoutWide
)

// Layout returns the layout mode for the current width.
func (t *Theme) Layout() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	return LayoutWide
}

// Badge renders a tier badge.
func (t *Theme) Badge(tier, label string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(TierColor(tier)).
		Bold(true).
		Padding(0, 1).
		Render(label)
}
