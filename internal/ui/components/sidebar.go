// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// SidebarWidth is the column budget for the sidebar including its border.
const SidebarWidth = 18

// Sidebar lists the pages reachable from the navigation menu.
type Sidebar struct {
	Active   nav.Page
	SignedIn bool
	Focused  bool
	Height   int

	cursor int
	theme  *styles.Theme
}

// NewSidebar creates a sidebar with home active.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{Active: nav.PageHome, theme: theme}
}

// Items returns the entries for the current sign-in state.
func (s *Sidebar) Items() []nav.Page {
	if s.SignedIn {
		return []nav.Page{nav.PageHome, nav.PageChat, nav.PageUpload, nav.PagePricing}
	}
	return []nav.Page{nav.PageHome, nav.PageChat, nav.PagePricing, nav.PageLogin, nav.PageSignup}
}

// Focus moves the cursor onto the active page.
func (s *Sidebar) Focus() {
	s.Focused = true
	s.cursor = 0
	for i, p := range s.Items() {
		if p == s.Active {
			s.cursor = i
		}
	}
}

// Blur leaves the sidebar.
func (s *Sidebar) Blur() {
	s.Focused = false
}

// Move shifts the cursor by delta, wrapping around.
func (s *Sidebar) Move(delta int) {
	n := len(s.Items())
	s.cursor = ((s.cursor+delta)%n + n) % n
}

// Selected returns the page under the cursor.
func (s *Sidebar) Selected() nav.Page {
	items := s.Items()
	return items[clamp(s.cursor, 0, len(items)-1)]
}

func label(p nav.Page) string {
	switch p {
	case nav.PageHome:
		return "Home"
	case nav.PageChat:
		return "Chat"
	case nav.PageUpload:
		return "Files"
	case nav.PagePricing:
		return "Plans"
	case nav.PageLogin:
		return "Sign in"
	case nav.PageSignup:
		return "Sign up"
	default:
		return p.String()
	}
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var b strings.Builder
	for i, p := range s.Items() {
		text := label(p)
		switch {
		case s.Focused && i == s.cursor:
			b.WriteString(s.theme.NavFocused.Width(SidebarWidth - 2).Render(text))
		case p == s.Active:
			b.WriteString(s.theme.NavActive.Render(text))
		default:
			b.WriteString(s.theme.NavItem.Render(text))
		}
		b.WriteString("\n")
	}
	style := s.theme.Sidebar.Width(SidebarWidth - 1)
	if s.Height > 0 {
		style = style.Height(s.Height)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}
