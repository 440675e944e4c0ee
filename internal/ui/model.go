// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/app"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/ui/components"
	"github.com/abdulazeez2247/moe/internal/ui/pages"
	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SessionChangedMsg reports that the session flipped between signed in and
// signed out, here or in another process.
type SessionChangedMsg struct {
	Authenticated bool
}

type usageMsg struct {
	usage *api.Usage
	err   error
}

// =============================================================================
// TRANSITION LOG
// =============================================================================

// transitions remembers the latest controller transition. The controller
// calls back from whichever goroutine fired the event.
type transitions struct {
	mu   sync.Mutex
	last nav.Transition
}

func (t *transitions) record(tr nav.Transition) {
	t.mu.Lock()
	t.last = tr
	t.mu.Unlock()
}

func (t *transitions) latest() nav.Transition {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model. It owns the chrome and mounts a fresh
// page whenever the navigation generation changes.
type Model struct {
	app   *app.App
	theme *styles.Theme
	keys  KeyMap
	ctx   *pages.Context

	header  *components.Header
	sidebar *components.Sidebar
	toast   *components.Toast

	page    pages.Page
	mounted nav.Page
	gen     uint64
	trans   *transitions

	used   int
	width  int
	height int
}

// New creates the root model over a.
func New(a *app.App) Model {
	theme := styles.NewTheme(a.Config.UI.Theme)
	trans := &transitions{}
	a.Nav.OnTransition(trans.record)

	m := Model{
		app:     a,
		theme:   theme,
		keys:    DefaultKeyMap(),
		ctx:     pages.NewContext(a, theme),
		header:  components.NewHeader(theme),
		sidebar: components.NewSidebar(theme),
		toast:   components.NewToast(theme),
		trans:   trans,
		width:   theme.Width,
		height:  theme.Height,
	}
	m.mount()
	return m
}

// Page returns the mounted page.
func (m Model) Page() pages.Page { return m.page }

// Mounted returns which navigation page is on screen.
func (m Model) Mounted() nav.Page { return m.mounted }

// Used returns the query count shown in the header.
func (m Model) Used() int { return m.used }

// Init starts the mounted page and loads usage for a signed-in user.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.page.Init(), m.fetchUsage())
}

func (m *Model) mount() {
	m.mounted = m.app.Nav.Page()
	m.gen = m.app.Nav.Generation()
	m.page = pages.Mount(m.ctx, m.mounted)
	m.layout()
	m.app.Log.Debug("page mounted", zap.Stringer("page", m.mounted), zap.Uint64("generation", m.gen))
}

// sync remounts when the controller moved since the last mount and returns
// the new page's start command plus any transition notice.
func (m *Model) sync() tea.Cmd {
	if m.app.Nav.Generation() == m.gen {
		return nil
	}
	m.sidebar.Blur()
	m.mount()
	cmds := []tea.Cmd{m.page.Init()}

	tr := m.trans.latest()
	if tr.Generation != m.gen {
		return tea.Batch(cmds...)
	}
	switch tr.Event {
	case nav.EventUnauthorized:
		cmds = append(cmds, m.toast.Show("Your session has ended. Please sign in again.", components.ToastError))
	case nav.EventLoginSucceeded:
		cmds = append(cmds, m.toast.Show("Signed in", components.ToastSuccess), m.fetchUsage())
	case nav.EventSignupSucceeded:
		cmds = append(cmds, m.toast.Show("Account created", components.ToastSuccess), m.fetchUsage())
	case nav.EventPaymentSucceeded:
		m.used = 0
		cmds = append(cmds, m.toast.Show(fmt.Sprintf("Welcome to %s", m.app.Nav.Plan().DisplayName()), components.ToastSuccess))
	case nav.EventLogout:
		cmds = append(cmds, m.toast.Show("Signed out", components.ToastInfo))
	}
	return tea.Batch(cmds...)
}

func (m *Model) fetchUsage() tea.Cmd {
	if !m.app.Session.IsAuthenticated() {
		return nil
	}
	client, timeout := m.app.API, m.ctx.Timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		u, err := client.Usage(ctx)
		return usageMsg{usage: u, err: err}
	}
}

func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	pageWidth := m.width - 2
	if m.theme.Layout() == styles.LayoutWide {
		pageWidth -= components.SidebarWidth + 1
	}
	// header (3) + toast (1) + footer (1)
	pageHeight := m.height - 5
	m.sidebar.Height = pageHeight
	if m.page != nil {
		m.page.SetSize(max(pageWidth, 20), max(pageHeight, 5))
	}
}

// Update handles global keys, then hands the message to the page.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			cmds = append(cmds, cmd, m.sync())
			return m, tea.Batch(cmds...)
		}

	case components.ToastExpiredMsg:
		m.toast.Expire(msg)
		return m, nil

	case pages.ToastMsg:
		return m, m.toast.Show(msg.Text, msg.Kind)

	case pages.AnsweredMsg:
		m.used++
		return m, nil

	case usageMsg:
		if msg.err == nil && msg.usage != nil {
			m.used = msg.usage.QueriesUsed
			if t, err := plan.Parse(msg.usage.Plan); err == nil && t != m.app.Nav.Plan() {
				_ = m.app.Nav.SyncPlan(t)
			}
		}
		return m, nil

	case SessionChangedMsg:
		// The chrome reads the session on every render; only usage needs
		// refreshing.
		if msg.Authenticated {
			return m, m.fetchUsage()
		}
		return m, nil
	}

	// A background call may have moved the controller; remount before the
	// result reaches a page so the old page never sees it.
	cmds = append(cmds, m.sync())

	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	cmds = append(cmds, cmd, m.sync())
	return m, tea.Batch(cmds...)
}

// handleKey processes global keys and the sidebar. It reports whether the
// key was consumed.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return true, tea.Quit
	case m.sidebar.Focused:
		return true, m.sidebarKey(msg)
	case key.Matches(msg, m.keys.Menu):
		m.sidebar.SignedIn = m.app.Session.IsAuthenticated()
		m.sidebar.Focus()
		return true, nil
	case key.Matches(msg, m.keys.Logout):
		if !m.app.Session.IsAuthenticated() {
			return true, nil
		}
		if err := m.app.Logout(); err != nil {
			return true, m.toast.Show(err.Error(), components.ToastError)
		}
		return true, nil
	case key.Matches(msg, m.keys.SwitchPlan) && m.app.Config.UI.DemoPlanSwitcher:
		next := m.app.Nav.Plan().Next()
		_ = m.app.Nav.SwitchPlan(next)
		return true, m.toast.Show("Plan: "+next.DisplayName(), components.ToastInfo)
	}
	return false, nil
}

func (m *Model) sidebarKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.sidebar.Move(1)
	case key.Matches(msg, m.keys.Select):
		m.sidebar.Blur()
		if err := m.app.Nav.Navigate(m.sidebar.Selected()); err != nil {
			return m.toast.Show(err.Error(), components.ToastError)
		}
	case key.Matches(msg, m.keys.Close):
		m.sidebar.Blur()
	}
	return nil
}

// View renders header, sidebar, page and footer.
func (m Model) View() string {
	signedIn := m.app.Session.IsAuthenticated()

	m.header.PageTitle = m.mounted.Title()
	if m.mounted == nav.PageHome {
		m.header.PageTitle = ""
	}
	m.header.SignedIn = signedIn
	m.header.SetPlan(m.app.Nav.Plan(), m.used)

	m.sidebar.Active = m.mounted
	m.sidebar.SignedIn = signedIn

	body := m.page.View()
	if m.theme.Layout() == styles.LayoutWide || m.sidebar.Focused {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), " ", body)
	}

	footer := m.footer(signedIn)
	return strings.Join([]string{m.header.View(), body, m.toast.View(), footer}, "\n")
}

func (m Model) footer(signedIn bool) string {
	pairs := m.page.Help()
	pairs = append(pairs, "ctrl+e", "menu")
	if signedIn {
		pairs = append(pairs, "ctrl+o", "sign out")
	}
	if m.app.Config.UI.DemoPlanSwitcher {
		pairs = append(pairs, "ctrl+p", "switch plan")
	}
	pairs = append(pairs, "ctrl+c", "quit")
	return m.theme.Footer.Render(components.HelpLine(m.theme, pairs...))
}
