// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/api/apitest"
	"github.com/abdulazeez2247/moe/internal/app"
	"github.com/abdulazeez2247/moe/internal/config"
	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/session"
	"github.com/abdulazeez2247/moe/internal/ui/pages"
	"github.com/abdulazeez2247/moe/internal/upload"
)

// =============================================================================
// HARNESS
// =============================================================================

func newTestModel(t *testing.T, srv *apitest.Server, tweak func(*config.Config)) (Model, *app.App) {
	t.Helper()
	cfg := config.Default()
	cfg.API.RequestsPerSecond = 0
	cfg.UI.Theme = "dark"
	cfg.UI.Markdown = false
	if tweak != nil {
		tweak(cfg)
	}
	a, err := app.New(cfg, app.Options{
		Logger:  zap.NewNop(),
		Backend: session.NewMemoryBackend(),
		BaseURL: srv.BaseURL(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	m := New(a)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), a
}

// ignored drops animation messages whose handling only schedules more
// animation.
func ignored(msg tea.Msg) bool {
	name := fmt.Sprintf("%T", msg)
	return strings.HasPrefix(name, "spinner.") || strings.HasPrefix(name, "cursor.")
}

func runCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(time.Second):
		// Timers (toast expiry) never fire within a test.
		return nil, false
	}
}

// drain runs cmd and every command it leads to, feeding results back into
// the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 500; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok || msg == nil || ignored(msg) {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		next, c2 := m.Update(msg)
		m = next.(Model)
		queue = append(queue, c2)
	}
	return m
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range msgs {
		next, cmd := m.Update(k)
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	right = tea.KeyMsg{Type: tea.KeyRight}
)

// settle lets the model notice a transition made outside Update.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	next, cmd := m.Update(struct{}{})
	return drain(t, next.(Model), cmd)
}

// =============================================================================
// TESTS
// =============================================================================

func TestStartsOnHome(t *testing.T) {
	srv := apitest.New(t)
	m, _ := newTestModel(t, srv, nil)
	m = drain(t, m, m.Init())

	assert.Equal(t, nav.PageHome, m.Mounted())
	view := m.View()
	assert.Contains(t, view, "Moe – Your Mozaik Expert")
	assert.Contains(t, view, "Free Plan")
	assert.Contains(t, view, "5 queries remaining today")
}

func TestHomeQuestionOpensChatAndAsks(t *testing.T) {
	srv := apitest.New(t)
	m, a := newTestModel(t, srv, nil)

	m = press(t, m, typeText("What is kerf?"), enter)

	require.Equal(t, nav.PageChat, m.Mounted())
	chatPage, ok := m.Page().(*pages.Chat)
	require.True(t, ok)

	msgs := chatPage.Logic().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
	assert.Equal(t, "What is kerf?", msgs[0].Text)
	assert.Equal(t, "Answer to: What is kerf?", msgs[1].Text)
	assert.Equal(t, 1, m.Used())
	assert.Equal(t, 1, srv.Count("/ask"))
	assert.Empty(t, a.Nav.TakePendingQuery())
}

func TestBlankHomeQuestionStays(t *testing.T) {
	srv := apitest.New(t)
	m, _ := newTestModel(t, srv, nil)

	m = press(t, m, typeText("   "), enter)
	assert.Equal(t, nav.PageHome, m.Mounted())
	assert.Zero(t, srv.Count("/ask"))
}

func TestQuotaExhaustedShowsUpgrade(t *testing.T) {
	srv := apitest.New(t)
	srv.SetFreeQuota(0)
	m, _ := newTestModel(t, srv, nil)

	m = press(t, m, typeText("What is kerf?"), enter)
	require.Equal(t, nav.PageChat, m.Mounted())

	msgs := m.Page().(*pages.Chat).Logic().Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].UpgradeRequired)
	assert.False(t, msgs[1].IsError)
	assert.Zero(t, m.Used())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Equal(t, nav.PagePricing, m.Mounted())
}

func TestUnauthorizedFromChatLandsOnLogin(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	m, a := newTestModel(t, srv, nil)
	require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
	require.NoError(t, a.Nav.Navigate(nav.PageChat))
	m = settle(t, m)
	require.Equal(t, nav.PageChat, m.Mounted())

	srv.SetUnauthorized(true)
	m = press(t, m, typeText("What is kerf?"), enter)

	assert.Equal(t, nav.PageLogin, m.Mounted())
	assert.Empty(t, a.Session.Token())
	assert.Contains(t, m.View(), "Please sign in again")
}

func TestLoginThroughForm(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	m, a := newTestModel(t, srv, nil)
	require.NoError(t, a.Nav.Navigate(nav.PageLogin))
	m = settle(t, m)

	m = press(t, m, typeText("a@b.com"), tab, typeText("x"), enter)

	assert.Equal(t, nav.PageHome, m.Mounted())
	assert.True(t, a.Session.IsAuthenticated())
	assert.Contains(t, m.View(), "Signed in")
}

func TestLoginValidationStaysOnForm(t *testing.T) {
	srv := apitest.New(t)
	m, a := newTestModel(t, srv, nil)
	require.NoError(t, a.Nav.Navigate(nav.PageLogin))
	m = settle(t, m)

	m = press(t, m, typeText("not-an-email"), tab, enter)

	assert.Equal(t, nav.PageLogin, m.Mounted())
	assert.Zero(t, srv.Count("/auth/login"))
	view := m.View()
	assert.Contains(t, view, "Please enter a valid email address")
	assert.Contains(t, view, "Please enter your password")
}

func TestFreeTierUploadSendsNothing(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	m, a := newTestModel(t, srv, nil)
	require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
	require.NoError(t, a.Nav.Navigate(nav.PageUpload))
	m = settle(t, m)

	path := filepath.Join(t.TempDir(), "kitchen.cab")
	require.NoError(t, os.WriteFile(path, []byte("cab"), 0o600))

	m = press(t, m, typeText(path), enter)
	assert.Zero(t, srv.CountPrefix("/upload"))
	assert.Contains(t, m.View(), upload.UpgradePrompt)
}

func TestPaidUploadAddsPlaceholder(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	srv.SetPlan("a@b.com", "professional")
	m, a := newTestModel(t, srv, nil)
	require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
	require.NoError(t, a.Nav.SwitchPlan(plan.Professional))
	require.NoError(t, a.Nav.Navigate(nav.PageUpload))
	m = settle(t, m)

	path := filepath.Join(t.TempDir(), "kitchen.cab")
	require.NoError(t, os.WriteFile(path, []byte("cab"), 0o600))

	m = press(t, m, typeText(path), enter)

	files := m.Page().(*pages.Upload).Logic().Files()
	require.Len(t, files, 1)
	assert.Equal(t, "kitchen.cab", files[0].Name)
	assert.Equal(t, model.AnalysisPending, files[0].Analysis)
	assert.Contains(t, m.View(), model.AnalysisPending)
}

func TestPricingSelection(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")

	t.Run("free", func(t *testing.T) {
		m, a := newTestModel(t, srv, nil)
		require.NoError(t, a.Nav.Navigate(nav.PagePricing))
		m = settle(t, m)
		require.Equal(t, plan.Free, m.Page().(*pages.Pricing).Selected().Tier)

		m = press(t, m, enter)
		assert.Equal(t, nav.PageChat, m.Mounted())
		assert.Equal(t, plan.Free, a.Nav.Plan())
	})

	t.Run("paid", func(t *testing.T) {
		m, a := newTestModel(t, srv, nil)
		require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
		require.NoError(t, a.Nav.Navigate(nav.PagePricing))
		m = settle(t, m)

		m = press(t, m, right, typeText("c"))
		require.Equal(t, plan.Professional, m.Page().(*pages.Pricing).Selected().Tier)
		require.Equal(t, plan.Yearly, a.Nav.Cycle())

		m = press(t, m, enter)
		require.Equal(t, nav.PagePayment, m.Mounted())
		assert.Equal(t, plan.Professional, a.Nav.SelectedPlan())

		pay := m.Page().(*pages.Payment)
		require.NotNil(t, pay.Checkout())
		assert.Contains(t, m.View(), "https://checkout.example.com/pay/")

		m = press(t, m, enter)
		assert.Equal(t, nav.PageChat, m.Mounted())
		assert.Equal(t, plan.Professional, a.Nav.Plan())
		assert.Equal(t, "professional", srv.Plan("a@b.com"))
	})
}

func TestDemoPlanSwitcher(t *testing.T) {
	srv := apitest.New(t)
	ctrlP := tea.KeyMsg{Type: tea.KeyCtrlP}

	m, a := newTestModel(t, srv, func(c *config.Config) { c.UI.DemoPlanSwitcher = true })
	gen := a.Nav.Generation()
	m = press(t, m, ctrlP)
	assert.Equal(t, plan.Free.Next(), a.Nav.Plan())
	assert.Equal(t, gen, a.Nav.Generation())
	assert.Equal(t, nav.PageHome, m.Mounted())

	mb, b := newTestModel(t, srv, func(c *config.Config) { c.UI.DemoPlanSwitcher = false })
	press(t, mb, ctrlP)
	assert.Equal(t, plan.Free, b.Nav.Plan())
}

func TestSidebarNavigates(t *testing.T) {
	srv := apitest.New(t)
	m, _ := newTestModel(t, srv, nil)

	// Anonymous order: home, chat, pricing, sign in, sign up.
	down := tea.KeyMsg{Type: tea.KeyDown}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlE}, down, down, enter)
	assert.Equal(t, nav.PagePricing, m.Mounted())
}

func TestLogoutKey(t *testing.T) {
	srv := apitest.New(t)
	m, a := newTestModel(t, srv, nil)
	require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
	require.NoError(t, a.Nav.Navigate(nav.PageChat))
	m = settle(t, m)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, nav.PageHome, m.Mounted())
	assert.False(t, a.Session.IsAuthenticated())
}

func TestStaleAnswerAfterLeavingChat(t *testing.T) {
	srv := apitest.New(t)
	m, a := newTestModel(t, srv, nil)
	require.NoError(t, a.Nav.Navigate(nav.PageChat))
	m = settle(t, m)

	for _, r := range "kerf" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	next, pending := m.Update(enter)
	m = next.(Model)

	// Leave before the answer arrives.
	require.NoError(t, a.Nav.Navigate(nav.PagePricing))
	m = drain(t, m, pending)

	assert.Equal(t, nav.PagePricing, m.Mounted())
	assert.Zero(t, m.Used())
}

func TestUsageSyncsPlanAfterLogin(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	srv.SetPlan("a@b.com", "enterprise")
	m, a := newTestModel(t, srv, nil)
	require.NoError(t, a.Nav.Navigate(nav.PageLogin))
	m = settle(t, m)

	m = press(t, m, typeText("a@b.com"), tab, typeText("x"), enter)
	assert.Equal(t, plan.Enterprise, a.Nav.Plan())
	assert.Contains(t, m.View(), "Enterprise")
}
