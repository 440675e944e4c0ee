// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestHeaderShowsPlanAndQuota(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	h := NewHeader(theme)
	h.SetWidth(120)

	h.SetPlan(plan.Free, 1)
	view := h.View()
	if !strings.Contains(view, "Free Plan") {
		t.Errorf("header should show the plan name, got %q", view)
	}
	if !strings.Contains(view, "4 queries remaining today") {
		t.Errorf("header should show the quota hint, got %q", view)
	}

	h.SetPlan(plan.Enterprise, 500)
	view = h.View()
	if !strings.Contains(view, "4500 queries remaining this month") {
		t.Errorf("enterprise header should count the month, got %q", view)
	}
}

func TestHeaderQuotaFraction(t *testing.T) {
	h := NewHeader(styles.NewTheme(styles.ModeDark))

	h.SetPlan(plan.Free, 0)
	if got := h.QuotaFraction(); got != 1 {
		t.Errorf("unused free quota = %v, want 1", got)
	}
	h.SetPlan(plan.Free, 99)
	if got := h.QuotaFraction(); got != 0 {
		t.Errorf("exhausted free quota = %v, want 0", got)
	}
	h.SetPlan(plan.Professional, 300)
	if got := h.QuotaFraction(); got != 0.5 {
		t.Errorf("half-used professional quota = %v, want 0.5", got)
	}
}

func TestHeaderNarrow(t *testing.T) {
	h := NewHeader(styles.NewTheme(styles.ModeDark))
	h.PageTitle = "A very long page title that cannot fit"
	h.SetWidth(10)
	if !strings.Contains(h.View(), "Moe") {
		t.Error("narrow header should keep the brand")
	}
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestSidebarItemsFollowSignIn(t *testing.T) {
	s := NewSidebar(styles.NewTheme(styles.ModeDark))

	has := func(p nav.Page) bool {
		for _, it := range s.Items() {
			if it == p {
				return true
			}
		}
		return false
	}

	if has(nav.PageUpload) {
		t.Error("anonymous sidebar should not offer uploads")
	}
	if !has(nav.PageLogin) {
		t.Error("anonymous sidebar should offer sign in")
	}

	s.SignedIn = true
	if !has(nav.PageUpload) {
		t.Error("signed-in sidebar should offer uploads")
	}
	if has(nav.PageLogin) {
		t.Error("signed-in sidebar should not offer sign in")
	}
}

func TestSidebarCursorWraps(t *testing.T) {
	s := NewSidebar(styles.NewTheme(styles.ModeDark))
	s.SignedIn = true
	s.Active = nav.PagePricing
	s.Focus()

	if s.Selected() != nav.PagePricing {
		t.Fatalf("focus should start on the active page, got %s", s.Selected())
	}
	s.Move(1)
	if s.Selected() != nav.PageHome {
		t.Errorf("moving past the end should wrap to home, got %s", s.Selected())
	}
	s.Move(-1)
	if s.Selected() != nav.PagePricing {
		t.Errorf("moving back should wrap to the end, got %s", s.Selected())
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageViewRendersKinds(t *testing.T) {
	theme := styles.NewTheme(styles.ModeDark)
	v := NewMessageView(theme, NewMarkdown(false, true))
	v.Width = 100

	user := model.NewUserMessage("What is kerf?")
	if out := v.Render(user); !strings.Contains(out, "What is kerf?") || !strings.Contains(out, "You") {
		t.Errorf("user message missing text or sender: %q", out)
	}

	bot := model.NewBotMessage("Kerf is the blade width.")
	bot.AnswerID = "a1"
	bot.ModelUsed = "gpt-4o"
	bot.TokensUsed = 12
	bot.Sources = []string{"Kerf basics"}
	out := v.Render(bot)
	for _, want := range []string{"Moe", "Kerf is the blade width.", "Kerf basics", "gpt-4o", "ctrl+y"} {
		if !strings.Contains(out, want) {
			t.Errorf("bot message missing %q: %q", want, out)
		}
	}

	bot.Vote = model.VoteUp
	if out := v.Render(bot); !strings.Contains(out, "helpful") {
		t.Errorf("voted message should show the vote: %q", out)
	}

	up := model.NewBotMessage("limit reached")
	up.UpgradeRequired = true
	if out := v.Render(up); !strings.Contains(out, UpgradeAction) {
		t.Errorf("upgrade message should carry the action: %q", out)
	}
}

func TestMarkdownDisabledPassesThrough(t *testing.T) {
	md := NewMarkdown(false, true)
	if got := md.Render("**bold**", 40); got != "**bold**" {
		t.Errorf("disabled markdown changed text: %q", got)
	}
	var nilMD *Markdown
	if got := nilMD.Render("x", 40); got != "x" {
		t.Errorf("nil markdown changed text: %q", got)
	}
}

func TestMarkdownRendersText(t *testing.T) {
	md := NewMarkdown(true, true)
	out := md.Render("Use a **sharp** blade.", 60)
	if !strings.Contains(out, "sharp") {
		t.Errorf("rendered markdown lost text: %q", out)
	}
}

// =============================================================================
// FORM AND INPUT TESTS
// =============================================================================

func TestFormFocusAndValues(t *testing.T) {
	f := NewForm(styles.NewTheme(styles.ModeDark),
		Field{Key: "email", Label: "Email"},
		Field{Key: "password", Label: "Password", Secret: true},
	)
	if f.Focused() != "email" {
		t.Fatalf("first field should be focused, got %s", f.Focused())
	}
	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a@b.com")})
	f.Next()
	if !f.OnLast() {
		t.Error("focus should be on the last field")
	}
	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("secret")})

	if got := f.Value("email"); got != "a@b.com" {
		t.Errorf("email = %q", got)
	}
	if got := f.Value("password"); got != "secret" {
		t.Errorf("password = %q", got)
	}
	if strings.Contains(f.View(), "secret") {
		t.Error("password should be masked")
	}

	f.SetError("email", "Please enter a valid email address")
	if !strings.Contains(f.View(), "Please enter a valid email address") {
		t.Error("field error should render")
	}
	f.ClearErrors()
	if strings.Contains(f.View(), "Please enter") {
		t.Error("errors should clear")
	}

	f.Next()
	if f.Focused() != "email" {
		t.Error("focus should wrap to the first field")
	}
}

func TestInputAreaCounter(t *testing.T) {
	in := NewInputArea(styles.NewTheme(styles.ModeDark), "Ask Moe")
	in.Focus()
	in.SetValue("kerf")
	if !strings.Contains(in.View(), "4/4000") {
		t.Errorf("counter missing: %q", in.View())
	}
	in.Reset()
	if in.Value() != "" {
		t.Error("reset should clear the value")
	}
}

// =============================================================================
// SPINNER AND TOAST TESTS
// =============================================================================

func TestSpinnerStartOnce(t *testing.T) {
	s := NewSpinner("Thinking")
	if s.View() != "" {
		t.Error("stopped spinner should render nothing")
	}
	if s.Start() == nil {
		t.Fatal("first start should return a tick")
	}
	if s.Start() != nil {
		t.Error("second start should not start another tick loop")
	}
	if !strings.Contains(s.View(), "Thinking") {
		t.Errorf("active spinner should show its message: %q", s.View())
	}
	s.Stop()
	if s.Active() {
		t.Error("spinner should stop")
	}
}

func TestToastExpiresOnlyLatest(t *testing.T) {
	toast := NewToast(styles.NewTheme(styles.ModeDark))
	toast.Show("first", ToastInfo)
	toast.Show("second", ToastError)

	toast.Expire(ToastExpiredMsg{Seq: 1})
	if toast.Text != "second" {
		t.Error("stale expiry should not clear a newer toast")
	}
	toast.Expire(ToastExpiredMsg{Seq: 2})
	if toast.View() != "" {
		t.Error("latest expiry should clear the toast")
	}
}

func TestHelpLine(t *testing.T) {
	out := HelpLine(styles.NewTheme(styles.ModeDark), "enter", "send", "esc", "back")
	if !strings.Contains(out, "enter") || !strings.Contains(out, "back") {
		t.Errorf("help line = %q", out)
	}
}
