// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/auth"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/ui/components"
)

// =============================================================================
// SHARED FORM PAGE
// =============================================================================

// formPage is a titled form with one submit action. Field keys match the
// auth form struct fields so validation errors land under the right input.
type formPage struct {
	base
	page    nav.Page
	form    *components.Form
	busy    bool
	err     string
	notice  string
	spinner components.Spinner
	links   []string
}

func newFormPage(ctx *Context, page nav.Page, fields ...components.Field) formPage {
	return formPage{
		base:    newBase(ctx),
		page:    page,
		form:    components.NewForm(ctx.Theme, fields...),
		spinner: components.NewSpinner("Working"),
	}
}

func (f *formPage) SetSize(width, height int) {
	f.base.SetSize(width, height)
	f.form.SetWidth(width)
}

func (f *formPage) Typing() bool { return true }

// start marks the form busy and runs op in the background.
func (f *formPage) start(op func() error) tea.Cmd {
	if f.busy {
		return nil
	}
	f.busy = true
	f.err = ""
	f.form.ClearErrors()
	gen := f.gen
	return tea.Batch(f.spinner.Start(), func() tea.Msg {
		return authDoneMsg{gen: gen, err: op()}
	})
}

// finish applies the result of start. It reports whether the op succeeded.
func (f *formPage) finish(msg authDoneMsg) bool {
	f.busy = false
	f.spinner.Stop()
	if msg.err == nil {
		return true
	}
	var verrs auth.ValidationErrors
	if errors.As(msg.err, &verrs) {
		for _, fe := range verrs {
			f.form.SetError(fe.Field, fe.Message)
		}
		return false
	}
	f.err = auth.UserMessage(msg.err)
	return false
}

// updateForm handles focus keys and forwards everything else to the form.
// submit runs on enter in the last field.
func (f *formPage) updateForm(msg tea.Msg, submit func() tea.Cmd) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, f.ctx.Keys.Submit):
			if f.form.OnLast() {
				return submit()
			}
			return f.form.Next()
		case key.Matches(msg, f.ctx.Keys.Next):
			return f.form.Next()
		case key.Matches(msg, f.ctx.Keys.Prev):
			return f.form.Prev()
		}
	default:
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		if cmd != nil {
			return cmd
		}
	}
	return f.form.Update(msg)
}

func (f *formPage) view(intro string) string {
	t := f.ctx.Theme
	var b strings.Builder
	b.WriteString(f.title(f.page.Title()))
	b.WriteString("\n")
	if intro != "" {
		b.WriteString(t.Muted.Render(intro))
		b.WriteString("\n\n")
	}
	b.WriteString(f.form.View())
	b.WriteString("\n\n")
	switch {
	case f.busy:
		b.WriteString(f.spinner.View())
	case f.err != "":
		b.WriteString(t.Error.Render(f.err))
	case f.notice != "":
		b.WriteString(t.Success.Render(f.notice))
	}
	if len(f.links) > 0 {
		b.WriteString("\n\n")
		b.WriteString(components.HelpLine(t, f.links...))
	}
	return b.String()
}

// =============================================================================
// LOGIN
// =============================================================================

// Login is the sign-in page.
type Login struct {
	formPage
}

// NewLogin creates the sign-in page.
func NewLogin(ctx *Context) *Login {
	l := &Login{formPage: newFormPage(ctx, nav.PageLogin,
		components.Field{Key: "Email", Label: "Email", Placeholder: "you@shop.com"},
		components.Field{Key: "Password", Label: "Password", Secret: true},
	)}
	l.links = []string{"ctrl+f", "forgot password", "ctrl+r", "create an account"}
	return l
}

func (l *Login) Init() tea.Cmd { return l.form.Init() }

func (l *Login) Help() []string {
	return help(l.ctx.Keys.Submit, l.ctx.Keys.Next, l.ctx.Keys.Forgot)
}

func (l *Login) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		// On success the app has already moved to home.
		if l.current(msg.gen) {
			l.finish(msg)
		}
		return l, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, l.ctx.Keys.Forgot):
			return l, l.navigate(nav.PageForgotPassword)
		case key.Matches(msg, l.ctx.Keys.Switch):
			return l, l.navigate(nav.PageSignup)
		}
	}
	return l, l.updateForm(msg, l.submit)
}

func (l *Login) submit() tea.Cmd {
	form := auth.LoginForm{Email: l.form.Value("Email"), Password: l.form.Value("Password")}
	a := l.ctx.App
	return l.start(func() error {
		ctx, cancel := l.ctx.call()
		defer cancel()
		_, err := a.Login(ctx, form)
		return err
	})
}

func (l *Login) View() string {
	return l.view("Sign in to keep your conversations and unlock your plan.")
}

// =============================================================================
// SIGNUP
// =============================================================================

// Signup is the account creation page.
type Signup struct {
	formPage
}

// NewSignup creates the account creation page.
func NewSignup(ctx *Context) *Signup {
	s := &Signup{formPage: newFormPage(ctx, nav.PageSignup,
		components.Field{Key: "Name", Label: "Name", Placeholder: "Jane Joiner"},
		components.Field{Key: "Email", Label: "Email", Placeholder: "you@shop.com"},
		components.Field{Key: "Password", Label: "Password", Secret: true},
		components.Field{Key: "Confirm", Label: "Confirm password", Secret: true},
	)}
	s.links = []string{"ctrl+r", "already have an account? sign in"}
	return s
}

func (s *Signup) Init() tea.Cmd { return s.form.Init() }

func (s *Signup) Help() []string {
	return help(s.ctx.Keys.Submit, s.ctx.Keys.Next)
}

func (s *Signup) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		if s.current(msg.gen) {
			s.finish(msg)
		}
		return s, nil
	case tea.KeyMsg:
		if key.Matches(msg, s.ctx.Keys.Switch) {
			return s, s.navigate(nav.PageLogin)
		}
	}
	return s, s.updateForm(msg, s.submit)
}

func (s *Signup) submit() tea.Cmd {
	form := auth.SignupForm{
		Name:     s.form.Value("Name"),
		Email:    s.form.Value("Email"),
		Password: s.form.Value("Password"),
		Confirm:  s.form.Value("Confirm"),
	}
	a := s.ctx.App
	return s.start(func() error {
		ctx, cancel := s.ctx.call()
		defer cancel()
		_, err := a.Signup(ctx, form)
		return err
	})
}

func (s *Signup) View() string {
	return s.view("Create a free account. Five questions a day, no card needed.")
}

// =============================================================================
// FORGOT / RESET PASSWORD
// =============================================================================

// Forgot requests a reset email, then takes the token from that email and
// a new password.
type Forgot struct {
	formPage
	resetting bool
}

// NewForgot creates the password reset page.
func NewForgot(ctx *Context) *Forgot {
	f := &Forgot{formPage: newFormPage(ctx, nav.PageForgotPassword,
		components.Field{Key: "Email", Label: "Email", Placeholder: "you@shop.com"},
	)}
	f.links = []string{"ctrl+r", "I have a reset token", "esc", "back to sign in"}
	return f
}

func (f *Forgot) Init() tea.Cmd { return f.form.Init() }

func (f *Forgot) Help() []string {
	return help(f.ctx.Keys.Submit, f.ctx.Keys.Back)
}

// Resetting reports whether the page is on the new-password step.
func (f *Forgot) Resetting() bool { return f.resetting }

func (f *Forgot) toReset() tea.Cmd {
	f.resetting = true
	f.form = components.NewForm(f.ctx.Theme,
		components.Field{Key: "Token", Label: "Reset token", Placeholder: "from the email"},
		components.Field{Key: "Password", Label: "New password", Secret: true},
		components.Field{Key: "Confirm", Label: "Confirm new password", Secret: true},
	)
	f.form.SetWidth(f.width)
	f.links = []string{"esc", "back to sign in"}
	return f.form.Init()
}

func (f *Forgot) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		if !f.current(msg.gen) || !f.finish(msg) {
			return f, nil
		}
		if f.resetting {
			return f, tea.Batch(
				toast("Password updated. Sign in with your new password.", components.ToastSuccess),
				f.navigate(nav.PageLogin),
			)
		}
		f.notice = "Check your email for a reset link."
		return f, f.toReset()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, f.ctx.Keys.Back):
			return f, f.navigate(nav.PageLogin)
		case key.Matches(msg, f.ctx.Keys.Switch) && !f.resetting:
			return f, f.toReset()
		}
	}
	return f, f.updateForm(msg, f.submit)
}

func (f *Forgot) submit() tea.Cmd {
	svc := f.ctx.App.Auth
	if f.resetting {
		form := auth.ResetPasswordForm{
			Token:    f.form.Value("Token"),
			Password: f.form.Value("Password"),
			Confirm:  f.form.Value("Confirm"),
		}
		return f.start(func() error {
			ctx, cancel := f.ctx.call()
			defer cancel()
			return svc.ResetPassword(ctx, form)
		})
	}
	form := auth.ForgotPasswordForm{Email: f.form.Value("Email")}
	return f.start(func() error {
		ctx, cancel := f.ctx.call()
		defer cancel()
		return svc.ForgotPassword(ctx, form)
	})
}

func (f *Forgot) View() string {
	if f.resetting {
		return f.view("Paste the token from the reset email and choose a new password.")
	}
	return f.view("Enter your account email and we'll send a reset link.")
}
