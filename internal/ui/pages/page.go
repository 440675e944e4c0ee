// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/app"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/ui/components"
	"github.com/abdulazeez2247/moe/internal/ui/styles"
)

// Page is one mounted view. A page is created fresh on every transition and
// remembers the generation it was created under.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	SetSize(width, height int)

	// Help returns key/description pairs for the footer.
	Help() []string

	// Typing reports whether printable keys belong to the page.
	Typing() bool
}

// Context is what every page is built from.
type Context struct {
	App   *app.App
	Theme *styles.Theme
	Keys  KeyMap
	MD    *components.Markdown

	// Timeout bounds each gateway call made from a page.
	Timeout time.Duration
}

// NewContext creates a page context for a.
func NewContext(a *app.App, theme *styles.Theme) *Context {
	return &Context{
		App:     a,
		Theme:   theme,
		Keys:    DefaultKeyMap(),
		MD:      components.NewMarkdown(a.Config.UI.Markdown, theme.IsDark),
		Timeout: a.Config.Timeout(),
	}
}

func (c *Context) call() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

// Mount builds the view for p.
func Mount(ctx *Context, p nav.Page) Page {
	switch p {
	case nav.PageLogin:
		return NewLogin(ctx)
	case nav.PageSignup:
		return NewSignup(ctx)
	case nav.PageForgotPassword:
		return NewForgot(ctx)
	case nav.PageChat:
		return NewChat(ctx)
	case nav.PageUpload:
		return NewUpload(ctx)
	case nav.PagePricing:
		return NewPricing(ctx)
	case nav.PagePayment:
		return NewPayment(ctx)
	default:
		return NewHome(ctx)
	}
}

// base carries what every page shares.
type base struct {
	ctx    *Context
	gen    uint64
	width  int
	height int
}

func newBase(ctx *Context) base {
	return base{ctx: ctx, gen: ctx.App.Nav.Generation(), width: 80, height: 20}
}

func (b *base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// current reports whether a result tagged gen belongs to this page.
func (b *base) current(gen uint64) bool {
	return gen == b.gen
}

func (b *base) title(text string) string {
	return b.ctx.Theme.PageTitle.Render(text)
}

func (b *base) navigate(p nav.Page) tea.Cmd {
	if err := b.ctx.App.Nav.Navigate(p); err != nil {
		return toast(err.Error(), components.ToastError)
	}
	return nil
}
