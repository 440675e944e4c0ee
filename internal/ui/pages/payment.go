// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/billing"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/ui/components"
)

// Payment is checkout for the tier selected on the pricing page. It opens a
// hosted checkout session on mount; the user pays in the browser and comes
// back to confirm.
type Payment struct {
	base
	tier    plan.Tier
	cycle   plan.BillingCycle
	co      *billing.Checkout
	busy    bool
	err     string
	spinner components.Spinner
}

// NewPayment creates the checkout page.
func NewPayment(ctx *Context) *Payment {
	return &Payment{
		base:    newBase(ctx),
		tier:    ctx.App.Nav.SelectedPlan(),
		cycle:   ctx.App.Nav.Cycle(),
		spinner: components.NewSpinner("Preparing checkout"),
	}
}

// Checkout returns the open checkout session, if any.
func (p *Payment) Checkout() *billing.Checkout { return p.co }

func (p *Payment) Init() tea.Cmd {
	if p.tier == "" {
		p.err = "No plan selected."
		return nil
	}
	p.busy = true
	svc, gen, tier, cycle := p.ctx.App.Billing, p.gen, p.tier, p.cycle
	start := func() tea.Msg {
		ctx, cancel := p.ctx.call()
		defer cancel()
		co, err := svc.Start(ctx, tier, cycle)
		return checkoutMsg{gen: gen, co: co, err: err}
	}
	return tea.Batch(p.spinner.Start(), start)
}

func (p *Payment) Typing() bool { return false }

func (p *Payment) Help() []string {
	return help(p.ctx.Keys.Submit, p.ctx.Keys.Card, p.ctx.Keys.Back)
}

func (p *Payment) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case checkoutMsg:
		if !p.current(msg.gen) {
			return p, nil
		}
		p.busy = false
		p.spinner.Stop()
		if msg.err != nil {
			p.err = msg.err.Error()
			return p, nil
		}
		p.co = msg.co
		return p, nil

	case paymentDoneMsg:
		// Success moves the app to chat, so only failures land here.
		if !p.current(msg.gen) {
			return p, nil
		}
		p.busy = false
		p.spinner.Stop()
		if msg.err != nil {
			p.err = msg.err.Error()
		}
		return p, nil

	case tea.KeyMsg:
		if p.busy {
			return p, nil
		}
		switch {
		case key.Matches(msg, p.ctx.Keys.Back):
			return p, p.navigate(nav.PagePricing)
		case key.Matches(msg, p.ctx.Keys.Submit):
			if p.co == nil {
				return p, nil
			}
			return p, p.pay(func() error {
				ctx, cancel := p.ctx.call()
				defer cancel()
				return p.ctx.App.CompletePayment(ctx, p.co)
			}, "Confirming payment")
		case key.Matches(msg, p.ctx.Keys.Card):
			return p, p.pay(func() error {
				ctx, cancel := p.ctx.call()
				defer cancel()
				return p.ctx.App.PayWithCard(ctx)
			}, "Charging card")
		}
		return p, nil
	}

	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return p, cmd
}

func (p *Payment) pay(op func() error, label string) tea.Cmd {
	p.busy = true
	p.err = ""
	p.spinner.SetMessage(label)
	gen := p.gen
	return tea.Batch(p.spinner.Start(), func() tea.Msg {
		return paymentDoneMsg{gen: gen, err: op()}
	})
}

func (p *Payment) View() string {
	t := p.ctx.Theme
	var b strings.Builder
	b.WriteString(p.title(nav.PagePayment.Title()))
	b.WriteString("\n")
	if p.tier != "" {
		b.WriteString(t.Badge(p.tier.String(), p.tier.DisplayName()))
		b.WriteString(" ")
		b.WriteString(t.Muted.Render(string(p.cycle)))
		if p.co != nil && p.co.Price != "" {
			b.WriteString("  " + t.Price.Render(p.co.Price))
		}
		b.WriteString("\n\n")
	}

	switch {
	case p.busy:
		b.WriteString(p.spinner.View())
	case p.co != nil:
		b.WriteString("Open this link to pay securely:\n")
		b.WriteString(t.Link.Render(p.co.URL))
		b.WriteString("\n\n")
		b.WriteString(t.Muted.Render("Press enter once payment is complete, or ctrl+k to pay with a saved card."))
	}
	if p.err != "" {
		b.WriteString("\n\n")
		b.WriteString(t.Error.Render(p.err))
	}
	return b.String()
}
