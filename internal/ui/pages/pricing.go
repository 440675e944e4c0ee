// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/ui/components"
)

// Pricing shows the plan cards. Choosing free goes straight to chat; a paid
// card goes to checkout.
type Pricing struct {
	base
	offers []plan.Offer
	cursor int
}

// NewPricing creates the pricing page with the current plan's card selected.
func NewPricing(ctx *Context) *Pricing {
	p := &Pricing{base: newBase(ctx), offers: plan.Offers()}
	current := ctx.App.Nav.Plan()
	for i, o := range p.offers {
		if o.Tier == current {
			p.cursor = i
		}
	}
	return p
}

func (p *Pricing) Init() tea.Cmd { return nil }

func (p *Pricing) Typing() bool { return false }

func (p *Pricing) Help() []string {
	return help(p.ctx.Keys.Left, p.ctx.Keys.Cycle, p.ctx.Keys.Submit)
}

// Selected returns the highlighted offer.
func (p *Pricing) Selected() plan.Offer {
	return p.offers[p.cursor]
}

func (p *Pricing) Update(msg tea.Msg) (Page, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	n := len(p.offers)
	switch {
	case key.Matches(km, p.ctx.Keys.Left):
		p.cursor = (p.cursor - 1 + n) % n
	case key.Matches(km, p.ctx.Keys.Right):
		p.cursor = (p.cursor + 1) % n
	case key.Matches(km, p.ctx.Keys.Cycle):
		nv := p.ctx.App.Nav
		nv.SetCycle(nv.Cycle().Toggle())
	case key.Matches(km, p.ctx.Keys.Submit):
		nv := p.ctx.App.Nav
		if err := nv.SelectPlan(p.Selected().Tier, nv.Cycle()); err != nil {
			return p, toast(err.Error(), components.ToastError)
		}
	case key.Matches(km, p.ctx.Keys.Back):
		return p, p.navigate(nav.PageHome)
	}
	return p, nil
}

func (p *Pricing) View() string {
	t := p.ctx.Theme
	cycle := p.ctx.App.Nav.Cycle()
	current := p.ctx.App.Nav.Plan()

	monthly, yearly := t.Button, t.Button
	if cycle == plan.Yearly {
		yearly = t.ButtonActive
	} else {
		monthly = t.ButtonActive
	}
	toggle := monthly.Render("Monthly") + " " + yearly.Render("Yearly")

	cards := make([]string, 0, len(p.offers))
	for i, o := range p.offers {
		style := t.Card
		if i == p.cursor {
			style = t.CardSelected
		}
		var body strings.Builder
		body.WriteString(t.Brand.Render(o.Name))
		body.WriteString("\n")
		body.WriteString(t.Price.Render(o.Price(cycle)))
		if !o.IsFree() {
			body.WriteString(t.Muted.Render(cycle.Suffix()))
		}
		body.WriteString("\n\n")
		body.WriteString(o.Description)
		body.WriteString("\n\n")
		body.WriteString(t.Muted.Render(plan.QuotaFor(o.Tier).String() + " queries"))
		if plan.CanUploadFiles(o.Tier) {
			body.WriteString("\n" + t.Success.Render("File analysis"))
		}
		if o.Tier == current {
			body.WriteString("\n\n" + t.Label.Render("Current plan"))
		}
		cards = append(cards, style.Render(body.String()))
	}

	var row string
	if p.width >= len(cards)*30 {
		row = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, p.title(nav.PagePricing.Title()), toggle, "", row)
}
