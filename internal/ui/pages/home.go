// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/ui/components"
	"github.com/abdulazeez2247/moe/internal/util"
)

// Suggestions are shown under the question box; up and down cycle them
// into the input.
var Suggestions = []string{
	"What is kerf and how do I set it for my saw?",
	"Why are my cabinet parts coming out oversized?",
	"How do I add a new material to my library?",
	"What's the difference between .cab and .cabx files?",
}

// Home is the landing page with the question box.
type Home struct {
	base
	input      *components.InputArea
	suggestion int
	knowledge  string
}

// NewHome creates the home page.
func NewHome(ctx *Context) *Home {
	in := components.NewInputArea(ctx.Theme, "Ask Moe anything about Mozaik...")
	in.Focus()
	return &Home{base: newBase(ctx), input: in, suggestion: -1}
}

func (h *Home) Init() tea.Cmd {
	gen := h.gen
	a := h.ctx.App
	return func() tea.Msg {
		ctx, cancel := h.ctx.call()
		defer cancel()
		st, err := a.API.KnowledgeStatus(ctx)
		return knowledgeMsg{gen: gen, status: st, err: err}
	}
}

func (h *Home) SetSize(width, height int) {
	h.base.SetSize(width, height)
	h.input.SetWidth(width)
}

func (h *Home) Typing() bool { return true }

func (h *Home) Help() []string {
	return append(help(h.ctx.Keys.Submit), "↑/↓", "suggestions")
}

func (h *Home) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case knowledgeMsg:
		if !h.current(msg.gen) {
			return h, nil
		}
		if msg.err != nil || msg.status == nil {
			h.knowledge = ""
			return h, nil
		}
		h.knowledge = fmt.Sprintf("Knowledge base %s · %s documents",
			msg.status.Status, util.HumanCount(msg.status.Documents))
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, h.ctx.Keys.Submit):
			return h, h.submit()
		case key.Matches(msg, h.ctx.Keys.Up):
			h.cycle(-1)
			return h, nil
		case key.Matches(msg, h.ctx.Keys.Down):
			h.cycle(1)
			return h, nil
		}
	}
	return h, h.input.Update(msg)
}

func (h *Home) cycle(delta int) {
	n := len(Suggestions)
	h.suggestion = ((h.suggestion+delta)%n + n) % n
	h.input.SetValue(Suggestions[h.suggestion])
}

// submit hands the question to chat. Blank input is ignored.
func (h *Home) submit() tea.Cmd {
	if !h.ctx.App.Nav.SubmitQuery(h.input.Value()) {
		return nil
	}
	h.input.Reset()
	return nil
}

func (h *Home) View() string {
	t := h.ctx.Theme
	var b strings.Builder
	b.WriteString(h.title(nav.PageHome.Title()))
	b.WriteString("\n")
	b.WriteString(t.Muted.Render("Expert answers for Mozaik cabinet software, from setup to CNC output."))
	b.WriteString("\n\n")
	b.WriteString(h.input.View())
	b.WriteString("\n\n")
	b.WriteString(t.Label.Render("Try asking:"))
	b.WriteString("\n")
	for i, s := range Suggestions {
		line := "  " + components.Truncate(s, h.width-4)
		if i == h.suggestion {
			b.WriteString(t.Link.Render(line))
		} else {
			b.WriteString(t.Muted.Render(line))
		}
		b.WriteString("\n")
	}
	if h.knowledge != "" {
		b.WriteString("\n")
		b.WriteString(t.Success.Render(h.knowledge))
	}
	return b.String()
}
