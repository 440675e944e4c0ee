// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/chat"
	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/ui/components"
)

// Chat is the conversation page.
type Chat struct {
	base
	chat     *chat.Chat
	viewport viewport.Model
	input    *components.InputArea
	messages *components.MessageView
	spinner  components.Spinner
}

// NewChat creates the chat page with an empty conversation.
func NewChat(ctx *Context) *Chat {
	in := components.NewInputArea(ctx.Theme, "Ask a follow-up...")
	in.Focus()
	c := &Chat{
		base:     newBase(ctx),
		chat:     ctx.App.NewChat(),
		viewport: viewport.New(80, 16),
		input:    in,
		messages: components.NewMessageView(ctx.Theme, ctx.MD),
		spinner:  components.NewSpinner("Moe is thinking"),
	}
	// The chat logic was created under the generation current right now,
	// which is the one this page belongs to.
	c.gen = c.chat.Generation()
	return c
}

// Logic exposes the conversation state.
func (c *Chat) Logic() *chat.Chat { return c.chat }

// Init sends the question carried over from home, if any.
func (c *Chat) Init() tea.Cmd {
	if q := c.ctx.App.Nav.TakePendingQuery(); q != "" {
		return c.submit(q)
	}
	return nil
}

func (c *Chat) SetSize(width, height int) {
	c.base.SetSize(width, height)
	c.input.SetWidth(width)
	c.messages.Width = width - 2
	c.viewport.Width = width
	c.viewport.Height = max(height-5, 3)
	c.refresh()
}

func (c *Chat) Typing() bool { return true }

func (c *Chat) Help() []string {
	return help(c.ctx.Keys.Submit, c.ctx.Keys.VoteUp, c.ctx.Keys.VoteDown, c.ctx.Keys.PageUp, c.ctx.Keys.Clear)
}

func (c *Chat) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case askResultMsg:
		applied := c.chat.Apply(msg.res)
		if !c.chat.Loading() {
			c.spinner.Stop()
		}
		if !applied {
			return c, nil
		}
		c.refresh()
		if msg.res.Err == nil {
			return c, answered
		}
		return c, nil

	case voteResultMsg:
		if !c.current(msg.gen) {
			return c, nil
		}
		if msg.err != nil {
			return c, toast("Couldn't record your vote", components.ToastError)
		}
		c.refresh()
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, c.ctx.Keys.Submit):
			text := c.input.Value()
			c.input.Reset()
			return c, c.submit(text)
		case key.Matches(msg, c.ctx.Keys.VoteUp):
			return c, c.vote(model.VoteUp)
		case key.Matches(msg, c.ctx.Keys.VoteDown):
			return c, c.vote(model.VoteDown)
		case key.Matches(msg, c.ctx.Keys.Upgrade):
			return c, c.navigate(nav.PagePricing)
		case key.Matches(msg, c.ctx.Keys.Clear):
			c.chat.Reset()
			c.spinner.Stop()
			c.refresh()
			return c, nil
		case key.Matches(msg, c.ctx.Keys.PageUp), key.Matches(msg, c.ctx.Keys.PageDown):
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
		return c, c.input.Update(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return c, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.spinner, cmd = c.spinner.Update(msg)
	cmds = append(cmds, cmd, c.input.Update(msg))
	return c, tea.Batch(cmds...)
}

// submit appends the question and resolves it in the background. Blank
// questions are dropped before any request.
func (c *Chat) submit(text string) tea.Cmd {
	p, ok := c.chat.Submit(text)
	if !ok {
		return nil
	}
	c.refresh()
	logic := c.chat
	resolve := func() tea.Msg {
		ctx, cancel := c.ctx.call()
		defer cancel()
		return askResultMsg{res: logic.Resolve(ctx, p)}
	}
	return tea.Batch(c.spinner.Start(), resolve)
}

// vote rates the most recent answer.
func (c *Chat) vote(v model.Vote) tea.Cmd {
	id := c.chat.Conversation().LastAnswerID()
	if id == "" {
		return nil
	}
	logic, gen := c.chat, c.gen
	return func() tea.Msg {
		ctx, cancel := c.ctx.call()
		defer cancel()
		return voteResultMsg{gen: gen, answerID: id, vote: v, err: logic.Vote(ctx, id, v)}
	}
}

func (c *Chat) refresh() {
	msgs := c.chat.Messages()
	if len(msgs) == 0 {
		c.viewport.SetContent(c.ctx.Theme.Muted.Render("Ask anything about Mozaik. Answers cite the manuals they came from."))
		return
	}
	c.viewport.SetContent(c.messages.RenderAll(msgs))
	c.viewport.GotoBottom()
}

func (c *Chat) View() string {
	var b strings.Builder
	b.WriteString(c.viewport.View())
	b.WriteString("\n")
	if c.spinner.Active() {
		b.WriteString(c.ctx.Theme.Thinking.Render(c.spinner.View()))
	}
	b.WriteString("\n")
	b.WriteString(c.input.View())
	return b.String()
}
