// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/ui/components"
	"github.com/abdulazeez2247/moe/internal/upload"
)

// Upload is the file upload page. Dropping files onto the terminal pastes
// their paths, so the input doubles as the drop zone.
type Upload struct {
	base
	up       *upload.Uploader
	input    *components.InputArea
	spinner  components.Spinner
	cursor   int
	history  []model.UploadedFile
	problem  string
	uploaded int
}

// NewUpload creates the upload page.
func NewUpload(ctx *Context) *Upload {
	in := components.NewInputArea(ctx.Theme, "Drop .cab, .cabx, .mzb or .xml files here, or paste their paths")
	in.Focus()
	u := &Upload{
		base:    newBase(ctx),
		up:      ctx.App.NewUploader(),
		input:   in,
		spinner: components.NewSpinner("Uploading"),
	}
	u.gen = u.up.Generation()
	return u
}

// Logic exposes the upload state.
func (u *Upload) Logic() *upload.Uploader { return u.up }

// Init loads earlier uploads when the plan allows uploading at all.
func (u *Upload) Init() tea.Cmd {
	if !u.up.Allowed() {
		return nil
	}
	logic, gen := u.up, u.gen
	return func() tea.Msg {
		ctx, cancel := u.ctx.call()
		defer cancel()
		files, err := logic.History(ctx)
		return historyMsg{gen: gen, files: files, err: err}
	}
}

func (u *Upload) SetSize(width, height int) {
	u.base.SetSize(width, height)
	u.input.SetWidth(width)
}

func (u *Upload) Typing() bool { return u.up.Allowed() }

func (u *Upload) Help() []string {
	if !u.up.Allowed() {
		return help(u.ctx.Keys.Upgrade)
	}
	return help(u.ctx.Keys.Submit, u.ctx.Keys.Up, u.ctx.Keys.Remove)
}

func (u *Upload) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadBatchMsg:
		if msg.batch.Generation != u.gen {
			return u, nil
		}
		u.spinner.Stop()
		u.up.Apply(msg.batch)
		u.problem = msg.batch.Message()
		if n := len(msg.batch.Added); n > 0 {
			u.uploaded += n
			return u, toast(fmt.Sprintf("Uploaded %d file(s). Analysis has started.", n), components.ToastSuccess)
		}
		return u, nil

	case historyMsg:
		if u.current(msg.gen) && msg.err == nil {
			u.history = msg.files
		}
		return u, nil

	case tea.KeyMsg:
		if !u.up.Allowed() {
			if key.Matches(msg, u.ctx.Keys.Upgrade) || key.Matches(msg, u.ctx.Keys.Submit) {
				return u, u.navigate(nav.PagePricing)
			}
			return u, nil
		}
		switch {
		case key.Matches(msg, u.ctx.Keys.Submit):
			return u, u.submit(u.input.Value())
		case key.Matches(msg, u.ctx.Keys.Up):
			u.move(-1)
			return u, nil
		case key.Matches(msg, u.ctx.Keys.Down):
			u.move(1)
			return u, nil
		case key.Matches(msg, u.ctx.Keys.Remove):
			u.removeSelected()
			return u, nil
		}
		return u, u.input.Update(msg)
	}

	var cmd tea.Cmd
	u.spinner, cmd = u.spinner.Update(msg)
	return u, tea.Batch(cmd, u.input.Update(msg))
}

// submit uploads every path in text. The plan gate runs before anything is
// read or sent.
func (u *Upload) submit(text string) tea.Cmd {
	if err := u.up.Gate(); err != nil {
		u.problem = upload.UpgradePrompt
		return nil
	}
	paths := upload.ParseDropped(text)
	if len(paths) == 0 {
		return nil
	}
	u.input.Reset()
	u.problem = ""
	logic := u.up
	run := func() tea.Msg {
		ctx, cancel := u.ctx.call()
		defer cancel()
		return uploadBatchMsg{batch: logic.UploadPaths(ctx, paths)}
	}
	return tea.Batch(u.spinner.Start(), run)
}

func (u *Upload) move(delta int) {
	n := len(u.up.Files())
	if n == 0 {
		u.cursor = 0
		return
	}
	u.cursor = ((u.cursor+delta)%n + n) % n
}

func (u *Upload) removeSelected() {
	files := u.up.Files()
	if len(files) == 0 {
		return
	}
	if u.cursor >= len(files) {
		u.cursor = len(files) - 1
	}
	u.up.Remove(files[u.cursor].ID)
	if u.cursor > 0 && u.cursor >= len(files)-1 {
		u.cursor--
	}
}

func (u *Upload) View() string {
	t := u.ctx.Theme
	var b strings.Builder
	b.WriteString(u.title(nav.PageUpload.Title()))
	b.WriteString("\n")

	if !u.up.Allowed() {
		b.WriteString(t.UpgradeBubble.Width(min(u.width-2, 70)).Render(
			upload.UpgradePrompt + "\n\n" + t.Link.Render(components.UpgradeAction) + t.Muted.Render("  (enter)")))
		return b.String()
	}

	b.WriteString(u.input.View())
	b.WriteString("\n")
	switch {
	case u.spinner.Active():
		b.WriteString(u.spinner.View())
	case u.problem != "":
		b.WriteString(t.Error.Render(u.problem))
	}
	b.WriteString("\n\n")

	files := u.up.Files()
	if len(files) == 0 {
		b.WriteString(t.Muted.Render("No files uploaded in this session."))
	} else {
		b.WriteString(t.Label.Render("This session"))
		b.WriteString("\n")
		for i, f := range files {
			b.WriteString(u.fileLine(f, i == u.cursor))
			b.WriteString("\n")
		}
	}

	if len(u.history) > 0 {
		b.WriteString("\n")
		b.WriteString(t.Label.Render("Earlier uploads"))
		b.WriteString("\n")
		for _, f := range u.history {
			b.WriteString(t.Muted.Render(fmt.Sprintf("  %s  %s  %s",
				components.Truncate(f.Name, 40), f.HumanSize(), f.UploadedAt.Format("2006-01-02"))))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (u *Upload) fileLine(f model.UploadedFile, selected bool) string {
	t := u.ctx.Theme
	marker := "  "
	if selected {
		marker = t.Link.Render("> ")
	}
	status := f.Status
	if status == "" {
		status = "uploaded"
	}
	return marker + components.Truncate(f.Name, 40) + "  " +
		t.Muted.Render(f.HumanSize()+" · "+status) + "\n    " +
		t.Meta.Render(f.Analysis)
}
