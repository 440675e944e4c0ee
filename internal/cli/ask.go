// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot questions.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/chat"
	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/ui/components"
)

// AskData is the payload of the ask command.
type AskData struct {
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	AnswerID        string   `json:"answer_id,omitempty"`
	Model           string   `json:"model,omitempty"`
	Tokens          int      `json:"tokens,omitempty"`
	Cached          bool     `json:"cached"`
	Sources         []string `json:"sources,omitempty"`
	UpgradeRequired bool     `json:"upgrade_required,omitempty"`
}

// HandleAsk asks a single question. The question is taken from the
// arguments, or from stdin when it is "-" or missing and stdin is piped.
//
//	moe ask "How do I change the default door style?"
//	echo "Why is my CNC output missing dados?" | moe ask -
func HandleAsk(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	question := JoinPositionalArgs(f, 0)
	if (question == "" || question == "-") && !env.Interactive {
		b, err := io.ReadAll(io.LimitReader(env.In, 64<<10))
		if err != nil {
			return err
		}
		question = string(b)
	}
	if strings.TrimSpace(question) == "" || question == "-" {
		return ErrMissingArgument("question", `moe ask "How do I export a cut list?"`)
	}

	c := newChat(env, f)
	cctx, cancel := env.call(ctx)
	defer cancel()

	res, _ := c.Ask(cctx, question)
	if err := askError(res); err != nil {
		return err
	}

	data := AskData{Question: strings.TrimSpace(question)}
	if res.HasMessage {
		m := res.Message
		data.Answer = m.Text
		data.AnswerID = m.AnswerID
		data.Model = m.ModelUsed
		data.Tokens = m.TokensUsed
		data.Cached = m.IsCacheHit
		data.Sources = m.Sources
	}
	return env.emit("ask", data, func() {
		if !res.HasMessage {
			env.println(RenderConditional(DimStyle, "Moe had no answer for that question."))
			return
		}
		renderAnswer(env, res.Message)
	})
}

// newChat builds chat logic with the --platform and --version overrides.
func newChat(env *Env, f *ArgParser) *chat.Chat {
	cfg := env.App.Config.Ask
	return chat.New(env.App.API, chat.Options{
		Platform: f.FlagOrDefault("platform", cfg.Platform),
		Version:  f.FlagOrDefault("version", cfg.Version),
	}, env.App.Nav.Generation(), env.App.Log)
}

// askError turns a failed ask into the error a command returns. Quota
// refusals carry the upgrade prompt the chat view would show.
func askError(res chat.Result) error {
	if res.Err == nil {
		return nil
	}
	if api.IsUpgradeRequired(res.Err) {
		return &PlanError{Message: res.Message.Text, Err: res.Err}
	}
	return res.Err
}

// renderAnswer prints a bot answer with its sources and metadata. Markdown
// is rendered only for terminals.
func renderAnswer(env *Env, m model.Message) {
	text := m.Text
	if env.Interactive && env.App.Config.UI.Markdown {
		md := components.NewMarkdown(true, termenv.HasDarkBackground())
		text = strings.TrimRight(md.Render(text, GetTerminalWidth()-2), "\n")
	}
	env.println(text)

	if len(m.Sources) > 0 {
		env.println()
		env.println(RenderConditional(DimStyle, "Sources:"))
		for _, s := range m.Sources {
			env.printf("  - %s\n", s)
		}
	}
	if meta := m.Meta(); meta != "" && !env.Args.Quiet {
		env.println(RenderConditional(DimStyle, meta))
	}
}
