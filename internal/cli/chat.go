// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat with input history.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/chat"
	"github.com/abdulazeez2247/moe/internal/config"
	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/plan"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader supplies chat input one line at a time.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close()
}

// historyReader is the terminal reader: arrow-key history, line editing,
// history persisted between sessions.
type historyReader struct {
	line *liner.State
	path string
}

func newHistoryReader(path string) *historyReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	r := &historyReader{line: line, path: path}
	if f, err := os.Open(path); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *historyReader) ReadLine(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the
// terminal.
func (r *historyReader) Close() {
	defer r.line.Close()
	if r.path == "" || config.EnsureConfigDir() != nil {
		return
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = r.line.WriteHistory(f)
}

// plainReader reads piped input without prompts.
type plainReader struct {
	scanner *bufio.Scanner
}

func (r *plainReader) ReadLine(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *plainReader) Close() {}

// =============================================================================
// CHAT LOOP
// =============================================================================

const chatHelp = `Commands:
  /up, /down    Rate the last answer
  /clear        Start a new conversation
  /help         Show this help
  /quit         Leave (also ctrl+d)`

// HandleChat runs an interactive conversation until EOF or /quit. A 401
// ends the conversation since the session is gone.
func HandleChat(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	c := newChat(env, f)

	var in lineReader
	if env.Interactive {
		path, _ := env.App.Config.HistoryPath()
		in = newHistoryReader(path)
	} else {
		in = &plainReader{scanner: bufio.NewScanner(env.In)}
	}
	defer in.Close()

	syncPlan(ctx, env)
	if env.Interactive && !env.Args.Quiet {
		printChatWelcome(env)
	}

	prompt := RenderConditional(PromptStyle, "moe> ")
	for ctx.Err() == nil {
		input, err := in.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		input = strings.TrimSpace(input)
		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "exit"), strings.EqualFold(input, "quit"):
			printChatSummary(env, c)
			return nil
		case strings.HasPrefix(input, "/"):
			if !chatCommand(ctx, env, c, input) {
				printChatSummary(env, c)
				return nil
			}
			continue
		}

		if err := chatTurn(ctx, env, c, input); err != nil {
			return err
		}
	}
	printChatSummary(env, c)
	return nil
}

// chatTurn asks one question and prints the reply. Only a lost session is
// fatal; other failures print and the loop goes on.
func chatTurn(ctx context.Context, env *Env, c *chat.Chat, input string) error {
	cctx, cancel := env.call(ctx)
	defer cancel()

	res, ok := c.Ask(cctx, input)
	if !ok {
		return nil
	}
	switch {
	case res.Err == nil && !res.HasMessage:
		env.println(RenderConditional(DimStyle, "(no answer)"))
	case res.Err == nil:
		renderAnswer(env, res.Message)
	case errors.Is(res.Err, api.ErrUnauthorized):
		return res.Err
	case res.Message.UpgradeRequired:
		env.println(RenderConditional(WarningStyle, res.Message.Text))
	default:
		env.println(RenderConditional(ErrorStyle, res.Message.Text))
	}
	env.println()
	return nil
}

// chatCommand runs a slash command. It returns false to end the chat.
func chatCommand(ctx context.Context, env *Env, c *chat.Chat, input string) bool {
	name, _, _ := strings.Cut(strings.ToLower(input), " ")
	switch name {
	case "/quit", "/exit", "/q":
		return false
	case "/help", "/?":
		env.println(chatHelp)
	case "/clear", "/new":
		c.Reset()
		env.println(RenderConditional(DimStyle, "Conversation cleared."))
	case "/up", "/down":
		vote, _ := model.ParseVote(strings.TrimPrefix(name, "/"))
		id := lastVotable(c.Messages())
		if id == "" {
			env.println(RenderConditional(WarningStyle, "Nothing to rate yet."))
			break
		}
		cctx, cancel := env.call(ctx)
		err := c.Vote(cctx, id, vote)
		cancel()
		if err != nil {
			env.println(RenderConditional(ErrorStyle, "Could not record your rating."))
			break
		}
		env.println(RenderConditional(SuccessStyle, "Thanks for the feedback."))
	default:
		env.printf("Unknown command %s. Type /help.\n", name)
	}
	return true
}

// lastVotable returns the answer ID of the newest rateable answer.
func lastVotable(msgs []model.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Votable() {
			return msgs[i].AnswerID
		}
	}
	return ""
}

func printChatWelcome(env *Env) {
	tier := env.App.Nav.Plan()
	env.println(RenderConditional(TitleStyle, "Moe") + "  " + RenderTierBadge(tier.String(), tier.DisplayName()))
	if !env.App.Session.IsAuthenticated() {
		env.println(RenderConditional(DimStyle, "Not signed in. Free questions are limited; run 'moe login' for your plan."))
	}
	env.println(RenderConditional(DimStyle, "Type /help for commands, ctrl+d to leave."))
	env.println()
}

func printChatSummary(env *Env, c *chat.Chat) {
	if env.Args.Quiet {
		return
	}
	n := c.Answered()
	env.println(RenderConditional(DimStyle, fmt.Sprintf("%d %s answered.", n, pluralize(n, "question", "questions"))))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// syncPlan adopts the server's plan when signed in. Failures are logged
// only; commands fall back to the local plan.
func syncPlan(ctx context.Context, env *Env) {
	if !env.App.Session.IsAuthenticated() {
		return
	}
	cctx, cancel := env.call(ctx)
	defer cancel()
	if _, err := env.App.SyncPlan(cctx); err != nil {
		env.App.Log.Debug("plan sync failed", zap.Error(err))
	}
}

// tierLabel renders tier for listings.
func tierLabel(t plan.Tier) string {
	return RenderTierBadge(t.String(), t.DisplayName())
}
