// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/logging"
	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/util"
)

// GenericError is shown when a failed ask carries no server message.
const GenericError = "Something went wrong. Please try again."

// DefaultPlatform is sent with every question unless configured otherwise.
const DefaultPlatform = "mozaik"

// UpgradeText is the bot reply when the question quota is exhausted.
func UpgradeText(question string) string {
	return fmt.Sprintf("I'd love to help with \"%s\", but you've reached your daily limit. Upgrade to continue getting expert millwork guidance.", question)
}

// Gateway is the subset of the API client the chat view calls.
type Gateway interface {
	Ask(ctx context.Context, in api.AskRequest) (*api.Answer, error)
	Vote(ctx context.Context, answerID, vote string) error
}

// Options configures the ask payload.
type Options struct {
	Platform string
	// Version is sent as null when empty.
	Version string
}

// Pending is a submitted question whose answer has not arrived.
type Pending struct {
	Text       string
	Generation uint64
	Epoch      uint64
}

// Result is the outcome of a Pending ask. Message is the bot reply to
// append; HasMessage is false when the backend answered with nothing.
type Result struct {
	Generation uint64
	Epoch      uint64
	Message    model.Message
	HasMessage bool
	Err        error
}

// =============================================================================
// CHAT
// =============================================================================

// Chat is the logic of one mounted chat view. Its generation is fixed when
// it is created; results from any other generation are dropped. Reset starts
// a new epoch, and results asked in an earlier epoch are dropped as well.
type Chat struct {
	gw       Gateway
	conv     *model.Conversation
	platform string
	version  *string
	gen      uint64
	log      *zap.Logger

	epoch    atomic.Uint64
	inflight atomic.Int32
	answered atomic.Int32
}

// New creates the chat logic for a view mounted under generation gen.
func New(gw Gateway, opts Options, gen uint64, log *zap.Logger) *Chat {
	platform := opts.Platform
	if platform == "" {
		platform = DefaultPlatform
	}
	var version *string
	if opts.Version != "" {
		v := opts.Version
		version = &v
	}
	return &Chat{
		gw:       gw,
		conv:     model.NewConversation(),
		platform: platform,
		version:  version,
		gen:      gen,
		log:      logging.OrNop(log).Named("chat"),
	}
}

// Generation returns the generation this view was mounted under.
func (c *Chat) Generation() uint64 {
	return c.gen
}

// Conversation returns the message list.
func (c *Chat) Conversation() *model.Conversation {
	return c.conv
}

// Messages returns a copy of the conversation.
func (c *Chat) Messages() []model.Message {
	return c.conv.Messages()
}

// Loading reports whether any ask is in flight.
func (c *Chat) Loading() bool {
	return c.inflight.Load() > 0
}

// Answered returns how many questions got an answer in this view.
func (c *Chat) Answered() int {
	return int(c.answered.Load())
}

// Submit appends the user's message and returns the ask to perform. Blank
// input appends nothing and returns ok=false; no request must follow.
func (c *Chat) Submit(text string) (Pending, bool) {
	text = util.NormalizeInput(text)
	if text == "" {
		return Pending{}, false
	}
	c.conv.Append(model.NewUserMessage(text))
	c.inflight.Add(1)
	return Pending{Text: text, Generation: c.gen, Epoch: c.epoch.Load()}, true
}

// Resolve performs the ask for p and builds the bot reply. It blocks and is
// meant to run off the UI loop; it does not touch the conversation.
func (c *Chat) Resolve(ctx context.Context, p Pending) Result {
	answer, err := c.gw.Ask(ctx, api.AskRequest{Message: p.Text, Platform: c.platform, Version: c.version})
	if err != nil {
		return Result{Generation: p.Generation, Epoch: p.Epoch, Message: failureMessage(p.Text, err), HasMessage: true, Err: err}
	}
	if answer.Answer == "" {
		c.log.Warn("empty answer from backend")
		return Result{Generation: p.Generation, Epoch: p.Epoch}
	}

	msg := model.NewBotMessage(answer.Answer)
	msg.AnswerID = answer.AnswerID
	msg.ModelUsed = answer.ModelUsed
	msg.TokensUsed = answer.Tokens
	msg.IsCacheHit = answer.IsCacheHit
	msg.Sources = answer.SourceStrings()
	return Result{Generation: p.Generation, Epoch: p.Epoch, Message: msg, HasMessage: true}
}

// failureMessage turns an ask error into the bot reply: an upgrade prompt
// for quota errors, an error message for everything else.
func failureMessage(question string, err error) model.Message {
	if api.IsUpgradeRequired(err) {
		msg := model.NewBotMessage(UpgradeText(question))
		msg.UpgradeRequired = true
		return msg
	}
	msg := model.NewBotMessage(api.MessageOr(err, GenericError))
	msg.IsError = true
	return msg
}

// Apply appends r's reply when r belongs to this view. It returns false for
// stale results, which are dropped without touching the conversation.
func (c *Chat) Apply(r Result) bool {
	if r.Generation != c.gen {
		c.log.Debug("dropping stale answer", zap.Uint64("generation", r.Generation), zap.Uint64("current", c.gen))
		return false
	}
	if r.Epoch != c.epoch.Load() {
		c.log.Debug("dropping answer asked before clear", zap.Uint64("epoch", r.Epoch))
		return false
	}
	c.inflight.Add(-1)
	if r.Err != nil {
		c.log.Info("ask failed", zap.Error(r.Err))
	}
	if !r.HasMessage {
		return false
	}
	if r.Err == nil {
		c.answered.Add(1)
	}
	c.conv.Append(r.Message)
	return true
}

// Ask runs Submit, Resolve and Apply in sequence. The line-mode chat and
// the ask command use it.
func (c *Chat) Ask(ctx context.Context, text string) (Result, bool) {
	p, ok := c.Submit(text)
	if !ok {
		return Result{}, false
	}
	r := c.Resolve(ctx, p)
	c.Apply(r)
	return r, true
}

// Vote rates an answer. Only a successful vote changes the conversation, and
// then only the messages carrying answerID. Failures are logged and
// returned for callers that care; the view ignores them.
func (c *Chat) Vote(ctx context.Context, answerID string, vote model.Vote) error {
	if answerID == "" || vote == model.VoteNone {
		return fmt.Errorf("vote: answer ID and vote are required")
	}
	if err := c.gw.Vote(ctx, answerID, string(vote)); err != nil {
		c.log.Info("vote failed", zap.String("answer_id", answerID), zap.Error(err))
		return err
	}
	c.conv.ApplyVote(answerID, vote)
	return nil
}

// Reset clears the conversation and starts a new epoch, so answers to
// questions asked before the clear never land. Called when the view is
// cleared or unmounted.
func (c *Chat) Reset() {
	c.epoch.Add(1)
	c.conv.Clear()
	c.inflight.Store(0)
}
