// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/api/apitest"
	"github.com/abdulazeez2247/moe/internal/model"
)

// countingGateway records calls and answers every question.
type countingGateway struct {
	mu      sync.Mutex
	asks    []api.AskRequest
	votes   []string
	voteErr error
	askErr  error
	answer  string
}

func (g *countingGateway) Ask(_ context.Context, in api.AskRequest) (*api.Answer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.asks = append(g.asks, in)
	if g.askErr != nil {
		return nil, g.askErr
	}
	text := g.answer
	if text == "" {
		text = "answer: " + in.Message
	}
	return &api.Answer{Answer: text, AnswerID: "ans-" + in.Message, ModelUsed: "gpt-4o"}, nil
}

func (g *countingGateway) Vote(_ context.Context, answerID, vote string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.votes = append(g.votes, answerID+":"+vote)
	return g.voteErr
}

func (g *countingGateway) askCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.asks)
}

func TestUserMessagesMatchNonEmptySubmits(t *testing.T) {
	inputs := []string{"", "  ", "\t\n", "kerf", " a ", "x", "   y", " ", "z"}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		gw := &countingGateway{}
		c := New(gw, Options{}, 1, nil)

		want := 0
		for i := 0; i < 30; i++ {
			in := inputs[rng.Intn(len(inputs))]
			if strings.TrimSpace(in) != "" {
				want++
			}
			c.Ask(context.Background(), in)
		}

		assert.Equal(t, want, c.Conversation().UserMessageCount())
		assert.Equal(t, want, gw.askCount())
	}
}

func TestBlankSubmitDoesNothing(t *testing.T) {
	gw := &countingGateway{}
	c := New(gw, Options{}, 1, nil)

	for _, in := range []string{"", " ", "\n\t  "} {
		_, ok := c.Submit(in)
		assert.False(t, ok)
		_, ok = c.Ask(context.Background(), in)
		assert.False(t, ok)
	}
	assert.Empty(t, c.Messages())
	assert.Zero(t, gw.askCount())
	assert.False(t, c.Loading())
}

func TestSubmitAppendsImmediately(t *testing.T) {
	c := New(&countingGateway{}, Options{}, 3, nil)
	p, ok := c.Submit("  What is kerf?  ")
	require.True(t, ok)
	assert.Equal(t, "What is kerf?", p.Text)
	assert.Equal(t, uint64(3), p.Generation)
	assert.True(t, c.Loading())

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
}

func TestAskPayload(t *testing.T) {
	gw := &countingGateway{}
	New(gw, Options{}, 1, nil).Ask(context.Background(), "q")
	New(gw, Options{Platform: "cabinetvision", Version: "12"}, 1, nil).Ask(context.Background(), "q")

	require.Len(t, gw.asks, 2)
	assert.Equal(t, "mozaik", gw.asks[0].Platform)
	assert.Nil(t, gw.asks[0].Version)
	assert.Equal(t, "cabinetvision", gw.asks[1].Platform)
	require.NotNil(t, gw.asks[1].Version)
	assert.Equal(t, "12", *gw.asks[1].Version)
}

func TestSuccessfulAnswer(t *testing.T) {
	srv := apitest.New(t)
	c := New(api.New(srv.BaseURL(), nil), Options{}, 1, nil)

	r, ok := c.Ask(context.Background(), "What is kerf?")
	require.True(t, ok)
	require.NoError(t, r.Err)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	bot := msgs[1]
	assert.Equal(t, model.SenderBot, bot.Sender)
	assert.Equal(t, "Answer to: What is kerf?", bot.Text)
	assert.Equal(t, "gpt-4o-mini", bot.ModelUsed)
	assert.Equal(t, 42, bot.TokensUsed)
	assert.True(t, bot.IsCacheHit)
	assert.NotEmpty(t, bot.AnswerID)
	assert.Len(t, bot.Sources, 2)
	assert.False(t, bot.IsError)
	assert.Equal(t, 1, c.Answered())
}

func TestQuotaExhaustedGivesOneUpgradeMessage(t *testing.T) {
	srv := apitest.New(t)
	srv.SetFreeQuota(0)
	c := New(api.New(srv.BaseURL(), nil), Options{}, 1, nil)

	before := c.Conversation().Len()
	r, ok := c.Ask(context.Background(), "What is kerf?")
	require.True(t, ok)
	assert.True(t, api.IsUpgradeRequired(r.Err))

	msgs := c.Messages()
	require.Len(t, msgs, before+2, "one user message and exactly one bot message")
	var bots []model.Message
	for _, m := range msgs {
		if m.Sender == model.SenderBot {
			bots = append(bots, m)
		}
	}
	require.Len(t, bots, 1)
	assert.True(t, bots[0].UpgradeRequired)
	assert.False(t, bots[0].IsError)
	assert.Equal(t, UpgradeText("What is kerf?"), bots[0].Text)
	assert.Contains(t, bots[0].Text, `"What is kerf?"`)
	assert.Zero(t, c.Answered())
}

func TestOtherFailures(t *testing.T) {
	gw := &countingGateway{askErr: &api.RequestError{Op: "ask", Status: 500, Message: "Model overloaded"}}
	c := New(gw, Options{}, 1, nil)
	c.Ask(context.Background(), "q")
	last, _ := c.Conversation().Last()
	assert.True(t, last.IsError)
	assert.False(t, last.UpgradeRequired)
	assert.Equal(t, "Model overloaded", last.Text)

	gw.askErr = errors.New("dial tcp: connection refused")
	c.Ask(context.Background(), "q")
	last, _ = c.Conversation().Last()
	assert.True(t, last.IsError)
	assert.Equal(t, GenericError, last.Text)
}

func TestEmptyAnswerAppendsNothing(t *testing.T) {
	gw := &countingGateway{}
	c := New(gw, Options{}, 1, nil)
	p, _ := c.Submit("q")
	r := Result{Generation: p.Generation}
	assert.False(t, c.Apply(r))
	assert.Len(t, c.Messages(), 1)
	assert.False(t, c.Loading())
}

func TestStaleResultDropped(t *testing.T) {
	gw := &countingGateway{}
	old := New(gw, Options{}, 1, nil)
	p, _ := old.Submit("q")
	r := old.Resolve(context.Background(), p)

	// The view was remounted before the answer arrived.
	fresh := New(gw, Options{}, 2, nil)
	assert.False(t, fresh.Apply(r))
	assert.Empty(t, fresh.Messages())
}

func TestAnswersAppendInCompletionOrder(t *testing.T) {
	c := New(&countingGateway{}, Options{}, 1, nil)
	p1, _ := c.Submit("slow")
	p2, _ := c.Submit("fast")

	r2 := c.Resolve(context.Background(), p2)
	r1 := c.Resolve(context.Background(), p1)
	c.Apply(r2)
	c.Apply(r1)

	msgs := c.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "answer: fast", msgs[2].Text)
	assert.Equal(t, "answer: slow", msgs[3].Text)
}

func TestVoteUpdatesOnlyMatchingMessage(t *testing.T) {
	gw := &countingGateway{}
	c := New(gw, Options{}, 1, nil)
	for _, q := range []string{"a", "b", "c"} {
		c.Ask(context.Background(), q)
	}
	before := c.Messages()

	require.NoError(t, c.Vote(context.Background(), "ans-b", model.VoteUp))
	after := c.Messages()

	require.Len(t, after, len(before))
	for i := range before {
		if before[i].AnswerID == "ans-b" {
			assert.Equal(t, model.VoteUp, after[i].Vote)
			after[i].Vote = before[i].Vote
		}
		assert.Equal(t, before[i], after[i])
	}
	assert.Equal(t, []string{"ans-b:up"}, gw.votes)
}

func TestVoteFailureLeavesConversation(t *testing.T) {
	gw := &countingGateway{voteErr: errors.New("boom")}
	c := New(gw, Options{}, 1, nil)
	c.Ask(context.Background(), "a")
	before := c.Messages()

	assert.Error(t, c.Vote(context.Background(), "ans-a", model.VoteDown))
	assert.Equal(t, before, c.Messages())

	assert.Error(t, c.Vote(context.Background(), "", model.VoteUp))
}

func TestReset(t *testing.T) {
	c := New(&countingGateway{}, Options{}, 1, nil)
	c.Ask(context.Background(), "a")
	c.Reset()
	assert.Empty(t, c.Messages())
}

func TestAnswerAskedBeforeResetIsDropped(t *testing.T) {
	ctx := context.Background()
	c := New(&countingGateway{}, Options{}, 1, nil)

	p, ok := c.Submit("first")
	require.True(t, ok)
	late := c.Resolve(ctx, p)

	c.Reset()
	assert.False(t, c.Apply(late))
	assert.Empty(t, c.Messages(), "a cleared chat must not receive an orphan answer")
	assert.Zero(t, c.Answered())

	p2, ok := c.Submit("second")
	require.True(t, ok)
	assert.True(t, c.Loading(), "the new question is still in flight")

	require.True(t, c.Apply(c.Resolve(ctx, p2)))
	assert.False(t, c.Loading())
	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsUser())
	assert.Equal(t, "second", msgs[0].Text)
	assert.Equal(t, "answer: second", msgs[1].Text)
}

func TestLongConversationKeepsEveryQuestion(t *testing.T) {
	gw := &countingGateway{}
	c := New(gw, Options{}, 1, nil)
	const n = 1200
	for i := 0; i < n; i++ {
		_, ok := c.Ask(context.Background(), fmt.Sprintf("q%d", i))
		require.True(t, ok, "question %d refused", i)
	}
	assert.Equal(t, n, c.Conversation().UserMessageCount())
	assert.Equal(t, n, gw.askCount())
	assert.Len(t, c.Messages(), 2*n)
}
