// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bot(text, answerID string) Message {
	m := NewBotMessage(text)
	m.AnswerID = answerID
	return m
}

func TestConversationAppendOnly(t *testing.T) {
	c := NewConversation()
	c.Append(NewUserMessage("one"))
	c.Append(bot("answer one", "a1"))
	c.Append(NewUserMessage("two"))

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "answer one", msgs[1].Text)
	assert.Equal(t, "two", msgs[2].Text)
	assert.Equal(t, 2, c.UserMessageCount())

	// Mutating the returned copy does not leak back.
	msgs[0].Text = "changed"
	assert.Equal(t, "one", c.Messages()[0].Text)
}

func TestApplyVoteTouchesOnlyMatchingAnswer(t *testing.T) {
	c := NewConversation()
	c.Append(NewUserMessage("q1"))
	c.Append(bot("a1", "ans-1"))
	c.Append(NewUserMessage("q2"))
	c.Append(bot("a2", "ans-2"))

	before := c.Messages()
	n := c.ApplyVote("ans-2", VoteUp)
	assert.Equal(t, 1, n)

	after := c.Messages()
	require.Len(t, after, len(before))
	for i := range before {
		if before[i].AnswerID == "ans-2" {
			assert.Equal(t, VoteUp, after[i].Vote)
			expected := before[i]
			expected.Vote = VoteUp
			assert.Equal(t, expected, after[i])
			continue
		}
		assert.Equal(t, before[i], after[i])
	}

	assert.Equal(t, 0, c.ApplyVote("missing", VoteDown))
	assert.Equal(t, 0, c.ApplyVote("", VoteDown), "empty answer ID matches user messages otherwise")
}

func TestConversationGrowsWithoutLimit(t *testing.T) {
	c := NewConversation()
	for i := 0; i < 2500; i++ {
		c.Append(NewUserMessage(fmt.Sprintf("q%d", i)))
	}
	require.Equal(t, 2500, c.Len())
	assert.Equal(t, 2500, c.UserMessageCount())

	first := c.Messages()[0]
	assert.Equal(t, "q0", first.Text, "old messages are kept")
	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "q2499", last.Text)
}

func TestLastAnswerID(t *testing.T) {
	c := NewConversation()
	assert.Empty(t, c.LastAnswerID())

	c.Append(bot("a1", "ans-1"))
	failed := bot("oops", "")
	failed.IsError = true
	c.Append(failed)
	assert.Equal(t, "ans-1", c.LastAnswerID())

	last, ok := c.Last()
	require.True(t, ok)
	assert.True(t, last.IsError)

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestMessageMeta(t *testing.T) {
	m := bot("answer", "a")
	assert.Empty(t, m.Meta())

	m.ModelUsed = "gpt-4o"
	m.TokensUsed = 412
	m.IsCacheHit = true
	assert.Equal(t, "gpt-4o · 412 tokens · cached", m.Meta())
	assert.True(t, m.Votable())
	assert.False(t, NewUserMessage("q").Votable())
}

func TestParseVote(t *testing.T) {
	v, err := ParseVote("UP")
	require.NoError(t, err)
	assert.Equal(t, VoteUp, v)

	v, err = ParseVote("-")
	require.NoError(t, err)
	assert.Equal(t, VoteDown, v)

	_, err = ParseVote("sideways")
	assert.Error(t, err)
}

func TestSenderDisplayName(t *testing.T) {
	assert.Equal(t, "You", SenderUser.DisplayName())
	assert.Equal(t, "Moe", SenderBot.DisplayName())
}

func TestUploadedFileHumanSize(t *testing.T) {
	f := UploadedFile{Size: 2048}
	assert.Equal(t, "2.0 kB", f.HumanSize())
}
