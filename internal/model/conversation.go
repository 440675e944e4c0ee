// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the append-only message list of one mounted chat view.
// It is safe for concurrent use.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{messages: make([]Message, 0, 16)}
}

// Append adds msg at the end.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
}

// Messages returns a copy of the messages in insertion order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// UserMessageCount returns how many messages the user wrote.
func (c *Conversation) UserMessageCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, m := range c.messages {
		if m.IsUser() {
			n++
		}
	}
	return n
}

// ApplyVote sets the vote on every message carrying answerID and returns how
// many changed. Nothing else is touched and order is preserved.
func (c *Conversation) ApplyVote(answerID string, vote Vote) int {
	if answerID == "" {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i := range c.messages {
		if c.messages[i].AnswerID == answerID {
			c.messages[i].Vote = vote
			n++
		}
	}
	return n
}

// FindAnswer returns the message carrying answerID.
func (c *Conversation) FindAnswer(answerID string) (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.messages {
		if answerID != "" && m.AnswerID == answerID {
			return m, true
		}
	}
	return Message{}, false
}

// LastAnswerID returns the answer ID of the newest votable bot message.
func (c *Conversation) LastAnswerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Votable() {
			return c.messages[i].AnswerID
		}
	}
	return ""
}

// Clear drops every message. The chat view calls it when unmounted.
func (c *Conversation) Clear() {
	c.mu.Lock()
	c.messages = c.messages[:0]
	c.mu.Unlock()
}
