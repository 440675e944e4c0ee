// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Moe"
	default:
		return string(s)
	}
}

// =============================================================================
// VOTE TYPE
// =============================================================================

// Vote is a user's rating of a bot answer.
type Vote string

const (
	VoteNone Vote = ""
	VoteUp   Vote = "up"
	VoteDown Vote = "down"
)

// ParseVote accepts up/down (and +/-).
func ParseVote(s string) (Vote, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "+", "+1":
		return VoteUp, nil
	case "down", "-", "-1":
		return VoteDown, nil
	}
	return VoteNone, fmt.Errorf("invalid vote %q (want up or down)", s)
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry in a conversation. Messages are values; the
// conversation hands out copies.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Text string `json:"text"`

	// Answer metadata (bot messages)
	AnswerID   string   `json:"answer_id,omitempty"`
	Vote       Vote     `json:"vote,omitempty"`
	Sources    []string `json:"sources,omitempty"`
	ModelUsed  string   `json:"model_used,omitempty"`
	TokensUsed int      `json:"tokens_used,omitempty"`
	IsCacheHit bool     `json:"is_cache_hit,omitempty"`

	// Failure flags
	IsError         bool `json:"is_error,omitempty"`
	UpgradeRequired bool `json:"upgrade_required,omitempty"`
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    SenderUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewBotMessage creates a bot message with a generated ID.
func NewBotMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    SenderBot,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// Votable reports whether the message can be rated.
func (m Message) Votable() bool {
	return m.Sender == SenderBot && m.AnswerID != "" && !m.IsError && !m.UpgradeRequired
}

// Meta returns the short metadata line shown under a bot answer
// ("gpt-4o · 412 tokens · cached").
func (m Message) Meta() string {
	if m.Sender != SenderBot || m.ModelUsed == "" {
		return ""
	}
	parts := []string{m.ModelUsed}
	if m.TokensUsed > 0 {
		parts = append(parts, fmt.Sprintf("%d tokens", m.TokensUsed))
	}
	if m.IsCacheHit {
		parts = append(parts, "cached")
	}
	return strings.Join(parts, " · ")
}
