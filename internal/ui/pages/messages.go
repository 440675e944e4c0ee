// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/billing"
	"github.com/abdulazeez2247/moe/internal/chat"
	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/ui/components"
	"github.com/abdulazeez2247/moe/internal/upload"
)

// =============================================================================
// MESSAGES TO THE ROOT MODEL
// =============================================================================

// ToastMsg asks the root model to show a status line.
type ToastMsg struct {
	Text string
	Kind components.ToastKind
}

// AnsweredMsg reports one more answered question against the quota.
type AnsweredMsg struct{}

func toast(text string, kind components.ToastKind) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: text, Kind: kind} }
}

func answered() tea.Msg { return AnsweredMsg{} }

// =============================================================================
// GATEWAY RESULTS
// =============================================================================

// Every result carries the generation of the page that asked for it.

type askResultMsg struct {
	res chat.Result
}

type voteResultMsg struct {
	gen      uint64
	answerID string
	vote     model.Vote
	err      error
}

type uploadBatchMsg struct {
	batch upload.Batch
}

type historyMsg struct {
	gen   uint64
	files []model.UploadedFile
	err   error
}

type knowledgeMsg struct {
	gen    uint64
	status *api.KnowledgeStatus
	err    error
}

type authDoneMsg struct {
	gen uint64
	err error
}

type checkoutMsg struct {
	gen uint64
	co  *billing.Checkout
	err error
}

type paymentDoneMsg struct {
	gen uint64
	err error
}
