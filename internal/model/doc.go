// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the client-side data structures for conversations
// and uploaded files.
//
// # Key Types
//
//   - Message: one user question or bot answer, with vote and answer metadata
//   - Conversation: append-only, concurrency-safe list of messages
//   - UploadedFile: an entry in the upload view with its placeholder analysis
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserMessage("What is kerf?"))
//	conv.ApplyVote(answerID, model.VoteUp)
package model
