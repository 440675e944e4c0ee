// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat view without rendering it.
//
// A question goes through three steps so the UI can stay responsive:
// Submit appends the user's message at once and returns a Pending; Resolve
// calls the backend (in a goroutine or tea.Cmd); Apply appends the reply if
// the view that asked is still the mounted one. Answers are appended in the
// order they complete.
//
// # Usage
//
//	c := chat.New(client, chat.Options{Platform: "mozaik"}, ctrl.Generation(), logger)
//	if p, ok := c.Submit(input); ok {
//	    go func() { results <- c.Resolve(ctx, p) }()
//	}
//	// later, on the UI loop:
//	c.Apply(<-results)
package chat
