// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the moe TUI.

Components are plain structs with View methods. The few that animate or take
input (Spinner, InputArea, Form) also have Bubble Tea style Update methods
returning a copy and a command.

# Key Types

  - Header: brand line, plan badge, quota hint and quota bar
  - Sidebar: page navigation, different for signed-in and anonymous users
  - MessageView: renders chat messages as bubbles with votes and sources
  - Markdown: glamour renderer cached per width
  - InputArea: single-line text input with a character counter
  - Form: labelled fields with focus cycling and password masking
  - Spinner: bubbles spinner with a message and elapsed timer
  - Toast: one-line status message that expires

# Usage

	header := components.NewHeader(theme)
	header.SetPlan(plan.Professional, 12)
	fmt.Println(header.View())
*/
package components
