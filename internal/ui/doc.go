// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui is the full-screen terminal client.
//
// The root Model draws the header (plan badge and quota), the sidebar and
// the footer, and mounts one page from package pages at a time. The
// navigation controller decides which page; Model only notices that the
// generation moved and remounts.
//
// # Key Types
//
//   - Model: root Bubble Tea model
//   - KeyMap: global bindings (quit, menu, sign out, demo plan switcher)
//
// # Usage
//
//	if err := ui.Run(ctx, a); err != nil {
//	    return err
//	}
package ui
