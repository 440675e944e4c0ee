// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pages holds one Bubble Tea sub-model per navigation page.
//
// A page is built by Mount when the controller moves to it and is thrown
// away on the next move. Each page records the navigation generation it was
// built under; background results carry that generation and are ignored by
// any other page.
//
// # Key Types
//
//   - Page: the sub-model interface the root model drives
//   - Context: app, theme, keys and markdown renderer shared by pages
//   - Home, Login, Signup, Forgot, Chat, Upload, Pricing, Payment
//
// # Usage
//
//	ctx := pages.NewContext(a, theme)
//	page := pages.Mount(ctx, a.Nav.Page())
//	cmd := page.Init()
package pages
