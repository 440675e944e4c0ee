// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across moe.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//   - RemoveIfExists: idempotent delete
//
// Display Helpers:
//   - TruncateWidth, PadRight, StringWidth: column-aware layout via go-runewidth
//   - NormalizeInput: trim + NFC normalization for user input
//   - WrapWidth: word wrapping by display columns
//   - HumanBytes, HumanCount: go-humanize formatting for sizes and quotas
//
// # Usage
//
//	// Persist the session token without ever leaving a half-written file
//	err := util.AtomicWriteFile(path, data, 0600)
//
//	// Fit a file name into a 30-column table cell
//	cell := util.TruncateWidth(name, 30)
package util
