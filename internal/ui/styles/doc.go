// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the moe TUI.

All colors use Lip Gloss AdaptiveColor so the same palette works on light
and dark terminals. The palette is built around warm wood tones.

# Color System

  - Walnut - brand title, selections, active navigation
  - Maple - links, keys in help text, user highlights
  - Sage - success and cached answers
  - Amber - quota warnings and upgrade prompts
  - Rose - errors

Plan badges get their own background per tier via TierColor.

# Key Types

  - Theme: every lipgloss.Style the components use, plus terminal size
  - LayoutMode: narrow (no sidebar) or wide

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(msg.Width, msg.Height)
	title := theme.Brand.Render("Moe")
*/
package styles
