// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Walnut - Primary accent, brand title, selections
var Walnut = lipgloss.AdaptiveColor{Light: "#7C4A1E", Dark: "#D9A066"}

// WalnutDeep - Darker walnut for badges and backgrounds
var WalnutDeep = lipgloss.AdaptiveColor{Light: "#5A3412", Dark: "#5A3412"}

// Maple - Secondary accent, user highlights, links
var Maple = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"}

// Slate - Sidebar and chrome
var Slate = lipgloss.AdaptiveColor{Light: "#334155", Dark: "#94A3B8"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Sage - Success, cached answers, paid plans
var Sage = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#86EFAC"}

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// RoseDeep - Darker rose for error backgrounds
var RoseDeep = lipgloss.AdaptiveColor{Light: "#FFE4E6", Dark: "#881337"}

// Amber - Warnings, quota and upgrade prompts
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// AmberDeep - Darker amber for upgrade backgrounds
var AmberDeep = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F4", Dark: "#141210"}
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FAFAF9", Dark: "#292524"}
var Overlay = lipgloss.AdaptiveColor{Light: "#E7E5E4", Dark: "#44403C"}

// =============================================================================
// TEXT COLORS
// =============================================================================

var TextPrimary = lipgloss.AdaptiveColor{Light: "#1C1917", Dark: "#F5F5F4"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#57534E", Dark: "#D6D3D1"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#78716C"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#44311A"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#D9A066"}
var BotBubbleBg = lipgloss.AdaptiveColor{Light: "#F5F5F4", Dark: "#292524"}
var BotBubbleBorder = lipgloss.AdaptiveColor{Light: "#A8A29E", Dark: "#78716C"}

// =============================================================================
// PLAN BADGES
// =============================================================================

// TierColor returns the badge background for a tier name.
func TierColor(tier string) lipgloss.AdaptiveColor {
	switch tier {
	case "hobbyist":
		return lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#164E63"}
	case "occasional":
		return lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#4C1D95"}
	case "professional":
		return lipgloss.AdaptiveColor{Light: "#047857", Dark: "#064E3B"}
	case "enterprise":
		return WalnutDeep
	default:
		return lipgloss.AdaptiveColor{Light: "#57534E", Dark: "#44403C"}
	}
}
