// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"fmt"
	"strings"
)

// =============================================================================
// PAGE
// =============================================================================

// Page identifies the top-level view that is mounted.
type Page int

const (
	PageHome Page = iota
	PageLogin
	PageSignup
	PageForgotPassword
	PageChat
	PageUpload
	PagePricing
	PagePayment

	pageCount
)

var pageNames = [pageCount]string{
	PageHome:           "home",
	PageLogin:          "login",
	PageSignup:         "signup",
	PageForgotPassword: "forgot-password",
	PageChat:           "chat",
	PageUpload:         "upload",
	PagePricing:        "pricing",
	PagePayment:        "payment",
}

// Pages returns every page in declaration order.
func Pages() []Page {
	out := make([]Page, 0, pageCount)
	for p := Page(0); p < pageCount; p++ {
		out = append(out, p)
	}
	return out
}

// Valid reports whether p is a known page.
func (p Page) Valid() bool {
	return p >= 0 && p < pageCount
}

// String returns the page identifier.
func (p Page) String() string {
	if !p.Valid() {
		return fmt.Sprintf("page(%d)", int(p))
	}
	return pageNames[p]
}

// Title returns the heading shown for the page.
func (p Page) Title() string {
	switch p {
	case PageHome:
		return "Moe – Your Mozaik Expert"
	case PageLogin:
		return "Sign In"
	case PageSignup:
		return "Create Account"
	case PageForgotPassword:
		return "Reset Password"
	case PageChat:
		return "Chat"
	case PageUpload:
		return "File Upload"
	case PagePricing:
		return "Pricing"
	case PagePayment:
		return "Checkout"
	default:
		return p.String()
	}
}

// ParsePage converts an identifier back to a Page.
func ParsePage(s string) (Page, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p := Page(0); p < pageCount; p++ {
		if pageNames[p] == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown page %q", s)
}

// =============================================================================
// EVENT
// =============================================================================

// Event is something that may move the controller to another page.
type Event int

const (
	EventSubmitQuery Event = iota
	EventSelectFreePlan
	EventSelectPaidPlan
	EventPaymentSucceeded
	EventLoginSucceeded
	EventSignupSucceeded
	EventLogout
	EventUnauthorized
	EventNavigate
	EventSwitchPlan
	EventPlanSynced

	eventCount
)

var eventNames = [eventCount]string{
	EventSubmitQuery:      "submit-query",
	EventSelectFreePlan:   "select-free-plan",
	EventSelectPaidPlan:   "select-paid-plan",
	EventPaymentSucceeded: "payment-succeeded",
	EventLoginSucceeded:   "login-succeeded",
	EventSignupSucceeded:  "signup-succeeded",
	EventLogout:           "logout",
	EventUnauthorized:     "unauthorized",
	EventNavigate:         "navigate",
	EventSwitchPlan:       "switch-plan",
	EventPlanSynced:       "plan-synced",
}

// String returns the event name.
func (e Event) String() string {
	if e < 0 || e >= eventCount {
		return fmt.Sprintf("event(%d)", int(e))
	}
	return eventNames[e]
}
