// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plan

import (
	"fmt"
	"strings"
)

// =============================================================================
// TIER
// =============================================================================

// Tier is a subscription level. The set is closed; Parse rejects anything
// else.
type Tier string

const (
	Free         Tier = "free"
	Hobbyist     Tier = "hobbyist"
	Occasional   Tier = "occasional"
	Professional Tier = "professional"
	Enterprise   Tier = "enterprise"
)

var tiers = []Tier{Free, Hobbyist, Occasional, Professional, Enterprise}

// All returns every tier from cheapest to most expensive.
func All() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// Parse converts a tier or offer name to a Tier. "pro" is accepted for
// Professional because that is what the pricing page calls it.
func Parse(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return Free, nil
	case "hobbyist":
		return Hobbyist, nil
	case "occasional":
		return Occasional, nil
	case "professional", "pro":
		return Professional, nil
	case "enterprise":
		return Enterprise, nil
	}
	return "", fmt.Errorf("unknown plan %q", s)
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	for _, known := range tiers {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the wire name.
func (t Tier) String() string {
	return string(t)
}

// DisplayName returns the name shown in the header badge ("Free Plan").
func (t Tier) DisplayName() string {
	if t == "" {
		return "Free Plan"
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:]) + " Plan"
}

// Next returns the following tier in price order, wrapping to Free. The
// demo plan switcher cycles with it.
func (t Tier) Next() Tier {
	for i, known := range tiers {
		if t == known {
			return tiers[(i+1)%len(tiers)]
		}
	}
	return Free
}

// =============================================================================
// ENTITLEMENTS
// =============================================================================

// Period is the window a quota resets over.
type Period int

const (
	PeriodNone Period = iota
	PeriodDay
	PeriodMonth
)

// String returns the period name.
func (p Period) String() string {
	switch p {
	case PeriodDay:
		return "day"
	case PeriodMonth:
		return "month"
	default:
		return "none"
	}
}

// Quota is the advisory query allowance for a tier. The backend enforces
// the real limit.
type Quota struct {
	Limit     int
	Period    Period
	Unlimited bool
}

// String renders the quota the way plan cards do ("5/day").
func (q Quota) String() string {
	if q.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d/%s", q.Limit, q.Period)
}

type entitlements struct {
	quota       Quota
	uploads     bool
	answerModel string
}

var table = map[Tier]entitlements{
	Free:         {Quota{Limit: 5, Period: PeriodDay}, false, "gpt-4o-mini"},
	Hobbyist:     {Quota{Limit: 100, Period: PeriodMonth}, true, "gpt-4o"},
	Occasional:   {Quota{Limit: 300, Period: PeriodMonth}, true, "gpt-4o"},
	Professional: {Quota{Limit: 600, Period: PeriodMonth}, true, "gpt-4o"},
	Enterprise:   {Quota{Limit: 5000, Period: PeriodMonth}, true, "gpt-4o"},
}

// lookup treats unknown tiers as Free so a bad value never unlocks features.
func lookup(t Tier) entitlements {
	if e, ok := table[t]; ok {
		return e
	}
	return table[Free]
}

// QuotaFor returns the query allowance for t.
func QuotaFor(t Tier) Quota {
	return lookup(t).quota
}

// CanUploadFiles reports whether t may upload project files for analysis.
func CanUploadFiles(t Tier) bool {
	return lookup(t).uploads
}

// IsFreeTier reports whether t is the free tier. Unknown tiers count as free.
func IsFreeTier(t Tier) bool {
	return !t.Valid() || t == Free
}

// AnswerModel returns the model that answers questions on t.
func AnswerModel(t Tier) string {
	return lookup(t).answerModel
}

// Remaining returns how many queries are left given used so far in the
// current period. ok is false for unlimited quotas.
func Remaining(t Tier, used int) (left int, ok bool) {
	q := QuotaFor(t)
	if q.Unlimited {
		return 0, false
	}
	left = q.Limit - used
	if left < 0 {
		left = 0
	}
	return left, true
}

// QuotaHint is the short line shown under the plan badge.
func QuotaHint(t Tier, used int) string {
	left, ok := Remaining(t, used)
	if !ok {
		return "Unlimited queries"
	}
	q := QuotaFor(t)
	window := "this month"
	if q.Period == PeriodDay {
		window = "today"
	}
	noun := "queries"
	if left == 1 {
		noun = "query"
	}
	return fmt.Sprintf("%d %s remaining %s", left, noun, window)
}
