// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package plan

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// BillingCycle selects monthly or yearly pricing.
type BillingCycle string

const (
	Monthly BillingCycle = "monthly"
	Yearly  BillingCycle = "yearly"
)

// ParseCycle accepts monthly/yearly (and the short forms mo/yr).
func ParseCycle(s string) (BillingCycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monthly", "month", "mo":
		return Monthly, nil
	case "yearly", "annual", "year", "yr":
		return Yearly, nil
	}
	return "", fmt.Errorf("unknown billing cycle %q", s)
}

// Toggle flips between monthly and yearly.
func (c BillingCycle) Toggle() BillingCycle {
	if c == Yearly {
		return Monthly
	}
	return Yearly
}

// Suffix is the price unit shown after the amount ("/mo").
func (c BillingCycle) Suffix() string {
	if c == Yearly {
		return "/yr"
	}
	return "/mo"
}

// Offer is one card on the pricing page.
type Offer struct {
	Name        string
	Description string
	Tier        Tier

	// Prices in whole US cents.
	MonthlyCents int
	YearlyCents  int
}

var offers = []Offer{
	{Name: "Free", Description: "Start free and explore.", Tier: Free},
	{Name: "Pro", Description: "Great for professionals.", Tier: Professional, MonthlyCents: 2900, YearlyCents: 27900},
	{Name: "Enterprise", Description: "For large teams.", Tier: Enterprise, MonthlyCents: 14900, YearlyCents: 142800},
}

// Offers returns the pricing page cards in display order.
func Offers() []Offer {
	out := make([]Offer, len(offers))
	copy(out, offers)
	return out
}

// OfferFor returns the offer that sells t, if any.
func OfferFor(t Tier) (Offer, bool) {
	for _, o := range offers {
		if o.Tier == t {
			return o, true
		}
	}
	return Offer{}, false
}

// IsFree reports whether selecting the offer skips checkout.
func (o Offer) IsFree() bool {
	return o.Tier == Free
}

// PriceCents returns the price for the cycle.
func (o Offer) PriceCents(c BillingCycle) int {
	if c == Yearly {
		return o.YearlyCents
	}
	return o.MonthlyCents
}

// Price formats the price for the cycle the way the pricing page does
// ("$29", "$1,428").
func (o Offer) Price(c BillingCycle) string {
	cents := o.PriceCents(c)
	dollars := humanize.Comma(int64(cents / 100))
	if rem := cents % 100; rem != 0 {
		return fmt.Sprintf("$%s.%02d", dollars, rem)
	}
	return "$" + dollars
}
