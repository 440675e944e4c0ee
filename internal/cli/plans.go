// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// plans.go - Pricing, checkout and usage commands.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abdulazeez2247/moe/internal/billing"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/util"
)

// OfferData is one row of the plans command.
type OfferData struct {
	Tier       string `json:"tier"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	PriceCents int    `json:"price_cents"`
	Cycle      string `json:"cycle"`
	Quota      string `json:"quota"`
	Uploads    bool   `json:"uploads"`
	Current    bool   `json:"current"`
}

// cycleFlag reads --yearly or --cycle.
func cycleFlag(f *ArgParser) (plan.BillingCycle, error) {
	if f.BoolFlag("yearly", "annual") {
		return plan.Yearly, nil
	}
	return plan.ParseCycle(f.Flag("cycle"))
}

// HandlePlans lists the offers with prices for the chosen cycle.
func HandlePlans(ctx context.Context, env *Env) error {
	f := env.Args.Flags("yearly", "annual")
	cycle, err := cycleFlag(f)
	if err != nil {
		return &ValidationError{Field: "cycle", Value: f.Flag("cycle"), Reason: err.Error(), Example: "moe plans --cycle yearly"}
	}
	syncPlan(ctx, env)
	current := env.App.Nav.Plan()

	rows := make([]OfferData, 0, len(plan.Offers()))
	for _, o := range plan.Offers() {
		price := "Free"
		if !o.IsFree() {
			price = o.Price(cycle) + cycle.Suffix()
		}
		rows = append(rows, OfferData{
			Tier:       o.Tier.String(),
			Name:       o.Name,
			Price:      price,
			PriceCents: o.PriceCents(cycle),
			Cycle:      string(cycle),
			Quota:      plan.QuotaFor(o.Tier).String(),
			Uploads:    plan.CanUploadFiles(o.Tier),
			Current:    o.Tier == current,
		})
	}

	return env.emit("plans", rows, func() {
		env.println(RenderConditional(TitleStyle, "Plans") + RenderConditional(DimStyle, " ("+string(cycle)+")"))
		env.println(RenderSeparator())
		for i, r := range rows {
			o := plan.Offers()[i]
			marker := "  "
			if r.Current {
				marker = RenderConditional(SuccessStyle, "* ")
			}
			env.printf("%s%s %s\n", marker, padStyled(tierLabel(o.Tier), 14), RenderConditional(HighlightStyle, r.Price))
			uploads := "no file uploads"
			if r.Uploads {
				uploads = "file uploads"
			}
			env.printf("    %s\n", RenderConditional(DimStyle, fmt.Sprintf("%s · %s queries · %s", o.Description, r.Quota, uploads)))
		}
		env.println()
		env.println(RenderConditional(DimStyle, "Subscribe with: moe subscribe professional [--yearly]"))
	})
}

// HandleSubscribe starts checkout for a paid plan and confirms it once the
// user has paid. --card pays with a payment intent instead of a hosted
// checkout; --session confirms a checkout started earlier.
//
//	moe subscribe professional --yearly
func HandleSubscribe(ctx context.Context, env *Env) error {
	f := env.Args.Flags("yearly", "annual", "card", "no-confirm")
	if f.Subcommand() == "" {
		return ErrMissingArgument("plan", "moe subscribe professional")
	}
	tier, err := plan.Parse(f.Subcommand())
	if err != nil {
		return &ValidationError{Field: "plan", Value: f.Subcommand(), Reason: err.Error(), Example: "moe subscribe enterprise"}
	}
	cycle, err := cycleFlag(f)
	if err != nil {
		return &ValidationError{Field: "cycle", Value: f.Flag("cycle"), Reason: err.Error()}
	}
	if err := env.requireSession(); err != nil {
		return err
	}

	nav := env.App.Nav
	if err := nav.SelectPlan(tier, cycle); err != nil {
		return err
	}
	if plan.IsFreeTier(tier) {
		return env.emit("subscribe", map[string]string{"plan": plan.Free.String()}, func() {
			env.println("You're on the Free plan.")
		})
	}

	switch {
	case f.BoolFlag("card"):
		cctx, cancel := env.call(ctx)
		defer cancel()
		if err := env.App.PayWithCard(cctx); err != nil {
			return err
		}

	case f.Flag("session") != "":
		co := &billing.Checkout{Tier: tier, Cycle: cycle, SessionID: f.Flag("session")}
		cctx, cancel := env.call(ctx)
		defer cancel()
		if err := env.App.CompletePayment(cctx, co); err != nil {
			return err
		}

	default:
		cctx, cancel := env.call(ctx)
		co, err := env.App.Billing.Start(cctx, tier, cycle)
		cancel()
		if err != nil {
			return err
		}
		if f.BoolFlag("no-confirm") {
			return env.emit("subscribe", map[string]string{
				"plan": tier.String(), "url": co.URL, "session_id": co.SessionID, "status": "pending",
			}, func() {
				env.printf("Complete checkout for %s (%s) at:\n  %s\n", tier.DisplayName(), co.Price, co.URL)
				env.printf("Then run: moe subscribe %s --session %s\n", tier, co.SessionID)
			})
		}

		fmt.Fprintf(env.Err, "Complete checkout for %s (%s) at:\n  %s\n", tier.DisplayName(), co.Price, co.URL)
		if _, err := env.Prompt.Line("Press Enter once you have paid... "); err != nil {
			return err
		}
		cctx, cancel = env.call(ctx)
		defer cancel()
		if err := env.App.CompletePayment(cctx, co); err != nil {
			return err
		}
	}

	now := nav.Plan()
	return env.emit("subscribe", map[string]string{"plan": now.String(), "status": "active"}, func() {
		env.printf("%s Welcome to %s.\n", RenderStatus("ok"), now.DisplayName())
	})
}

// UsageData is the payload of the usage command.
type UsageData struct {
	Plan        string     `json:"plan"`
	QueriesUsed int        `json:"queries_used"`
	QueryLimit  int        `json:"query_limit"`
	Period      string     `json:"period"`
	UploadsUsed int        `json:"uploads_used"`
	ResetsAt    *time.Time `json:"resets_at,omitempty"`
	Hint        string     `json:"hint"`
}

// HandleUsage shows consumption in the current period and adopts the plan
// the backend reports.
func HandleUsage(ctx context.Context, env *Env) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	cctx, cancel := env.call(ctx)
	defer cancel()
	u, err := env.App.SyncPlan(cctx)
	if err != nil {
		return err
	}

	tier := env.App.Nav.Plan()
	data := UsageData{
		Plan:        u.Plan,
		QueriesUsed: u.QueriesUsed,
		QueryLimit:  u.QueryLimit,
		Period:      u.Period,
		UploadsUsed: u.UploadsUsed,
		Hint:        plan.QuotaHint(tier, u.QueriesUsed),
	}
	if !u.ResetsAt.IsZero() {
		data.ResetsAt = &u.ResetsAt
	}
	return env.emit("usage", data, func() {
		env.field("Plan", tierLabel(tier))
		if u.QueryLimit > 0 {
			env.field("Queries", fmt.Sprintf("%s of %s this %s",
				util.HumanCount(u.QueriesUsed), util.HumanCount(u.QueryLimit), u.Period))
		} else {
			env.field("Queries", util.HumanCount(u.QueriesUsed))
		}
		env.field("Uploads", util.HumanCount(u.UploadsUsed))
		if data.ResetsAt != nil {
			env.field("Resets", humanize.Time(*data.ResetsAt))
		}
		env.println(RenderConditional(DimStyle, data.Hint))
	})
}
