// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// info.go - Knowledge base, catalog and status commands.
package cli

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/session"
	"github.com/abdulazeez2247/moe/internal/util"
)

// HandleCatalog lists precomputed questions, optionally for one platform.
func HandleCatalog(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	platform := f.FlagOrDefault("platform", env.App.Config.Ask.Platform)
	limit := f.FlagIntOrDefault("limit", 20)

	cctx, cancel := env.call(ctx)
	defer cancel()
	entries, err := env.App.API.Catalog(cctx, platform)
	if err != nil {
		return err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return env.emit("catalog", entries, func() {
		if len(entries) == 0 {
			env.println("The catalog is empty.")
			return
		}
		width := GetTerminalWidth() - 4
		for _, e := range entries {
			line := util.TruncateWidth(e.Question, width)
			if e.Category != "" {
				line += RenderConditional(DimStyle, "  ["+e.Category+"]")
			}
			env.printf("  %s\n", line)
		}
		env.println(RenderConditional(DimStyle, "\nAsk one with: moe ask \"<question>\""))
	})
}

// HandleKnowledge shows the state of the backend knowledge base.
func HandleKnowledge(ctx context.Context, env *Env) error {
	cctx, cancel := env.call(ctx)
	defer cancel()
	st, err := env.App.API.KnowledgeStatus(cctx)
	if err != nil {
		return err
	}
	return env.emit("knowledge", st, func() {
		env.field("Status", RenderStatus(st.Status)+" "+st.Status)
		env.field("Documents", util.HumanCount(st.Documents))
		if len(st.Platforms) > 0 {
			env.field("Platforms", strings.Join(st.Platforms, ", "))
		}
		if st.UpdatedAt != "" {
			updated := st.UpdatedAt
			if t, err := time.Parse(time.RFC3339, st.UpdatedAt); err == nil {
				updated = humanize.Time(t)
			}
			env.field("Updated", updated)
		}
	})
}

// StatusData is the payload of the status command.
type StatusData struct {
	Version       string     `json:"version"`
	Backend       string     `json:"backend"`
	Reachable     bool       `json:"reachable"`
	Knowledge     string     `json:"knowledge,omitempty"`
	SignedIn      bool       `json:"signed_in"`
	Email         string     `json:"email,omitempty"`
	SessionStore  string     `json:"session_store"`
	SessionExpiry *time.Time `json:"session_expires_at,omitempty"`
	Plan          string     `json:"plan"`
	QueriesUsed   *int       `json:"queries_used,omitempty"`
	QuotaHint     string     `json:"quota_hint,omitempty"`
}

// HandleStatus reports the backend, session and plan at a glance. Backend
// failures are reported, not returned, so status works offline.
func HandleStatus(ctx context.Context, env *Env) error {
	a := env.App
	data := StatusData{
		Version:      Version,
		Backend:      a.API.BaseURL(),
		SessionStore: a.Config.Session.Backend,
	}

	cctx, cancel := env.call(ctx)
	defer cancel()

	if st, err := a.API.KnowledgeStatus(cctx); err == nil {
		data.Reachable = true
		data.Knowledge = st.Status
	}

	var usage *api.Usage
	if a.Session.IsAuthenticated() {
		if exp, ok := a.Session.Expiry(); ok {
			data.SessionExpiry = &exp
		}
		if c, ok := session.ParseClaims(a.Session.Token()); ok {
			data.Email = c.Email
		}
		if u, err := a.SyncPlan(cctx); err == nil {
			usage = u
			data.QueriesUsed = &u.QueriesUsed
		}
	}
	// A 401 above clears the session.
	data.SignedIn = a.Session.IsAuthenticated()
	data.Plan = a.Nav.Plan().String()
	if usage != nil {
		data.QuotaHint = plan.QuotaHint(a.Nav.Plan(), usage.QueriesUsed)
	}

	return env.emit("status", data, func() {
		env.println(RenderConditional(TitleStyle, "Moe status"))
		env.println(RenderSeparator())
		env.field("Version", data.Version)
		if data.Reachable {
			env.field("Backend", RenderStatus("ok")+" "+data.Backend)
			env.field("Knowledge", data.Knowledge)
		} else {
			env.field("Backend", RenderStatus("fail")+" "+data.Backend+" (unreachable)")
		}
		if !data.SignedIn {
			env.field("Session", "not signed in")
		} else {
			who := "signed in"
			if data.Email != "" {
				who += " as " + data.Email
			}
			if data.SessionExpiry != nil {
				who += ", expires " + humanize.Time(*data.SessionExpiry)
			}
			env.field("Session", who)
		}
		env.field("Session store", data.SessionStore)
		env.field("Plan", tierLabel(a.Nav.Plan()))
		if data.QuotaHint != "" {
			env.field("Quota", data.QuotaHint)
		}
	})
}
