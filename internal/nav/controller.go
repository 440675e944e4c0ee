// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/logging"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/util"
)

// SessionClearer is the part of the session store the controller needs.
type SessionClearer interface {
	Clear() error
}

// Transition describes one page change.
type Transition struct {
	Event      Event
	From       Page
	To         Page
	Generation uint64
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Page         Page
	Generation   uint64
	Plan         plan.Tier
	SelectedPlan plan.Tier
	Cycle        plan.BillingCycle
	PendingQuery string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the page state machine. It also owns the current plan, the
// plan picked for checkout and the view generation counter.
//
// The generation increments every time a page is mounted. Asynchronous work
// captures Generation() when it starts and checks IsCurrent before applying
// its result.
type Controller struct {
	table   Table
	session SessionClearer
	log     *zap.Logger

	mu       sync.RWMutex
	page     Page
	gen      uint64
	tier     plan.Tier
	selected plan.Tier
	cycle    plan.BillingCycle
	pending  string

	listenMu  sync.Mutex
	listeners []func(Transition)
}

// New creates a controller on the home page with the free plan. session may
// be nil, in which case Logout only changes page.
func New(session SessionClearer, log *zap.Logger) (*Controller, error) {
	return NewWithTable(DefaultTable(), session, log)
}

// NewWithTable creates a controller running on a custom table. The table is
// validated here so a bad table never reaches runtime.
func NewWithTable(t Table, session SessionClearer, log *zap.Logger) (*Controller, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		table:   t,
		session: session,
		log:     logging.OrNop(log).Named("nav"),
		page:    PageHome,
		tier:    plan.Free,
		cycle:   plan.Monthly,
	}, nil
}

// OnTransition registers fn to run after every page change. fn runs outside
// the controller lock.
func (c *Controller) OnTransition(fn func(Transition)) {
	c.listenMu.Lock()
	c.listeners = append(c.listeners, fn)
	c.listenMu.Unlock()
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// Page returns the mounted page.
func (c *Controller) Page() Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// Generation returns the current view generation.
func (c *Controller) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// IsCurrent reports whether work issued under gen may still update the view.
func (c *Controller) IsCurrent(gen uint64) bool {
	return c.Generation() == gen
}

// Plan returns the user's current tier.
func (c *Controller) Plan() plan.Tier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tier
}

// SelectedPlan returns the tier picked for checkout, or "" if none.
func (c *Controller) SelectedPlan() plan.Tier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Cycle returns the billing cycle shown on the pricing page.
func (c *Controller) Cycle() plan.BillingCycle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cycle
}

// SetCycle changes the billing cycle without leaving the page.
func (c *Controller) SetCycle(cycle plan.BillingCycle) {
	c.mu.Lock()
	c.cycle = cycle
	c.mu.Unlock()
}

// Snapshot returns every field under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Page:         c.page,
		Generation:   c.gen,
		Plan:         c.tier,
		SelectedPlan: c.selected,
		Cycle:        c.cycle,
		PendingQuery: c.pending,
	}
}

// TakePendingQuery returns the query submitted from home and forgets it, so
// the chat view replays it exactly once.
func (c *Controller) TakePendingQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.pending
	c.pending = ""
	return q
}

// =============================================================================
// EVENTS
// =============================================================================

// SubmitQuery records text for the chat view and mounts chat. Blank text is
// ignored and reported as false.
func (c *Controller) SubmitQuery(text string) bool {
	text = util.NormalizeInput(text)
	if text == "" {
		return false
	}
	c.fire(EventSubmitQuery, 0, func() { c.pending = text })
	return true
}

// SelectPlan handles a click on a pricing card. Free lands on chat with the
// plan set; a paid tier is recorded as selected and lands on payment.
func (c *Controller) SelectPlan(tier plan.Tier, cycle plan.BillingCycle) error {
	if !tier.Valid() {
		return fmt.Errorf("select plan: unknown tier %q", tier)
	}
	if plan.IsFreeTier(tier) {
		c.fire(EventSelectFreePlan, 0, func() {
			c.tier = plan.Free
			c.selected = ""
		})
		return nil
	}
	c.fire(EventSelectPaidPlan, 0, func() {
		c.selected = tier
		c.cycle = cycle
	})
	return nil
}

// PaymentSucceeded applies the purchased tier and mounts chat. With no
// selection recorded the plan is left alone.
func (c *Controller) PaymentSucceeded() {
	c.fire(EventPaymentSucceeded, 0, func() {
		if c.selected != "" {
			c.tier = c.selected
		}
		c.selected = ""
	})
}

// LoginSucceeded mounts home.
func (c *Controller) LoginSucceeded() {
	c.fire(EventLoginSucceeded, 0, nil)
}

// SignupSucceeded mounts home.
func (c *Controller) SignupSucceeded() {
	c.fire(EventSignupSucceeded, 0, nil)
}

// Logout clears the session and mounts home. The page changes even if the
// session could not be cleared.
func (c *Controller) Logout() error {
	var err error
	if c.session != nil {
		err = c.session.Clear()
	}
	c.fire(EventLogout, 0, nil)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Unauthorized mounts login. The session has already been cleared by the
// gateway when this runs.
func (c *Controller) Unauthorized() {
	c.fire(EventUnauthorized, 0, nil)
}

// Navigate mounts target. Sidebar entries, upgrade prompts and the links
// between auth pages all go through here.
func (c *Controller) Navigate(target Page) error {
	if !target.Valid() {
		return fmt.Errorf("navigate: unknown %s", target)
	}
	c.fire(EventNavigate, target, nil)
	return nil
}

// SwitchPlan sets the tier directly. Only the demo plan switcher uses it.
func (c *Controller) SwitchPlan(tier plan.Tier) error {
	if !tier.Valid() {
		return fmt.Errorf("switch plan: unknown tier %q", tier)
	}
	c.fire(EventSwitchPlan, 0, func() { c.tier = tier })
	return nil
}

// SyncPlan adopts the tier the backend reports for the signed-in account.
// It never changes the page.
func (c *Controller) SyncPlan(tier plan.Tier) error {
	if !tier.Valid() {
		return fmt.Errorf("sync plan: unknown tier %q", tier)
	}
	c.fire(EventPlanSynced, 0, func() { c.tier = tier })
	return nil
}

// fire applies the rule for e. mutate runs under the lock before the page
// changes.
func (c *Controller) fire(e Event, target Page, mutate func()) {
	c.mu.Lock()
	from := c.page
	to, err := c.table.resolve(e, from, target)
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("transition rejected", zap.Stringer("event", e), zap.Error(err))
		return
	}
	if mutate != nil {
		mutate()
	}
	changed := to != from
	if changed {
		c.page = to
		c.gen++
	}
	tr := Transition{Event: e, From: from, To: to, Generation: c.gen}
	c.mu.Unlock()

	c.log.Debug("transition",
		zap.Stringer("event", e),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Uint64("generation", tr.Generation))

	if !changed {
		return
	}
	c.listenMu.Lock()
	listeners := make([]func(Transition), len(c.listeners))
	copy(listeners, c.listeners)
	c.listenMu.Unlock()
	for _, fn := range listeners {
		fn(tr)
	}
}
