// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abdulazeez2247/moe/internal/plan"
)

type fakeSession struct {
	cleared int
	err     error
}

func (f *fakeSession) Clear() error {
	f.cleared++
	return f.err
}

func newController(t *testing.T) (*Controller, *fakeSession) {
	t.Helper()
	sess := &fakeSession{}
	c, err := New(sess, nil)
	require.NoError(t, err)
	return c, sess
}

func TestDefaultTableIsValid(t *testing.T) {
	require.NoError(t, DefaultTable().Validate())
}

func TestValidateRejectsMissingRule(t *testing.T) {
	table := DefaultTable()
	delete(table, EventLogout)

	_, err := NewWithTable(table, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTable))
	assert.Contains(t, err.Error(), "logout")
}

func TestValidateRejectsUnknownTarget(t *testing.T) {
	table := DefaultTable()
	table[EventLoginSucceeded] = rule{kind: toFixed, page: Page(42)}

	_, err := NewWithTable(table, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page(42)")
}

func TestInitialState(t *testing.T) {
	c, _ := newController(t)
	s := c.Snapshot()
	assert.Equal(t, PageHome, s.Page)
	assert.Equal(t, plan.Free, s.Plan)
	assert.Equal(t, plan.Monthly, s.Cycle)
	assert.Zero(t, s.Generation)
	assert.Empty(t, s.SelectedPlan)
}

func TestSelectPlanFromEveryPage(t *testing.T) {
	for _, start := range Pages() {
		for _, tier := range plan.All() {
			c, _ := newController(t)
			require.NoError(t, c.Navigate(start))
			require.NoError(t, c.SwitchPlan(plan.Enterprise))

			require.NoError(t, c.SelectPlan(tier, plan.Yearly))

			if tier == plan.Free {
				assert.Equal(t, PageChat, c.Page(), "from %s", start)
				assert.Equal(t, plan.Free, c.Plan(), "from %s", start)
				assert.Empty(t, c.SelectedPlan())
			} else {
				assert.Equal(t, PagePayment, c.Page(), "from %s", start)
				assert.Equal(t, tier, c.SelectedPlan(), "from %s", start)
				assert.Equal(t, plan.Enterprise, c.Plan(), "plan changes only after payment")
				assert.Equal(t, plan.Yearly, c.Cycle())
			}
		}
	}
}

func TestSelectPlanRejectsUnknownTier(t *testing.T) {
	c, _ := newController(t)
	assert.Error(t, c.SelectPlan(plan.Tier("gold"), plan.Monthly))
	assert.Equal(t, PageHome, c.Page())
}

func TestPaymentSucceededAppliesSelectedPlan(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.SelectPlan(plan.Professional, plan.Monthly))
	c.PaymentSucceeded()

	assert.Equal(t, PageChat, c.Page())
	assert.Equal(t, plan.Professional, c.Plan())
	assert.Empty(t, c.SelectedPlan())
}

func TestPaymentSucceededWithoutSelectionKeepsPlan(t *testing.T) {
	c, _ := newController(t)
	c.PaymentSucceeded()
	assert.Equal(t, PageChat, c.Page())
	assert.Equal(t, plan.Free, c.Plan())
}

func TestAuthTransitions(t *testing.T) {
	c, sess := newController(t)

	require.NoError(t, c.Navigate(PageLogin))
	c.LoginSucceeded()
	assert.Equal(t, PageHome, c.Page())

	require.NoError(t, c.Navigate(PageSignup))
	c.SignupSucceeded()
	assert.Equal(t, PageHome, c.Page())

	require.NoError(t, c.Navigate(PageChat))
	require.NoError(t, c.Logout())
	assert.Equal(t, PageHome, c.Page())
	assert.Equal(t, 1, sess.cleared)
}

func TestLogoutChangesPageEvenWhenClearFails(t *testing.T) {
	sess := &fakeSession{err: errors.New("disk full")}
	c, err := New(sess, nil)
	require.NoError(t, err)
	require.NoError(t, c.Navigate(PageUpload))

	err = c.Logout()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, PageHome, c.Page())
}

func TestUnauthorizedFromAnyPageLandsOnLogin(t *testing.T) {
	for _, start := range Pages() {
		c, _ := newController(t)
		require.NoError(t, c.Navigate(start))
		c.Unauthorized()
		assert.Equal(t, PageLogin, c.Page(), "from %s", start)
	}
}

func TestSubmitQuery(t *testing.T) {
	c, _ := newController(t)

	assert.False(t, c.SubmitQuery("   "))
	assert.Equal(t, PageHome, c.Page())
	assert.Zero(t, c.Generation())

	assert.True(t, c.SubmitQuery("  What is kerf?  "))
	assert.Equal(t, PageChat, c.Page())
	assert.Equal(t, "What is kerf?", c.TakePendingQuery())
	assert.Empty(t, c.TakePendingQuery(), "pending query is handed over once")
}

func TestSwitchPlanStaysOnPage(t *testing.T) {
	c, _ := newController(t)
	require.NoError(t, c.Navigate(PageUpload))
	gen := c.Generation()

	require.NoError(t, c.SwitchPlan(plan.Hobbyist))
	assert.Equal(t, PageUpload, c.Page())
	assert.Equal(t, plan.Hobbyist, c.Plan())
	assert.Equal(t, gen, c.Generation(), "switching plan does not remount")

	assert.Error(t, c.SwitchPlan(plan.Tier("")))
}

func TestSyncPlanUsesItsOwnEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := New(&fakeSession{}, zap.New(core))
	require.NoError(t, err)
	require.NoError(t, c.Navigate(PageChat))
	gen := c.Generation()

	require.NoError(t, c.SyncPlan(plan.Professional))
	assert.Equal(t, plan.Professional, c.Plan())
	assert.Equal(t, PageChat, c.Page())
	assert.Equal(t, gen, c.Generation())

	var events []string
	for _, e := range logs.FilterMessage("transition").All() {
		events = append(events, e.ContextMap()["event"].(string))
	}
	assert.Contains(t, events, EventPlanSynced.String())
	assert.NotContains(t, events, EventSwitchPlan.String())

	assert.Error(t, c.SyncPlan(plan.Tier("gold")))
	assert.Equal(t, plan.Professional, c.Plan())
}

func TestNavigateRejectsUnknownPage(t *testing.T) {
	c, _ := newController(t)
	assert.Error(t, c.Navigate(Page(-1)))
	assert.Error(t, c.Navigate(pageCount))
	assert.Equal(t, PageHome, c.Page())
}

func TestGenerationAdvancesOnMount(t *testing.T) {
	c, _ := newController(t)
	g0 := c.Generation()

	require.NoError(t, c.Navigate(PageChat))
	g1 := c.Generation()
	assert.Greater(t, g1, g0)
	assert.True(t, c.IsCurrent(g1))
	assert.False(t, c.IsCurrent(g0))

	// Re-selecting the mounted page is not a new mount.
	require.NoError(t, c.Navigate(PageChat))
	assert.Equal(t, g1, c.Generation())

	require.NoError(t, c.Navigate(PagePricing))
	require.NoError(t, c.Navigate(PageChat))
	assert.False(t, c.IsCurrent(g1), "a result issued before leaving chat must be dropped")
}

func TestOnTransition(t *testing.T) {
	c, _ := newController(t)
	var got []Transition
	c.OnTransition(func(tr Transition) { got = append(got, tr) })

	require.NoError(t, c.Navigate(PagePricing))
	require.NoError(t, c.SwitchPlan(plan.Occasional))
	c.Unauthorized()

	require.Len(t, got, 2)
	assert.Equal(t, Transition{Event: EventNavigate, From: PageHome, To: PagePricing, Generation: 1}, got[0])
	assert.Equal(t, Transition{Event: EventUnauthorized, From: PagePricing, To: PageLogin, Generation: 2}, got[1])
}

func TestControllerConcurrentUse(t *testing.T) {
	c, _ := newController(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Navigate(Pages()[i%len(Pages())])
			_ = c.Snapshot()
			_ = c.IsCurrent(uint64(i))
		}(i)
	}
	wg.Wait()
	assert.True(t, c.Page().Valid())
}

func TestPageParseAndString(t *testing.T) {
	for _, p := range Pages() {
		parsed, err := ParsePage(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParsePage("settings")
	assert.Error(t, err)
	assert.Equal(t, "Moe – Your Mozaik Expert", PageHome.Title())
	assert.Equal(t, "submit-query", EventSubmitQuery.String())
}
