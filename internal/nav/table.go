// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"errors"
	"fmt"
)

// targetKind says where a rule sends the controller.
type targetKind int

const (
	toFixed  targetKind = iota // rule.page
	toTarget                   // the page carried by the event
	toStay                     // no page change
)

type rule struct {
	kind targetKind
	page Page
}

// Table maps every event to its rule. Any page may fire any event, so the
// current page never appears in a key.
type Table map[Event]rule

// DefaultTable returns the transition table the controller runs on.
func DefaultTable() Table {
	return Table{
		EventSubmitQuery:      {kind: toFixed, page: PageChat},
		EventSelectFreePlan:   {kind: toFixed, page: PageChat},
		EventSelectPaidPlan:   {kind: toFixed, page: PagePayment},
		EventPaymentSucceeded: {kind: toFixed, page: PageChat},
		EventLoginSucceeded:   {kind: toFixed, page: PageHome},
		EventSignupSucceeded:  {kind: toFixed, page: PageHome},
		EventLogout:           {kind: toFixed, page: PageHome},
		EventUnauthorized:     {kind: toFixed, page: PageLogin},
		EventNavigate:         {kind: toTarget},
		EventSwitchPlan:       {kind: toStay},
		EventPlanSynced:       {kind: toStay},
	}
}

// ErrInvalidTable is wrapped by every table validation failure.
var ErrInvalidTable = errors.New("invalid transition table")

// Validate checks that every event has a rule and that every fixed target is
// a known page.
func (t Table) Validate() error {
	var errs []error
	for e := Event(0); e < eventCount; e++ {
		r, ok := t[e]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: no rule for %s", ErrInvalidTable, e))
			continue
		}
		if r.kind == toFixed && !r.page.Valid() {
			errs = append(errs, fmt.Errorf("%w: %s targets unknown %s", ErrInvalidTable, e, r.page))
		}
	}
	for e := range t {
		if e < 0 || e >= eventCount {
			errs = append(errs, fmt.Errorf("%w: unknown %s", ErrInvalidTable, e))
		}
	}
	return errors.Join(errs...)
}

// resolve returns the page an event leads to from current.
func (t Table) resolve(e Event, current, target Page) (Page, error) {
	r, ok := t[e]
	if !ok {
		return current, fmt.Errorf("no rule for %s", e)
	}
	switch r.kind {
	case toFixed:
		return r.page, nil
	case toTarget:
		if !target.Valid() {
			return current, fmt.Errorf("navigate to unknown %s", target)
		}
		return target, nil
	default:
		return current, nil
	}
}
