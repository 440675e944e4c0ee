// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav implements the page state machine of the MOE client.
//
// Pages and events are enums. A Table maps each event to its target page and
// is validated when the Controller is built, so a missing rule or an unknown
// target fails at construction rather than at the moment a user clicks.
// No page is terminal and authentication gates no transition; plan gates are
// applied inside pages.
//
// # Key Types
//
//   - Page: the mounted view (home, login, signup, forgot-password, chat,
//     upload, pricing, payment)
//   - Event: a trigger such as SubmitQuery or Unauthorized
//   - Table: event to target mapping
//   - Controller: current page, plan, selected plan and generation counter
//
// # Generations
//
// Each page mount increments the generation. A result from an asynchronous
// request carries the generation it was issued under and is dropped when
// Controller.IsCurrent reports false, which is how responses for an
// unmounted view are ignored.
//
// # Usage
//
//	ctrl, err := nav.New(store, logger)
//	if err != nil {
//	    return err
//	}
//	ctrl.SelectPlan(plan.Professional, plan.Yearly) // now on PagePayment
//	ctrl.PaymentSucceeded()                         // now on PageChat
package nav
