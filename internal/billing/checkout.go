// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/logging"
	"github.com/abdulazeez2247/moe/internal/plan"
)

// Fallback messages shown when the server gives no reason.
const (
	CheckoutFailed = "Could not start checkout. Please try again."
	PaymentFailed  = "Payment could not be confirmed. Please try again."
)

// Error variables for checkout preconditions.
var (
	// ErrFreePlan is returned when checkout is attempted for the free tier.
	ErrFreePlan = errors.New("the free plan needs no checkout")

	// ErrNotConfirmed is returned when the backend reports an unsuccessful
	// confirmation with a 2xx status.
	ErrNotConfirmed = errors.New("payment not confirmed")
)

// Gateway is the subset of the API client the payment flow calls.
type Gateway interface {
	CreateSubscription(ctx context.Context, in api.SubscriptionRequest) (*api.Checkout, error)
	ConfirmPayment(ctx context.Context, in api.PaymentConfirmation) (*api.PaymentResult, error)
	CreatePaymentIntent(ctx context.Context, in api.PaymentIntentRequest) (*api.PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, in api.PaymentIntentConfirmation) (*api.PaymentResult, error)
}

// Checkout is a hosted checkout waiting for the user.
type Checkout struct {
	Tier      plan.Tier
	Cycle     plan.BillingCycle
	URL       string
	SessionID string

	// Price is the display price ("$29/mo"), empty for tiers without a card.
	Price string
}

// Error is a failed payment step with the message to show the user.
type Error struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Service drives subscription checkout.
type Service struct {
	gw  Gateway
	log *zap.Logger
}

// NewService creates the payment flow.
func NewService(gw Gateway, log *zap.Logger) *Service {
	return &Service{gw: gw, log: logging.OrNop(log).Named("billing")}
}

// Start creates a hosted checkout for tier.
func (s *Service) Start(ctx context.Context, tier plan.Tier, cycle plan.BillingCycle) (*Checkout, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("checkout: unknown tier %q", tier)
	}
	if plan.IsFreeTier(tier) {
		return nil, ErrFreePlan
	}
	if cycle == "" {
		cycle = plan.Monthly
	}

	resp, err := s.gw.CreateSubscription(ctx, api.SubscriptionRequest{Plan: tier.String(), BillingCycle: string(cycle)})
	if err != nil {
		s.log.Info("create subscription failed", zap.Stringer("tier", tier), zap.Error(err))
		return nil, &Error{Message: api.MessageOr(err, CheckoutFailed), Err: err}
	}
	if strings.TrimSpace(resp.URL) == "" {
		return nil, &Error{Message: CheckoutFailed, Err: errors.New("backend returned no checkout URL")}
	}

	co := &Checkout{Tier: tier, Cycle: cycle, URL: resp.URL, SessionID: resp.SessionID}
	if offer, ok := plan.OfferFor(tier); ok {
		co.Price = offer.Price(cycle) + cycle.Suffix()
	}
	s.log.Info("checkout started", zap.Stringer("tier", tier), zap.String("cycle", string(cycle)))
	return co, nil
}

// Confirm reports the checkout as paid. On success the caller fires
// PaymentSucceeded on the navigation controller.
func (s *Service) Confirm(ctx context.Context, co *Checkout) error {
	res, err := s.gw.ConfirmPayment(ctx, api.PaymentConfirmation{SessionID: co.SessionID, Plan: co.Tier.String()})
	if err != nil {
		s.log.Info("confirm payment failed", zap.Error(err))
		return &Error{Message: api.MessageOr(err, PaymentFailed), Err: err}
	}
	return checkResult(res)
}

// PayWithIntent is the card flow: create a payment intent for the offer
// price and confirm it.
func (s *Service) PayWithIntent(ctx context.Context, tier plan.Tier, cycle plan.BillingCycle) error {
	if plan.IsFreeTier(tier) {
		return ErrFreePlan
	}
	offer, ok := plan.OfferFor(tier)
	if !ok {
		return fmt.Errorf("checkout: %s has no listed price", tier)
	}

	intent, err := s.gw.CreatePaymentIntent(ctx, api.PaymentIntentRequest{
		Plan:         tier.String(),
		BillingCycle: string(cycle),
		Amount:       offer.PriceCents(cycle),
		Currency:     "usd",
	})
	if err != nil {
		return &Error{Message: api.MessageOr(err, CheckoutFailed), Err: err}
	}
	res, err := s.gw.ConfirmPaymentIntent(ctx, api.PaymentIntentConfirmation{PaymentIntentID: intent.ID, Plan: tier.String()})
	if err != nil {
		return &Error{Message: api.MessageOr(err, PaymentFailed), Err: err}
	}
	return checkResult(res)
}

func checkResult(res *api.PaymentResult) error {
	if res.Success {
		return nil
	}
	msg := res.Message
	if msg == "" {
		msg = PaymentFailed
	}
	return &Error{Message: msg, Err: ErrNotConfirmed}
}
