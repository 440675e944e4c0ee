// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"
)

// CreateSubscription starts a hosted checkout for a plan.
func (c *Client) CreateSubscription(ctx context.Context, in SubscriptionRequest) (*Checkout, error) {
	var out Checkout
	body, err := c.do(ctx, request{op: "create-subscription", method: http.MethodPost, path: "/payments/create-subscription", body: in}, &out)
	if err != nil {
		return nil, err
	}
	// Providers disagree on field names.
	if out.URL == "" {
		out.URL = firstString(body, "checkoutUrl", "sessionUrl", "session.url")
	}
	if out.SessionID == "" {
		out.SessionID = firstString(body, "id", "session.id", "checkoutSessionId")
	}
	out.Raw = append([]byte(nil), body...)
	return &out, nil
}

// ConfirmPayment tells the backend the hosted checkout completed.
func (c *Client) ConfirmPayment(ctx context.Context, in PaymentConfirmation) (*PaymentResult, error) {
	return c.confirm(ctx, "confirm-payment", "/payments/confirm-payment", in)
}

// CreatePaymentIntent creates a provider payment intent.
func (c *Client) CreatePaymentIntent(ctx context.Context, in PaymentIntentRequest) (*PaymentIntent, error) {
	var out PaymentIntent
	body, err := c.do(ctx, request{op: "create-payment-intent", method: http.MethodPost, path: "/payments/create-payment-intent", body: in}, &out)
	if err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = firstString(body, "paymentIntentId", "paymentIntent.id")
	}
	if out.ClientSecret == "" {
		out.ClientSecret = firstString(body, "client_secret", "paymentIntent.client_secret")
	}
	out.Raw = append([]byte(nil), body...)
	return &out, nil
}

// ConfirmPaymentIntent confirms a payment intent created earlier.
func (c *Client) ConfirmPaymentIntent(ctx context.Context, in PaymentIntentConfirmation) (*PaymentResult, error) {
	return c.confirm(ctx, "confirm-payment-intent", "/payments/confirm-payment-intent", in)
}

func (c *Client) confirm(ctx context.Context, op, path string, in any) (*PaymentResult, error) {
	var out PaymentResult
	body, err := c.do(ctx, request{op: op, method: http.MethodPost, path: path, body: in}, &out)
	if err != nil {
		return nil, err
	}
	// A 2xx without an explicit flag counts as success.
	if !gjson.GetBytes(body, "success").Exists() {
		out.Success = true
	}
	out.Raw = append([]byte(nil), body...)
	return &out, nil
}
