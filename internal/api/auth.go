// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
)

// Signup creates an account. The returned token is not stored; that is the
// caller's decision.
func (c *Client) Signup(ctx context.Context, in SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if _, err := c.do(ctx, request{op: "signup", method: http.MethodPost, path: "/auth/signup", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if _, err := c.do(ctx, request{op: "login", method: http.MethodPost, path: "/auth/login", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken trades token for a fresh access token.
func (c *Client) RefreshToken(ctx context.Context, token string) (*TokenResponse, error) {
	var out TokenResponse
	body := map[string]string{"token": token}
	if _, err := c.do(ctx, request{op: "refresh-token", method: http.MethodPost, path: "/auth/refresh-token", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to email a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*Ack, error) {
	var out Ack
	body := map[string]string{"email": email}
	if _, err := c.do(ctx, request{op: "forgot-password", method: http.MethodPost, path: "/auth/forgot-password", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password using the token from the reset email.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (*Ack, error) {
	var out Ack
	body := map[string]string{"password": password}
	path := "/auth/reset-password/" + url.PathEscape(resetToken)
	if _, err := c.do(ctx, request{op: "reset-password", method: http.MethodPost, path: path, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	body, err := c.do(ctx, request{op: "me", method: http.MethodGet, path: "/auth/me"}, nil)
	if err != nil {
		return nil, err
	}
	var out User
	if err := decodeField(body, &out, "user"); err != nil {
		return nil, err
	}
	return &out, nil
}
