// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// Profile returns the account profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	body, err := c.do(ctx, request{op: "profile", method: http.MethodGet, path: "/users/profile"}, nil)
	if err != nil {
		return nil, err
	}
	var out Profile
	if err := decodeField(body, &out, "profile", "user"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial update and returns the new profile.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*Profile, error) {
	body, err := c.do(ctx, request{op: "update-profile", method: http.MethodPatch, path: "/users/profile", body: in}, nil)
	if err != nil {
		return nil, err
	}
	var out Profile
	if err := decodeField(body, &out, "profile", "user"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Usage returns consumption for the current period.
func (c *Client) Usage(ctx context.Context) (*Usage, error) {
	body, err := c.do(ctx, request{op: "usage", method: http.MethodGet, path: "/users/usage"}, nil)
	if err != nil {
		return nil, err
	}
	var out Usage
	if err := decodeField(body, &out, "usage"); err != nil {
		return nil, err
	}
	return &out, nil
}
