// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
)

// Ask sends a question. A quota refusal comes back as a *RequestError that
// matches ErrUpgradeRequired.
func (c *Client) Ask(ctx context.Context, in AskRequest) (*Answer, error) {
	var out Answer
	if _, err := c.do(ctx, request{op: "ask", method: http.MethodPost, path: "/ask", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Vote rates an answer "up" or "down".
func (c *Client) Vote(ctx context.Context, answerID, vote string) error {
	path := "/ask/" + url.PathEscape(answerID) + "/vote"
	_, err := c.do(ctx, request{op: "vote", method: http.MethodPost, path: path, body: VoteRequest{Vote: vote}}, nil)
	return err
}

// Catalog lists precomputed questions for platform. An empty platform lists
// every platform.
func (c *Client) Catalog(ctx context.Context, platform string) ([]CatalogEntry, error) {
	q := url.Values{}
	if platform != "" {
		q.Set("platform", platform)
	}
	body, err := c.do(ctx, request{op: "catalog", method: http.MethodGet, path: "/ask/catalog", query: q}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[CatalogEntry](body, "catalog", "entries", "items")
}
