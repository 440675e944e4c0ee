// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// KnowledgeStatus reports the backend knowledge base state. Raw keeps the
// whole document for display.
func (c *Client) KnowledgeStatus(ctx context.Context) (*KnowledgeStatus, error) {
	var out KnowledgeStatus
	body, err := c.do(ctx, request{op: "knowledge-status", method: http.MethodGet, path: "/knowledge/status"}, &out)
	if err != nil {
		return nil, err
	}
	out.Raw = append([]byte(nil), body...)
	return &out, nil
}
