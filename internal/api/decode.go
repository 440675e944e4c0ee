// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// decodeField decodes the object under the first key present in body, or
// body itself when none is.
func decodeField(body []byte, out any, keys ...string) error {
	raw := body
	for _, key := range keys {
		if r := gjson.GetBytes(body, key); r.IsObject() {
			raw = []byte(r.Raw)
			break
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodeList decodes body as a JSON array, or the array under the first key
// present. An absent list decodes as empty.
func decodeList[T any](body []byte, keys ...string) ([]T, error) {
	raw := []byte(nil)
	if r := gjson.ParseBytes(body); r.IsArray() {
		raw = body
	} else {
		for _, key := range keys {
			if v := r.Get(key); v.IsArray() {
				raw = []byte(v.Raw)
				break
			}
		}
	}
	if raw == nil {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// firstString returns the first non-empty string among paths.
func firstString(body []byte, paths ...string) string {
	for _, p := range paths {
		if r := gjson.GetBytes(body, p); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
