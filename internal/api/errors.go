// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error variables for conditions callers branch on.
var (
	// ErrUnauthorized matches any 401 response. The session has already been
	// cleared when a caller sees it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpgradeRequired matches responses flagged upgradeRequired by the
	// backend (quota exhausted or feature not in plan).
	ErrUpgradeRequired = errors.New("upgrade required")

	// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// RequestError is returned for every non-2xx response.
type RequestError struct {
	Op              string
	Status          int
	Message         string
	UpgradeRequired bool
	Body            []byte
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is match the sentinel errors above.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrUpgradeRequired:
		return e.UpgradeRequired
	}
	return false
}

// MessageOr returns the server-supplied message carried by err, or fallback
// when there is none. Transport errors always get the fallback.
func MessageOr(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}

// IsUpgradeRequired reports whether err carries the upgrade-required signal.
func IsUpgradeRequired(err error) bool {
	return errors.Is(err, ErrUpgradeRequired)
}
