// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the gateway to the MOE backend.
//
// Every backend operation is one method on Client. Requests read the bearer
// token from the session store immediately before sending, responses are
// capped at MaxResponseSize and a top-level {"data": ...} envelope is
// unwrapped before decoding.
//
// # Errors
//
// Any non-2xx response becomes a *RequestError carrying the status, the
// server message and the upgradeRequired flag. Match the interesting cases
// with errors.Is:
//
//	errors.Is(err, api.ErrUnauthorized)    // 401
//	errors.Is(err, api.ErrUpgradeRequired) // quota exhausted
//
// A 401 from any operation, login included, clears the session store and
// then calls the hook registered with OnUnauthorized. Nothing is retried.
//
// # Key Types
//
//   - Client: the gateway, configured with builder methods
//   - RequestError: non-2xx response
//   - TokenStore: where the bearer token is read from and cleared
//
// # Usage
//
//	client := api.New(cfg.BaseURL(), store).
//	    WithTimeout(cfg.Timeout()).
//	    WithLogger(logger)
//	client.OnUnauthorized(func(string) { ctrl.Unauthorized() })
//
//	answer, err := client.Ask(ctx, api.AskRequest{Message: "What is kerf?", Platform: "mozaik"})
package api
