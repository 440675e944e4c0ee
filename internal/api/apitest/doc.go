// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides a fake MOE backend for tests.
//
// The server is a gin engine behind httptest. It issues real HS256 JWTs,
// keeps accounts in memory, enforces the free-plan question quota with a 429
// carrying upgradeRequired, refuses uploads on the free plan and records
// every request so tests can assert that nothing was sent.
//
// # Usage
//
//	srv := apitest.New(t)
//	srv.AddUser("Ada", "a@b.com", "x")
//	client := api.New(srv.BaseURL(), store)
package apitest
