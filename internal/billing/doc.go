// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package billing starts hosted checkouts and confirms payments. It never
// handles card data; the provider's hosted page does.
package billing
