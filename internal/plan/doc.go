// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package plan describes subscription tiers and what each one unlocks.
//
// Everything here is pure and advisory. The backend is the source of truth
// for quotas; the client uses these answers only to skip requests that are
// certain to be refused (free-tier uploads) and to render hints.
//
// # Key Types
//
//   - Tier: closed set of subscription levels (free through enterprise)
//   - Quota: per-period query allowance
//   - Offer: a pricing page card with monthly and yearly prices
//   - BillingCycle: monthly or yearly
//
// # Usage
//
//	if !plan.CanUploadFiles(current) {
//	    // show the upgrade prompt instead of uploading
//	}
//	fmt.Println(plan.QuotaHint(plan.Free, 0)) // "5 queries remaining today"
package plan
