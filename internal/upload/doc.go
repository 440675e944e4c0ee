// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload implements the file upload view without rendering it.
//
// On the free tier every entry point returns a blocked Batch before reading
// a file or sending a request. On paid tiers files upload concurrently
// through a bounded errgroup; the batch settles when all of them have, each
// success becomes a list entry with a placeholder analysis and each failure
// is reported without touching the others.
//
// # Usage
//
//	u := upload.New(client, ctrl, upload.Options{MaxConcurrent: 4}, ctrl.Generation(), logger)
//	b := u.UploadPaths(ctx, upload.ParseDropped(pasted))
//	u.Apply(b)
//	if msg := b.Message(); msg != "" {
//	    // show msg
//	}
package upload
