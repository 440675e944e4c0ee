// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the user's access token.
//
// The Store is the only owner of the token. Every authenticated API call
// reads it at request time, and the API client clears it when the backend
// answers 401. A user counts as signed in exactly when a token is present.
//
// # Key Types
//
//   - Store: thread-safe token holder with change notification
//   - Backend: persistence strategy (FileBackend, SQLiteBackend, MemoryBackend)
//   - Claims: unverified JWT fields used for display (subject, email, expiry)
//
// # Usage
//
//	backend, closer, err := session.OpenBackend("file", "/home/me/.moe/session.json")
//	if err != nil {
//	    return err
//	}
//	if closer != nil {
//	    defer closer.Close()
//	}
//	store, err := session.NewStore(backend, log)
//	if err != nil {
//	    return err
//	}
//	_ = store.SetToken(resp.AccessToken)
//	if store.IsAuthenticated() {
//	    // ...
//	}
//
// # Cross-process updates
//
// FileBackend implements Watcher using fsnotify. Store.Watch reloads the
// token when another moe process signs in or out, and OnChange listeners
// hear about it.
package session
