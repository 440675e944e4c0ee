// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app builds the injectable context shared by every page and
// command: config, logger, session store, navigation controller, API
// gateway and the auth and billing flows.
//
// The gateway's 401 hook is wired to the controller here, so a rejected
// token from any call clears the session and lands on the sign-in page.
//
// # Usage
//
//	a, err := app.New(cfg, app.Options{Version: version})
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
package app
