// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth holds the sign-in, sign-up and password reset forms and the
// flows behind them.
//
// Forms are validated with go-playground/validator before any request is
// made. Validation failures are ValidationErrors (matching ErrValidation);
// server failures are *Error carrying the server message or a fixed fallback.
//
// # Key Types
//
//   - LoginForm, SignupForm, ForgotPasswordForm, ResetPasswordForm
//   - Service: runs the flows and stores the returned token
//
// # Usage
//
//	svc := auth.NewService(client, store, logger)
//	if _, err := svc.Login(ctx, auth.LoginForm{Email: email, Password: pw}); err != nil {
//	    fmt.Println(auth.UserMessage(err))
//	}
package auth
