// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/logging"
)

// Fallback messages shown when the server gives no reason.
const (
	LoginFailed         = "Login failed. Please try again."
	SignupFailed        = "Signup failed. Please try again."
	ResetEmailFailed    = "Failed to send reset email. Please try again."
	ResetPasswordFailed = "Failed to reset password. Please try again."
	RefreshFailed       = "Session refresh failed. Please sign in again."
	NotSignedIn         = "You are not signed in."
)

// Gateway is the subset of the API client the auth flows call.
type Gateway interface {
	Login(ctx context.Context, in api.LoginRequest) (*api.AuthResponse, error)
	Signup(ctx context.Context, in api.SignupRequest) (*api.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (*api.Ack, error)
	ResetPassword(ctx context.Context, token, password string) (*api.Ack, error)
	RefreshToken(ctx context.Context, token string) (*api.TokenResponse, error)
}

// TokenStore is where a successful login puts its token.
type TokenStore interface {
	SetToken(token string) error
	Token() string
}

// Error is a failed flow with the message to show the user.
type Error struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying gateway error.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the text a form shows for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Error()
	}
	var flowErr *Error
	if errors.As(err, &flowErr) {
		return flowErr.Message
	}
	return err.Error()
}

// Service runs the login, signup and password flows.
type Service struct {
	gw    Gateway
	store TokenStore
	log   *zap.Logger
}

// NewService creates the auth flows.
func NewService(gw Gateway, store TokenStore, log *zap.Logger) *Service {
	return &Service{gw: gw, store: store, log: logging.OrNop(log).Named("auth")}
}

func failure(err error, fallback string) error {
	return &Error{Message: api.MessageOr(err, fallback), Err: err}
}

// Login validates the form, signs in and stores the returned token. Invalid
// forms never reach the network.
func (s *Service) Login(ctx context.Context, form LoginForm) (*api.User, error) {
	if err := Validate(&form); err != nil {
		return nil, err
	}
	resp, err := s.gw.Login(ctx, api.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		s.log.Info("login failed", zap.Error(err))
		return nil, failure(err, LoginFailed)
	}
	if err := s.storeToken(resp.AccessToken, LoginFailed); err != nil {
		return nil, err
	}
	s.log.Info("logged in", zap.String("user_id", resp.User.ID))
	return &resp.User, nil
}

// Signup validates the form, creates the account and stores the token.
func (s *Service) Signup(ctx context.Context, form SignupForm) (*api.User, error) {
	if err := Validate(&form); err != nil {
		return nil, err
	}
	resp, err := s.gw.Signup(ctx, api.SignupRequest{Name: form.Name, Email: form.Email, Password: form.Password})
	if err != nil {
		s.log.Info("signup failed", zap.Error(err))
		return nil, failure(err, SignupFailed)
	}
	if err := s.storeToken(resp.AccessToken, SignupFailed); err != nil {
		return nil, err
	}
	s.log.Info("signed up", zap.String("user_id", resp.User.ID))
	return &resp.User, nil
}

// ForgotPassword validates the email and asks for a reset link.
func (s *Service) ForgotPassword(ctx context.Context, form ForgotPasswordForm) error {
	if err := Validate(&form); err != nil {
		return err
	}
	if _, err := s.gw.ForgotPassword(ctx, form.Email); err != nil {
		return failure(err, ResetEmailFailed)
	}
	return nil
}

// ResetPassword sets a new password. The session is not touched; the user
// signs in afterwards.
func (s *Service) ResetPassword(ctx context.Context, form ResetPasswordForm) error {
	if err := Validate(&form); err != nil {
		return err
	}
	if _, err := s.gw.ResetPassword(ctx, form.Token, form.Password); err != nil {
		return failure(err, ResetPasswordFailed)
	}
	return nil
}

// Refresh trades the stored token for a new one.
func (s *Service) Refresh(ctx context.Context) error {
	current := s.store.Token()
	if current == "" {
		return &Error{Message: NotSignedIn}
	}
	resp, err := s.gw.RefreshToken(ctx, current)
	if err != nil {
		return failure(err, RefreshFailed)
	}
	return s.storeToken(resp.AccessToken, RefreshFailed)
}

func (s *Service) storeToken(token, fallback string) error {
	if token == "" {
		return &Error{Message: fallback, Err: errors.New("response carried no access token")}
	}
	if err := s.store.SetToken(token); err != nil {
		s.log.Error("failed to persist session", zap.Error(err))
		return &Error{Message: fallback, Err: err}
	}
	return nil
}
