// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/api/apitest"
	"github.com/abdulazeez2247/moe/internal/session"
)

func newService(t *testing.T) (*Service, *session.Store, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	store, err := session.NewStore(nil, nil)
	require.NoError(t, err)
	client := api.New(srv.BaseURL(), store)
	return NewService(client, store, nil), store, srv
}

func TestValidateMessages(t *testing.T) {
	tests := []struct {
		name string
		form any
		want string
	}{
		{"empty email", &ForgotPasswordForm{Email: "   "}, "Please enter your email address"},
		{"malformed email", &ForgotPasswordForm{Email: "not-an-email"}, "Please enter a valid email address"},
		{"no dot", &LoginForm{Email: "a@b", Password: "x"}, "Please enter a valid email address"},
		{"missing password", &LoginForm{Email: "a@b.com"}, "Please enter your password"},
		{"missing name", &SignupForm{Email: "a@b.com", Password: "x", Confirm: "x"}, "Please enter your name"},
		{"mismatch", &SignupForm{Name: "Ada", Email: "a@b.com", Password: "x", Confirm: "y"}, "Passwords do not match"},
		{"reset token", &ResetPasswordForm{Password: "x", Confirm: "x"}, "Reset link is missing its token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.form)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, tt.want, UserMessage(err))
		})
	}
}

func TestValidateAcceptsGoodForms(t *testing.T) {
	assert.NoError(t, Validate(&LoginForm{Email: " a@b.com ", Password: "x"}))
	assert.NoError(t, Validate(&SignupForm{Name: "Ada", Email: "a@b.com", Password: "x", Confirm: "x"}))
	assert.NoError(t, Validate(&ForgotPasswordForm{Email: "a@b.com"}))
	assert.NoError(t, Validate(&ResetPasswordForm{Token: "t", Password: "x", Confirm: "x"}))
}

func TestValidationErrorsField(t *testing.T) {
	err := Validate(&SignupForm{})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Please enter your name", verrs.Field("Name"))
	assert.Equal(t, "Please enter your email address", verrs.Field("Email"))
	assert.Empty(t, verrs.Field("Confirm"))
}

func TestLoginStoresToken(t *testing.T) {
	svc, store, srv := newService(t)
	srv.AddUser("Ada", "a@b.com", "x")

	user, err := svc.Login(context.Background(), LoginForm{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.True(t, store.IsAuthenticated())
}

func TestLoginInvalidFormSendsNothing(t *testing.T) {
	svc, store, srv := newService(t)

	_, err := svc.Login(context.Background(), LoginForm{Email: "nope", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, srv.Requests())
	assert.False(t, store.IsAuthenticated())
}

func TestLoginServerFailure(t *testing.T) {
	svc, store, srv := newService(t)
	srv.AddUser("Ada", "a@b.com", "x")

	_, err := svc.Login(context.Background(), LoginForm{Email: "a@b.com", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", UserMessage(err))
	assert.False(t, store.IsAuthenticated())

	var reqErr *api.RequestError
	assert.True(t, errors.As(err, &reqErr), "gateway error stays reachable")
}

func TestLoginFallbackMessage(t *testing.T) {
	gw := &stubGateway{err: errors.New("connection refused")}
	store, err := session.NewStore(nil, nil)
	require.NoError(t, err)
	svc := NewService(gw, store, nil)

	_, err = svc.Login(context.Background(), LoginForm{Email: "a@b.com", Password: "x"})
	assert.Equal(t, LoginFailed, UserMessage(err))

	_, err = svc.Signup(context.Background(), SignupForm{Name: "A", Email: "a@b.com", Password: "x", Confirm: "x"})
	assert.Equal(t, SignupFailed, UserMessage(err))

	err = svc.ForgotPassword(context.Background(), ForgotPasswordForm{Email: "a@b.com"})
	assert.Equal(t, ResetEmailFailed, UserMessage(err))
}

func TestLoginWithoutTokenFails(t *testing.T) {
	gw := &stubGateway{resp: &api.AuthResponse{}}
	store, err := session.NewStore(nil, nil)
	require.NoError(t, err)
	svc := NewService(gw, store, nil)

	_, err = svc.Login(context.Background(), LoginForm{Email: "a@b.com", Password: "x"})
	assert.Equal(t, LoginFailed, UserMessage(err))
	assert.False(t, store.IsAuthenticated())
}

func TestSignupAndRefresh(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupForm{Name: "Bo", Email: "bo@b.com", Password: "pw", Confirm: "pw"})
	require.NoError(t, err)
	first := store.Token()
	require.NotEmpty(t, first)

	require.NoError(t, svc.Refresh(ctx))
	assert.NotEmpty(t, store.Token())

	require.NoError(t, store.Clear())
	assert.Equal(t, NotSignedIn, UserMessage(svc.Refresh(ctx)))
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, _, srv := newService(t)
	srv.AddUser("Ada", "a@b.com", "x")
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordForm{Email: "a@b.com"}))
	assert.Equal(t, "No account with that email", UserMessage(svc.ForgotPassword(ctx, ForgotPasswordForm{Email: "z@b.com"})))

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordForm{Token: apitest.ValidResetToken, Password: "n", Confirm: "n"}))
	err := svc.ResetPassword(ctx, ResetPasswordForm{Token: "old", Password: "n", Confirm: "n"})
	assert.Equal(t, "Reset link is invalid or has expired", UserMessage(err))
}

type stubGateway struct {
	resp *api.AuthResponse
	err  error
}

func (s *stubGateway) Login(context.Context, api.LoginRequest) (*api.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubGateway) Signup(context.Context, api.SignupRequest) (*api.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubGateway) ForgotPassword(context.Context, string) (*api.Ack, error) {
	return &api.Ack{}, s.err
}

func (s *stubGateway) ResetPassword(context.Context, string, string) (*api.Ack, error) {
	return &api.Ack{}, s.err
}

func (s *stubGateway) RefreshToken(context.Context, string) (*api.TokenResponse, error) {
	return &api.TokenResponse{}, s.err
}
