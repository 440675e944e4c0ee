// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/api/apitest"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/session"
)

func newService(t *testing.T) (*Service, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	srv.AddUser("Ada", "a@b.com", "x")
	store, err := session.NewStore(nil, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetToken(srv.Token("a@b.com")))
	return NewService(api.New(srv.BaseURL(), store), nil), srv
}

func TestStartAndConfirm(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()

	co, err := svc.Start(ctx, plan.Professional, plan.Yearly)
	require.NoError(t, err)
	assert.Equal(t, plan.Professional, co.Tier)
	assert.Equal(t, "$279/yr", co.Price)
	assert.NotEmpty(t, co.URL)
	assert.NotEmpty(t, co.SessionID)

	require.NoError(t, svc.Confirm(ctx, co))
	assert.Equal(t, "professional", srv.Plan("a@b.com"))
}

func TestStartRejectsFreeAndUnknown(t *testing.T) {
	svc, srv := newService(t)
	_, err := svc.Start(context.Background(), plan.Free, plan.Monthly)
	assert.ErrorIs(t, err, ErrFreePlan)
	_, err = svc.Start(context.Background(), plan.Tier("gold"), plan.Monthly)
	assert.Error(t, err)
	assert.Zero(t, srv.CountPrefix("/payments/"))
}

func TestStartTierWithoutCard(t *testing.T) {
	svc, _ := newService(t)
	co, err := svc.Start(context.Background(), plan.Hobbyist, "")
	require.NoError(t, err)
	assert.Equal(t, plan.Monthly, co.Cycle)
	assert.Empty(t, co.Price)
}

func TestPayWithIntent(t *testing.T) {
	svc, srv := newService(t)
	require.NoError(t, svc.PayWithIntent(context.Background(), plan.Enterprise, plan.Monthly))
	assert.Equal(t, "enterprise", srv.Plan("a@b.com"))

	err := svc.PayWithIntent(context.Background(), plan.Occasional, plan.Monthly)
	assert.Error(t, err)
}

func TestStartSurfacesServerMessage(t *testing.T) {
	svc, srv := newService(t)
	srv.SetUnauthorized(true)

	_, err := svc.Start(context.Background(), plan.Enterprise, plan.Monthly)
	var billErr *Error
	require.True(t, errors.As(err, &billErr))
	assert.Equal(t, "Token expired", billErr.Message)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestUnconfirmedResult(t *testing.T) {
	err := checkResult(&api.PaymentResult{Success: false})
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, PaymentFailed, err.Error())

	err = checkResult(&api.PaymentResult{Success: false, Message: "Card declined"})
	assert.Equal(t, "Card declined", err.Error())
}
