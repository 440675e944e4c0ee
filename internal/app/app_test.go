// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/api/apitest"
	"github.com/abdulazeez2247/moe/internal/auth"
	"github.com/abdulazeez2247/moe/internal/config"
	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/session"
	"github.com/abdulazeez2247/moe/internal/upload"
)

func newTestApp(t *testing.T, baseURL string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.API.RequestsPerSecond = 0
	a, err := New(cfg, Options{
		Version: "test",
		Logger:  zap.NewNop(),
		Backend: session.NewMemoryBackend(),
		BaseURL: baseURL,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestLoginStoresTokenAndMountsHome(t *testing.T) {
	var body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"T","user":{"_id":"u1","name":"A","email":"a@b.com"}}`))
	}))
	defer ts.Close()

	a := newTestApp(t, ts.URL+"/api")
	require.NoError(t, a.Nav.Navigate(nav.PageLogin))

	user, err := a.Login(context.Background(), auth.LoginForm{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.JSONEq(t, `{"email":"a@b.com","password":"x"}`, body)
	assert.Equal(t, "T", a.Session.Token())
	assert.Equal(t, nav.PageHome, a.Nav.Page())
}

func TestLoginFailureStaysOnLogin(t *testing.T) {
	srv := apitest.New(t)
	a := newTestApp(t, srv.BaseURL())
	require.NoError(t, a.Nav.Navigate(nav.PageLogin))

	_, err := a.Login(context.Background(), auth.LoginForm{Email: "nobody@b.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", auth.UserMessage(err))
	assert.Empty(t, a.Session.Token())
	assert.Equal(t, nav.PageLogin, a.Nav.Page())
}

func TestSignupMountsHome(t *testing.T) {
	srv := apitest.New(t)
	a := newTestApp(t, srv.BaseURL())
	require.NoError(t, a.Nav.Navigate(nav.PageSignup))

	_, err := a.Signup(context.Background(), auth.SignupForm{
		Name: "Ada", Email: "ada@shop.com", Password: "pw", Confirm: "pw",
	})
	require.NoError(t, err)
	assert.True(t, a.Session.IsAuthenticated())
	assert.Equal(t, nav.PageHome, a.Nav.Page())
}

func TestUnauthorizedFromAnyPage(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")

	calls := map[string]func(context.Context, *api.Client) error{
		"me": func(ctx context.Context, c *api.Client) error {
			_, err := c.Me(ctx)
			return err
		},
		"ask": func(ctx context.Context, c *api.Client) error {
			_, err := c.Ask(ctx, api.AskRequest{Message: "kerf?"})
			return err
		},
		"usage": func(ctx context.Context, c *api.Client) error {
			_, err := c.Usage(ctx)
			return err
		},
		"history": func(ctx context.Context, c *api.Client) error {
			_, err := c.History(ctx)
			return err
		},
		"knowledge": func(ctx context.Context, c *api.Client) error {
			_, err := c.KnowledgeStatus(ctx)
			return err
		},
	}

	for _, page := range nav.Pages() {
		for name, call := range calls {
			t.Run(page.String()+"/"+name, func(t *testing.T) {
				a := newTestApp(t, srv.BaseURL())
				require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
				require.NoError(t, a.Nav.Navigate(page))

				srv.SetUnauthorized(true)
				defer srv.SetUnauthorized(false)

				err := call(context.Background(), a.API)
				require.ErrorIs(t, err, api.ErrUnauthorized)
				assert.Empty(t, a.Session.Token())
				assert.False(t, a.Session.IsAuthenticated())
				assert.Equal(t, nav.PageLogin, a.Nav.Page())
			})
		}
	}
}

func TestUnauthorizedDropsInflightChatResult(t *testing.T) {
	srv := apitest.New(t)
	a := newTestApp(t, srv.BaseURL())
	require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
	require.NoError(t, a.Nav.Navigate(nav.PageChat))

	c := a.NewChat()
	p, ok := c.Submit("What is kerf?")
	require.True(t, ok)

	srv.SetUnauthorized(true)
	res := c.Resolve(context.Background(), p)
	srv.SetUnauthorized(false)

	assert.Equal(t, nav.PageLogin, a.Nav.Page())
	assert.False(t, a.Nav.IsCurrent(c.Generation()))
	assert.False(t, a.Nav.IsCurrent(res.Generation))
}

func TestNewChatUsesConfig(t *testing.T) {
	srv := apitest.New(t)
	a := newTestApp(t, srv.BaseURL())
	a.Config.Ask.Platform = "mozaik"
	require.NoError(t, a.Nav.Navigate(nav.PageChat))

	c := a.NewChat()
	assert.Equal(t, a.Nav.Generation(), c.Generation())

	res, ok := c.Ask(context.Background(), "What is kerf?")
	require.True(t, ok)
	require.NoError(t, res.Err)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderBot, msgs[1].Sender)
	assert.Equal(t, "Answer to: What is kerf?", msgs[1].Text)
}

func TestUploaderFollowsCurrentPlan(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	a := newTestApp(t, srv.BaseURL())
	require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
	require.NoError(t, a.Nav.Navigate(nav.PageUpload))

	up := a.NewUploader()
	assert.ErrorIs(t, up.Gate(), upload.ErrUpgradeRequired)

	batch := up.UploadFiles(context.Background(), []upload.File{{Name: "a.txt", Content: []byte("hi")}})
	assert.True(t, batch.Blocked)
	assert.Zero(t, srv.CountPrefix("/upload"))

	require.NoError(t, a.Nav.SwitchPlan(plan.Professional))
	srv.SetPlan("a@b.com", "professional")
	assert.NoError(t, up.Gate())

	batch = up.UploadFiles(context.Background(), []upload.File{{Name: "a.txt", Content: []byte("hi")}})
	assert.False(t, batch.Blocked)
	assert.Len(t, batch.Added, 1)
	assert.True(t, up.Apply(batch))
}

func TestPaidPlanCheckout(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	a := newTestApp(t, srv.BaseURL())
	_, err := a.Login(context.Background(), auth.LoginForm{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, a.Nav.Navigate(nav.PagePricing))
	require.NoError(t, a.Nav.SelectPlan(plan.Professional, plan.Yearly))
	require.Equal(t, nav.PagePayment, a.Nav.Page())
	require.Equal(t, plan.Professional, a.Nav.SelectedPlan())

	co, err := a.Billing.Start(context.Background(), a.Nav.SelectedPlan(), a.Nav.Cycle())
	require.NoError(t, err)
	assert.NotEmpty(t, co.URL)

	require.NoError(t, a.CompletePayment(context.Background(), co))
	assert.Equal(t, nav.PageChat, a.Nav.Page())
	assert.Equal(t, plan.Professional, a.Nav.Plan())
	assert.Equal(t, "professional", srv.Plan("a@b.com"))
}

func TestLogoutClearsSession(t *testing.T) {
	srv := apitest.New(t)
	a := newTestApp(t, srv.BaseURL())
	require.NoError(t, a.Session.SetToken(srv.Token("a@b.com")))
	require.NoError(t, a.Nav.Navigate(nav.PageChat))

	require.NoError(t, a.Logout())
	assert.Empty(t, a.Session.Token())
	assert.Equal(t, nav.PageHome, a.Nav.Page())
}

func TestWatchSessionWithoutWatcher(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1/api")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.WatchSession(ctx))
}

func TestNewWithFileBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Session.Backend = config.BackendFile
	cfg.Session.Path = t.TempDir() + "/session"
	cfg.Log.Path = ""

	a, err := New(cfg, Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Session.SetToken("abc"))

	b, err := New(cfg, Options{Logger: zap.NewNop()})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "abc", b.Session.Token())
}

func TestPayWithCard(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	a := newTestApp(t, srv.BaseURL())
	_, err := a.Login(context.Background(), auth.LoginForm{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, a.Nav.SelectPlan(plan.Enterprise, plan.Monthly))
	require.NoError(t, a.PayWithCard(context.Background()))
	assert.Equal(t, nav.PageChat, a.Nav.Page())
	assert.Equal(t, plan.Enterprise, a.Nav.Plan())
}

func TestSyncPlanAdoptsServerTier(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("A", "a@b.com", "x")
	srv.SetPlan("a@b.com", "professional")
	a := newTestApp(t, srv.BaseURL())
	_, err := a.Login(context.Background(), auth.LoginForm{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	usage, err := a.SyncPlan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "professional", usage.Plan)
	assert.Equal(t, plan.Professional, a.Nav.Plan())
	assert.True(t, a.NewUploader().Allowed())
}
