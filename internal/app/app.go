// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abdulazeez2247/moe/internal/api"
	"github.com/abdulazeez2247/moe/internal/auth"
	"github.com/abdulazeez2247/moe/internal/billing"
	"github.com/abdulazeez2247/moe/internal/chat"
	"github.com/abdulazeez2247/moe/internal/config"
	"github.com/abdulazeez2247/moe/internal/logging"
	"github.com/abdulazeez2247/moe/internal/nav"
	"github.com/abdulazeez2247/moe/internal/plan"
	"github.com/abdulazeez2247/moe/internal/session"
	"github.com/abdulazeez2247/moe/internal/upload"
)

// Options adjusts how New builds the context.
type Options struct {
	// Version is reported in the User-Agent header.
	Version string

	// Verbose forces debug logging.
	Verbose bool

	// Logger replaces the file logger built from config.
	Logger *zap.Logger

	// Backend replaces the session backend named in config.
	Backend session.Backend

	// BaseURL replaces the API base URL derived from config.
	BaseURL string
}

// App bundles everything a page or command needs. It is built once and
// passed explicitly; nothing in the client reaches for globals.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Session *session.Store
	Nav     *nav.Controller
	API     *api.Client
	Auth    *auth.Service
	Billing *billing.Service

	closers []func() error
}

// New wires the client together from cfg.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{Config: cfg}

	log, err := a.buildLogger(opts)
	if err != nil {
		return nil, err
	}
	a.Log = log

	backend := opts.Backend
	if backend == nil {
		backend, err = a.openBackend()
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Session, err = session.NewStore(backend, a.Log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Nav, err = nav.New(a.Session, a.Log)
	if err != nil {
		a.Close()
		return nil, err
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = cfg.BaseURL()
	}
	ua := "moe/dev"
	if opts.Version != "" {
		ua = "moe/" + opts.Version
	}
	a.API = api.New(baseURL, a.Session).
		WithTimeout(cfg.Timeout()).
		WithRateLimit(cfg.API.RequestsPerSecond).
		WithUserAgent(ua).
		WithLogger(a.Log)

	// A 401 anywhere lands the user on the sign-in page.
	a.API.OnUnauthorized(func(op string) {
		a.Log.Info("forcing sign-in", zap.String("op", op))
		a.Nav.Unauthorized()
	})

	a.Auth = auth.NewService(a.API, a.Session, a.Log)
	a.Billing = billing.NewService(a.API, a.Log)

	a.Log.Info("app ready",
		zap.String("base_url", baseURL),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("authenticated", a.Session.IsAuthenticated()))
	return a, nil
}

func (a *App) buildLogger(opts Options) (*zap.Logger, error) {
	if opts.Logger != nil {
		return opts.Logger, nil
	}
	path, err := a.Config.LogPath()
	if err != nil {
		return nil, fmt.Errorf("log path: %w", err)
	}
	lo := logging.DefaultOptions(path)
	lo.Level = a.Config.Log.Level
	if opts.Verbose {
		lo.Level = zapcore.DebugLevel.String()
	}
	log, closeFn, err := logging.New(lo)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeFn)
	return log, nil
}

func (a *App) openBackend() (session.Backend, error) {
	path, err := a.Config.SessionPath()
	if err != nil {
		return nil, fmt.Errorf("session path: %w", err)
	}
	backend, closer, err := session.OpenBackend(a.Config.Session.Backend, path)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer.Close)
	}
	return backend, nil
}

// =============================================================================
// VIEW FACTORIES
// =============================================================================

// NewChat creates chat logic bound to the current generation.
func (a *App) NewChat() *chat.Chat {
	return chat.New(a.API, chat.Options{
		Platform: a.Config.Ask.Platform,
		Version:  a.Config.Ask.Version,
	}, a.Nav.Generation(), a.Log)
}

// NewUploader creates upload logic bound to the current generation. The
// plan is read from the navigation controller at upload time.
func (a *App) NewUploader() *upload.Uploader {
	return upload.New(a.API, a.Nav, upload.Options{
		MaxConcurrent: a.Config.Upload.MaxConcurrent,
		MaxFileBytes:  int64(a.Config.Upload.MaxFileMB) << 20,
	}, a.Nav.Generation(), a.Log)
}

// WatchSession follows session changes made by other processes until ctx is
// done. It is a no-op unless enabled in config and supported by the backend.
func (a *App) WatchSession(ctx context.Context) error {
	if !a.Config.Session.WatchExternal {
		return nil
	}
	return a.Session.Watch(ctx)
}

// =============================================================================
// FLOWS
// =============================================================================

// Login signs in and mounts home on success.
func (a *App) Login(ctx context.Context, form auth.LoginForm) (*api.User, error) {
	user, err := a.Auth.Login(ctx, form)
	if err != nil {
		return nil, err
	}
	a.Nav.LoginSucceeded()
	return user, nil
}

// Signup creates the account and mounts home on success.
func (a *App) Signup(ctx context.Context, form auth.SignupForm) (*api.User, error) {
	user, err := a.Auth.Signup(ctx, form)
	if err != nil {
		return nil, err
	}
	a.Nav.SignupSucceeded()
	return user, nil
}

// CompletePayment confirms co with the backend, records the new tier and
// mounts chat.
func (a *App) CompletePayment(ctx context.Context, co *billing.Checkout) error {
	if err := a.Billing.Confirm(ctx, co); err != nil {
		return err
	}
	a.Nav.PaymentSucceeded()
	return nil
}

// PayWithCard pays for the selected tier with a payment intent, records the
// new tier and mounts chat.
func (a *App) PayWithCard(ctx context.Context) error {
	if err := a.Billing.PayWithIntent(ctx, a.Nav.SelectedPlan(), a.Nav.Cycle()); err != nil {
		return err
	}
	a.Nav.PaymentSucceeded()
	return nil
}

// SyncPlan fetches usage and adopts the plan the backend reports. Tiers the
// client does not know are ignored.
func (a *App) SyncPlan(ctx context.Context) (*api.Usage, error) {
	usage, err := a.API.Usage(ctx)
	if err != nil {
		return nil, err
	}
	if t, perr := plan.Parse(usage.Plan); perr == nil && t != a.Nav.Plan() {
		if err := a.Nav.SyncPlan(t); err != nil {
			return usage, err
		}
	}
	return usage, nil
}

// Logout clears the session and returns to home.
func (a *App) Logout() error {
	return a.Nav.Logout()
}

// Close releases the log file and session backend.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
