// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/app"
)

func callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// Run starts the full-screen client and blocks until the user quits.
func Run(ctx context.Context, a *app.App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(a), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Changes can originate inside Update, where a blocking Send would
	// deadlock the event loop.
	a.Session.OnChange(func(authenticated bool) {
		go p.Send(SessionChangedMsg{Authenticated: authenticated})
	})
	go func() {
		if err := a.WatchSession(ctx); err != nil {
			a.Log.Warn("session watch stopped", zap.Error(err))
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
