// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abdulazeez2247/moe/internal/logging"
)

// =============================================================================
// BACKEND
// =============================================================================

// Backend persists the single session token. Load returns "" when nothing
// is stored.
type Backend interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// Watcher is implemented by backends that can report changes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context, changed func()) error
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the session token and answers whether the user is signed in.
//
// IsAuthenticated is true exactly when a token is present. The store is safe
// for concurrent use; callers read it at request time rather than caching
// the token.
type Store struct {
	mu      sync.RWMutex
	token   string
	backend Backend
	log     *zap.Logger

	listenMu  sync.Mutex
	listeners []func(authenticated bool)
}

// NewStore creates a store over backend and loads any persisted token.
// A nil backend keeps the token in memory for the life of the process.
func NewStore(backend Backend, log *zap.Logger) (*Store, error) {
	s := &Store{
		backend: backend,
		log:     logging.OrNop(log).Named("session"),
	}
	if backend == nil {
		return s, nil
	}

	token, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.token = token
	return s, nil
}

// SetToken stores token and persists it. An empty token is equivalent to
// Clear. The in-memory value is updated even if persisting fails.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.notify(true)

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Save(token); err != nil {
		s.log.Warn("failed to persist session token", zap.Error(err))
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Token returns the current token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Clear forgets the token in memory and in the backend.
func (s *Store) Clear() error {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	s.mu.Unlock()
	if had {
		s.notify(false)
	}

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Delete(); err != nil {
		s.log.Warn("failed to delete persisted session token", zap.Error(err))
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Expiry returns the token's expiration time if it is a JWT carrying one.
func (s *Store) Expiry() (time.Time, bool) {
	return TokenExpiry(s.Token())
}

// OnChange registers fn to run whenever the authenticated flag flips.
// fn runs on the goroutine that caused the change.
func (s *Store) OnChange(fn func(authenticated bool)) {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(authenticated bool) {
	s.listenMu.Lock()
	listeners := append([]func(bool){}, s.listeners...)
	s.listenMu.Unlock()
	for _, fn := range listeners {
		fn(authenticated)
	}
}

// Reload re-reads the token from the backend, picking up changes written by
// another process.
func (s *Store) Reload() error {
	if s.backend == nil {
		return nil
	}
	token, err := s.backend.Load()
	if err != nil {
		return fmt.Errorf("failed to reload session: %w", err)
	}

	s.mu.Lock()
	was := s.token != ""
	s.token = token
	now := s.token != ""
	s.mu.Unlock()

	if was != now {
		s.log.Info("session changed externally", zap.Bool("authenticated", now))
		s.notify(now)
	}
	return nil
}

// Watch reloads the store whenever the backend reports an external change.
// It blocks until ctx is done. Backends without change notification return
// immediately with a nil error.
func (s *Store) Watch(ctx context.Context) error {
	w, ok := s.backend.(Watcher)
	if !ok {
		return nil
	}
	return w.Watch(ctx, func() {
		if err := s.Reload(); err != nil {
			s.log.Warn("session reload failed", zap.Error(err))
		}
	})
}
