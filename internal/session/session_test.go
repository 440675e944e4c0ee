// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@b.com",
		"iat":   time.Now().Unix(),
		"exp":   exp.Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_AuthenticatedIffTokenPresent(t *testing.T) {
	s, err := NewStore(nil, nil)
	require.NoError(t, err)

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "", s.Token())

	require.NoError(t, s.SetToken("T"))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "T", s.Token())

	require.NoError(t, s.SetToken(""))
	assert.False(t, s.IsAuthenticated())

	require.NoError(t, s.SetToken("U"))
	require.NoError(t, s.Clear())
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "", s.Token())
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s1, err := NewStore(NewFileBackend(path), nil)
	require.NoError(t, err)
	require.NoError(t, s1.SetToken("persisted"))

	s2, err := NewStore(NewFileBackend(path), nil)
	require.NoError(t, err)
	assert.Equal(t, "persisted", s2.Token())

	require.NoError(t, s2.Clear())
	s3, err := NewStore(NewFileBackend(path), nil)
	require.NoError(t, err)
	assert.False(t, s3.IsAuthenticated())
}

func TestStore_CorruptFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStore(NewFileBackend(path), nil)
	assert.Error(t, err)
}

func TestStore_OnChange(t *testing.T) {
	s, _ := NewStore(nil, nil)

	var events []bool
	s.OnChange(func(authenticated bool) { events = append(events, authenticated) })

	s.SetToken("a")
	s.SetToken("b")
	s.Clear()
	s.Clear() // already signed out: no event

	assert.Equal(t, []bool{true, true, false}, events)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s, _ := NewStore(NewMemoryBackend(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetToken("tok")
			s.Clear()
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.IsAuthenticated()
		}()
	}
	wg.Wait()
}

func TestStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := NewStore(NewFileBackend(path), nil)
	require.NoError(t, err)

	var flipped []bool
	s.OnChange(func(a bool) { flipped = append(flipped, a) })

	// Another process signs in.
	require.NoError(t, NewFileBackend(path).Save("from-elsewhere"))
	require.NoError(t, s.Reload())
	assert.Equal(t, "from-elsewhere", s.Token())

	// And then signs out.
	require.NoError(t, NewFileBackend(path).Delete())
	require.NoError(t, s.Reload())
	assert.False(t, s.IsAuthenticated())

	assert.Equal(t, []bool{true, false}, flipped)
}

func TestStore_Expiry(t *testing.T) {
	s, _ := NewStore(nil, nil)
	_, ok := s.Expiry()
	assert.False(t, ok)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s.SetToken(signedToken(t, exp))
	got, ok := s.Expiry()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

// =============================================================================
// BACKEND TESTS
// =============================================================================

func TestFileBackend_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	path := filepath.Join(t.TempDir(), "session.json")
	b := NewFileBackend(path)
	require.NoError(t, b.Save("secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, _ := os.ReadFile(path)
	assert.JSONEq(t, `{"token":"secret"}`, string(data))
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moe.db")
	b, err := OpenSQLiteBackend(path)
	require.NoError(t, err)
	defer b.Close()

	tok, err := b.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, b.Save("one"))
	require.NoError(t, b.Save("two"))
	tok, err = b.Load()
	require.NoError(t, err)
	assert.Equal(t, "two", tok)

	require.NoError(t, b.Delete())
	tok, err = b.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSQLiteBackend_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moe.db")
	b, err := OpenSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Save("durable"))
	require.NoError(t, b.Close())

	b2, err := OpenSQLiteBackend(path)
	require.NoError(t, err)
	defer b2.Close()
	tok, err := b2.Load()
	require.NoError(t, err)
	assert.Equal(t, "durable", tok)
}

func TestMemoryBackend_HonorsExpiry(t *testing.T) {
	b := NewMemoryBackend()

	require.NoError(t, b.Save("opaque"))
	tok, _ := b.Load()
	assert.Equal(t, "opaque", tok)

	expired := signedToken(t, time.Now().Add(-time.Minute))
	require.NoError(t, b.Save(expired))
	tok, _ = b.Load()
	assert.Empty(t, tok, "an already-expired JWT must not be stored")

	live := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, b.Save(live))
	tok, _ = b.Load()
	assert.Equal(t, live, tok)
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	b, closer, err := OpenBackend("file", filepath.Join(dir, "s.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)
	assert.Nil(t, closer)

	b, closer, err = OpenBackend("sqlite", filepath.Join(dir, "s.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBackend{}, b)
	require.NotNil(t, closer)
	closer.Close()

	b, _, err = OpenBackend("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	_, _, err = OpenBackend("redis", "")
	assert.Error(t, err)
	_, _, err = OpenBackend("file", "")
	assert.Error(t, err)
}

// =============================================================================
// TOKEN TESTS
// =============================================================================

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	c, ok := ParseClaims(signedToken(t, exp))
	require.True(t, ok)
	assert.Equal(t, "user-1", c.Subject)
	assert.Equal(t, "a@b.com", c.Email)
	assert.True(t, c.ExpiresAt.Equal(exp))

	_, ok = ParseClaims("opaque-session-token")
	assert.False(t, ok)
	_, ok = ParseClaims("")
	assert.False(t, ok)
}

// =============================================================================
// WATCH TESTS
// =============================================================================

func TestStore_WatchSeesExternalLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, NewFileBackend(path).Save("T"))

	s, err := NewStore(NewFileBackend(path), nil)
	require.NoError(t, err)
	require.True(t, s.IsAuthenticated())

	var signedOut atomic.Bool
	s.OnChange(func(a bool) {
		if !a {
			signedOut.Store(true)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// Give the watcher a moment to register before mutating the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, NewFileBackend(path).Delete())

	require.Eventually(t, signedOut.Load, 3*time.Second, 20*time.Millisecond)
	assert.False(t, s.IsAuthenticated())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestStore_WatchWithoutWatcherReturns(t *testing.T) {
	s, _ := NewStore(NewMemoryBackend(), nil)
	assert.NoError(t, s.Watch(context.Background()))
}
