// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryBackend keeps the token in process memory only. A token whose JWT
// exp claim has passed is evicted and reads as signed out.
type MemoryBackend struct {
	cache *cache.Cache
	now   func() time.Time
}

// NewMemoryBackend creates an in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
		now:   time.Now,
	}
}

// Load returns the token if present and unexpired.
func (b *MemoryBackend) Load() (string, error) {
	if x, found := b.cache.Get(storageKey); found {
		return x.(string), nil
	}
	return "", nil
}

// Save stores the token, expiring it with its exp claim when it has one.
func (b *MemoryBackend) Save(token string) error {
	ttl := cache.NoExpiration
	if exp, ok := TokenExpiry(token); ok {
		ttl = exp.Sub(b.now())
		if ttl <= 0 {
			b.cache.Delete(storageKey)
			return nil
		}
	}
	b.cache.Set(storageKey, token, ttl)
	return nil
}

// Delete drops the token.
func (b *MemoryBackend) Delete() error {
	b.cache.Delete(storageKey)
	return nil
}
