// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides the read-through cache in front of the public
// content endpoints. Values are opaque bytes so that the in-memory and
// Redis backends are interchangeable.
package cache

import (
	"context"
	"time"
)

// Cache is implemented by every backend. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Clear removes all entries owned by the cache.
	Clear(ctx context.Context) error

	// Close releases any resources held by the cache.
	Close() error
}

// Stats holds cache statistics.
type Stats struct {
	Backend string  `json:"backend"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Sets    int64   `json:"sets"`
	Items   int     `json:"items"`
	HitRate float64 `json:"hitRate"`
}

// StatsProvider is implemented by caches that keep statistics.
type StatsProvider interface {
	Stats() Stats
}

// Error is a sentinel cache error.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrCacheMiss indicates the key was not found in cache or has expired.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed Error = "cache closed"
)

// counters are the hit/miss/set statistics shared by the backends.
type counters struct {
	hits, misses, sets int64
}

func (c counters) stats(backend string, items int) Stats {
	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}
	return Stats{
		Backend: backend,
		Hits:    c.hits,
		Misses:  c.misses,
		Sets:    c.sets,
		Items:   items,
		HitRate: hitRate,
	}
}
