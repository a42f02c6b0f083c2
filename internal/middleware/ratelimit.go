// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/olegiv/folio/internal/util"
)

// MessageRateLimited is returned when a client exceeds its request budget.
const MessageRateLimited = "Too many requests from this IP, please try again later."

// maxLimiterEntries bounds the per-key limiter table between sweeps.
const maxLimiterEntries = 10000

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterCache is a generic rate limiter cache keyed by client identity.
type limiterCache[K comparable] struct {
	entries map[K]*limiterEntry
	mu      sync.Mutex
	rate    rate.Limit
	burst   int
	now     func() time.Time
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		entries: make(map[K]*limiterEntry),
		rate:    rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	e, exists := lc.entries[key]
	if !exists {
		e = &limiterEntry{limiter: rate.NewLimiter(lc.rate, lc.burst)}
		lc.entries[key] = e
	}
	e.lastSeen = lc.now()
	return e.limiter
}

func (lc *limiterCache[K]) allow(key K) bool {
	return lc.get(key).AllowN(lc.now(), 1)
}

// sweep removes limiters idle for longer than maxIdle and returns how many
// were removed.
func (lc *limiterCache[K]) sweep(maxIdle time.Duration) int {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	cutoff := lc.now().Add(-maxIdle)
	removed := 0
	for key, e := range lc.entries {
		if e.lastSeen.Before(cutoff) {
			delete(lc.entries, key)
			removed++
		}
	}
	return removed
}

// clearIfExceeds drops every limiter when the table grew beyond maxSize.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.entries) > maxSize {
		lc.entries = make(map[K]*limiterEntry)
		return true
	}
	return false
}

func (lc *limiterCache[K]) len() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return len(lc.entries)
}

// RateLimiter limits requests per client IP with a token bucket.
type RateLimiter struct {
	cache *limiterCache[string]
	limit int
}

// NewRateLimiter creates a rate limiter refilling rps tokens per second up
// to burst. With rps = max/window and burst = max a client gets max
// requests per window.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		cache: newLimiterCache[string](rps, burst),
		limit: burst,
	}
}

// Middleware returns HTTP middleware answering 429 once a client IP has
// used up its budget.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			if !rl.cache.allow(ip) {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				WriteAPIError(w, http.StatusTooManyRequests, MessageRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Sweep forgets clients idle for longer than maxIdle. It is run by the
// scheduler.
func (rl *RateLimiter) Sweep(maxIdle time.Duration) int {
	removed := rl.cache.sweep(maxIdle)
	if rl.cache.clearIfExceeds(maxLimiterEntries) {
		slog.Info("cleared IP rate limiters due to size")
	}
	return removed
}

// Clients returns the number of tracked client IPs.
func (rl *RateLimiter) Clients() int {
	return rl.cache.len()
}
