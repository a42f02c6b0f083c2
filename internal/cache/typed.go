// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// TypedCache stores values of type T as JSON in an underlying Cache under
// a fixed key namespace. Cache failures never fail the caller: a broken
// backend degrades to loading from the source every time.
type TypedCache[T any] struct {
	cache     Cache
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewTyped creates a typed view of c. Keys are stored as namespace+":"+key.
func NewTyped[T any](c Cache, namespace string, ttl time.Duration, logger *slog.Logger) *TypedCache[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypedCache[T]{cache: c, namespace: namespace, ttl: ttl, logger: logger}
}

func (c *TypedCache[T]) key(k string) string {
	return c.namespace + ":" + k
}

// Get returns the cached value for key.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var v T
	data, err := c.cache.Get(ctx, c.key(key))
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("dropping undecodable cache entry", "key", c.key(key), "error", err)
		_ = c.cache.Delete(ctx, c.key(key))
		var zero T
		return zero, false
	}
	return v, true
}

// Set stores value under key.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.key(key), data, c.ttl)
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result.
func (c *TypedCache[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		c.logger.Warn("cache set failed", "key", c.key(key), "error", err)
	}
	return v, nil
}

// Invalidate drops every entry in the namespace.
func (c *TypedCache[T]) Invalidate(ctx context.Context) {
	if err := c.cache.DeleteByPrefix(ctx, c.namespace+":"); err != nil {
		c.logger.Warn("cache invalidation failed", "namespace", c.namespace, "error", err)
	}
}
