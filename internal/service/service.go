// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the business rules that sit between the HTTP
// handlers and the store gateways: required fields, derived values such as
// read time and slugs, statistics, caching and account policy.
package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/model"
)

// FeaturedLimit is the number of items returned by the featured endpoints.
const FeaturedLimit = 6

// Caching configures the read-through caches of the services. A nil
// *Caching disables caching.
type Caching struct {
	Cache  cache.Cache
	TTL    time.Duration
	Logger *slog.Logger
}

// repository is the gateway contract shared by the content tables.
type repository[T, P any] interface {
	FindAll(ctx context.Context, f model.Filter) ([]T, error)
	FindByID(ctx context.Context, id string) (T, bool, error)
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id string, patch P) (T, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, f model.Filter) (int, error)
}

// Page is one page of a filtered list together with the unpaginated total.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// TotalPages returns ceil(Total/Limit).
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(p.Total) / float64(p.Limit)))
}

func listPage[T, P any](ctx context.Context, repo repository[T, P], f model.Filter, page, limit int) (Page[T], error) {
	if page < 1 {
		page = 1
	}
	items, err := repo.FindAll(ctx, f.Page(page, limit))
	if err != nil {
		return Page[T]{}, err
	}
	total, err := repo.Count(ctx, f)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func findOrNotFound[T, P any](ctx context.Context, repo repository[T, P], entity, id string) (T, error) {
	v, found, err := repo.FindByID(ctx, id)
	if err != nil {
		return v, err
	}
	if !found {
		return v, &model.NotFoundError{Entity: entity, ID: id}
	}
	return v, nil
}

func updateOrNotFound[T, P any](ctx context.Context, repo repository[T, P], entity, id string, patch P) (T, error) {
	v, found, err := repo.Update(ctx, id, patch)
	if err != nil {
		return v, err
	}
	if !found {
		return v, &model.NotFoundError{Entity: entity, ID: id}
	}
	return v, nil
}

func deleteOrNotFound[T, P any](ctx context.Context, repo repository[T, P], entity, id string) error {
	deleted, err := repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &model.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

// contentStats computes the four status/featured counts of a content table.
func contentStats[T, P any](ctx context.Context, repo repository[T, P]) (model.Stats, error) {
	var (
		s   model.Stats
		err error
	)
	counts := []struct {
		dst *int
		f   model.Filter
	}{
		{&s.Total, model.Filter{}},
		{&s.Published, model.Filter{Status: model.Some(model.StatusPublished)}},
		{&s.Draft, model.Filter{Status: model.Some(model.StatusDraft)}},
		{&s.Featured, model.Filter{Featured: model.Some(true)}},
	}
	for _, c := range counts {
		if *c.dst, err = repo.Count(ctx, c.f); err != nil {
			return model.Stats{}, err
		}
	}
	return s, nil
}

// cached reads key through tc, or calls load directly when caching is off.
func cached[T any](ctx context.Context, tc *cache.TypedCache[T], key string, load func(context.Context) (T, error)) (T, error) {
	if tc == nil {
		return load(ctx)
	}
	return tc.GetOrLoad(ctx, key, load)
}

func invalidate[T any](ctx context.Context, tc *cache.TypedCache[T]) {
	if tc != nil {
		tc.Invalidate(ctx)
	}
}

// newTyped returns nil when c is nil so that caching can be switched off.
func newTyped[T any](c *Caching, namespace string) *cache.TypedCache[T] {
	if c == nil || c.Cache == nil {
		return nil
	}
	return cache.NewTyped[T](c.Cache, namespace, c.TTL, c.Logger)
}

// blank reports whether s has no visible characters.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// requireText records a "is required" error for every blank field.
func requireText(verr *model.ValidationError, fields ...[2]string) {
	for _, f := range fields {
		if blank(f[1]) {
			verr.Add(f[0], "is required")
		}
	}
}

// notBlank checks a set string patch field.
func notBlank(verr *model.ValidationError, field string, o model.Opt[string]) {
	if v, ok := o.Get(); ok && blank(v) {
		verr.Add(field, "must not be empty")
	}
}

func validStatus(verr *model.ValidationError, s model.Status, allowEmpty bool) {
	if s == "" && allowEmpty {
		return
	}
	if !s.Valid() {
		verr.Add("status", "must be one of draft, published, archived")
	}
}
