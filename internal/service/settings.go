// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/model"
)

// SettingsRepository is the storage used by SettingsService.
type SettingsRepository interface {
	Get(ctx context.Context) (model.SiteSettings, bool, error)
	EnsureDefaults(ctx context.Context) error
	UpdateSections(ctx context.Context, sections map[string]model.Section) (model.SiteSettings, error)
}

// SettingsService reads and edits the site settings document.
type SettingsService struct {
	repo  SettingsRepository
	cache *cache.TypedCache[model.SiteSettings]
}

// NewSettingsService creates a SettingsService. c may be nil.
func NewSettingsService(repo SettingsRepository, c *Caching) *SettingsService {
	return &SettingsService{
		repo:  repo,
		cache: newTyped[model.SiteSettings](c, "settings"),
	}
}

// Get returns the settings, creating the defaults when none exist yet.
func (s *SettingsService) Get(ctx context.Context) (model.SiteSettings, error) {
	return cached(ctx, s.cache, "main", s.load)
}

func (s *SettingsService) load(ctx context.Context) (model.SiteSettings, error) {
	st, found, err := s.repo.Get(ctx)
	if err != nil {
		return model.SiteSettings{}, err
	}
	if found {
		return st, nil
	}
	if err := s.repo.EnsureDefaults(ctx); err != nil {
		return model.SiteSettings{}, err
	}
	st, found, err = s.repo.Get(ctx)
	if err != nil {
		return model.SiteSettings{}, err
	}
	if !found {
		return model.SiteSettings{}, fmt.Errorf("settings missing after creating defaults")
	}
	return st, nil
}

// Update replaces each provided section as a whole.
func (s *SettingsService) Update(ctx context.Context, sections map[string]model.Section) (model.SiteSettings, error) {
	verr := &model.ValidationError{}
	for name, v := range sections {
		if !model.IsSettingsSection(name) {
			verr.Add(name, "is not a settings section")
		} else if v == nil {
			verr.Add(name, "must be an object")
		}
	}
	if len(sections) == 0 {
		verr.Add("settings", "at least one section is required")
	}
	if err := verr.OrNil(); err != nil {
		return model.SiteSettings{}, err
	}

	st, err := s.repo.UpdateSections(ctx, sections)
	if err != nil {
		return model.SiteSettings{}, err
	}
	invalidate(ctx, s.cache)
	return st, nil
}

// UpdateSection merges values into the named section. Keys not present in
// values keep their current value.
func (s *SettingsService) UpdateSection(ctx context.Context, name string, values model.Section) (model.SiteSettings, error) {
	if !model.IsSettingsSection(name) {
		return model.SiteSettings{}, &model.NotFoundError{Entity: "Settings section", ID: name}
	}

	current, err := s.load(ctx)
	if err != nil {
		return model.SiteSettings{}, err
	}

	merged := make(model.Section)
	maps.Copy(merged, current.Section(name))
	maps.Copy(merged, values)

	st, err := s.repo.UpdateSections(ctx, map[string]model.Section{name: merged})
	if err != nil {
		return model.SiteSettings{}, err
	}
	invalidate(ctx, s.cache)
	return st, nil
}
