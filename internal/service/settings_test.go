// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/model"
)

// emptySettings is a repository that starts without a settings row.
type emptySettings struct {
	st      model.SiteSettings
	exists  bool
	gets    int
	ensures int
}

func (r *emptySettings) Get(context.Context) (model.SiteSettings, bool, error) {
	r.gets++
	return r.st, r.exists, nil
}

func (r *emptySettings) EnsureDefaults(context.Context) error {
	r.ensures++
	if !r.exists {
		r.st, r.exists = model.DefaultSettings(), true
	}
	return nil
}

func (r *emptySettings) UpdateSections(_ context.Context, sections map[string]model.Section) (model.SiteSettings, error) {
	for name, v := range sections {
		r.st.SetSection(name, v)
	}
	return r.st, nil
}

func TestSettingsService_GetCreatesDefaults(t *testing.T) {
	repo := &emptySettings{}
	svc := NewSettingsService(repo, testCaching(t))
	ctx := context.Background()

	st, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Portfolio", st.General["siteName"])
	assert.Equal(t, 1, repo.ensures)
	assert.Equal(t, 2, repo.gets)

	_, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.gets, "second read is served from cache")
}

func TestSettingsService_Update(t *testing.T) {
	svc := NewSettingsService(testStore(t).Settings(), testCaching(t))
	ctx := context.Background()

	before, err := svc.Get(ctx)
	require.NoError(t, err)

	st, err := svc.Update(ctx, map[string]model.Section{
		model.SectionTheme: {"mode": "light"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Section{"mode": "light"}, st.Theme, "sections are replaced whole")
	assert.Equal(t, before.General, st.General)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme["mode"], "cache is invalidated on update")

	_, err = svc.Update(ctx, map[string]model.Section{"footer": {"x": 1}})
	requireValidation(t, err, "footer")
	_, err = svc.Update(ctx, map[string]model.Section{model.SectionSEO: nil})
	requireValidation(t, err, "seo")
	_, err = svc.Update(ctx, map[string]model.Section{})
	requireValidation(t, err, "settings")
}

func TestSettingsService_UpdateSectionMerges(t *testing.T) {
	svc := NewSettingsService(testStore(t).Settings(), nil)
	ctx := context.Background()

	st, err := svc.UpdateSection(ctx, model.SectionGeneral, model.Section{"siteName": "Renamed", "extra": true})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", st.General["siteName"])
	assert.Equal(t, "Developer & Designer", st.General["tagline"])
	assert.Equal(t, true, st.General["extra"])
	assert.Equal(t, "#3b82f6", st.Theme["primaryColor"])

	_, err = svc.UpdateSection(ctx, "footer", model.Section{})
	requireNotFound(t, err)
}
