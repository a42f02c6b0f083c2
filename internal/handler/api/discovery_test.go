// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/model"
)

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api", "/api/"} {
		w := env.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, path)

		var dir Directory
		decode(t, w, &dir)
		assert.Equal(t, "v1.0.0", dir.Version)
		assert.Equal(t, "/api/projects", dir.Endpoints["projects"])
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w, nil)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "/api/nothing-here")

	w = env.do(http.MethodDelete, "/api/settings", model.RoleAdmin, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSitemap(t *testing.T) {
	env := newTestEnv(t)
	live := env.createProject("Live", model.StatusPublished, false)
	env.createProject("Draft", model.StatusDraft, false)
	w := env.do(http.MethodPost, "/api/blog", model.RoleEditor, postBody("First Post", "Body", model.StatusPublished))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")

	body := w.Body.String()
	assert.Contains(t, body, "<loc>https://example.com</loc>")
	assert.Contains(t, body, "<loc>https://example.com/projects/"+live.ID+"</loc>")
	assert.Contains(t, body, "<loc>https://example.com/blog/first-post</loc>")
	assert.Equal(t, 3, strings.Count(body, "<url>"))
}

func TestRobots(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Disallow: /api/")
	assert.Contains(t, w.Body.String(), "Sitemap: https://example.com/sitemap.xml")

	h := NewHandler(Deps{SiteURL: "https://example.com"})
	w = httptest.NewRecorder()
	h.Robots(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Equal(t, "User-agent: *\nDisallow: /\n", w.Body.String())
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 10},
		{"page=3&limit=25", 3, 25},
		{"page=0&limit=-5", 1, 10},
		{"page=abc&limit=x", 1, 10},
		{"limit=1000", 1, MaxLimit},
	}
	for _, tt := range tests {
		page, limit := parsePagination(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.limit, limit, tt.query)
	}
}

func TestParseFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?status=published&featured=true&approved=0&role=editor&isActive=false", nil)
	f, err := parseFilter(r, "status", "featured", "approved", "role", "isActive")
	require.NoError(t, err)
	assert.Equal(t, model.Some(model.StatusPublished), f.Status)
	assert.Equal(t, model.Some(true), f.Featured)
	assert.Equal(t, model.Some(false), f.Approved)
	assert.Equal(t, model.Some(model.RoleEditor), f.Role)
	assert.Equal(t, model.Some(false), f.IsActive)

	// Keys not asked for are ignored.
	f, err = parseFilter(r, "approved")
	require.NoError(t, err)
	assert.False(t, f.Status.IsSet())

	_, err = parseFilter(httptest.NewRequest(http.MethodGet, "/?featured=maybe&role=root", nil), "featured", "role")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}
