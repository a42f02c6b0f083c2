// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/upload"
	"github.com/olegiv/folio/internal/version"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

// envelope mirrors middleware.Response with raw data for typed decoding.
type envelope struct {
	Success    bool                   `json:"success"`
	Data       json.RawMessage        `json:"data"`
	Message    string                 `json:"message"`
	Error      string                 `json:"error"`
	Errors     []model.FieldError     `json:"errors"`
	Pagination *middleware.Pagination `json:"pagination"`
}

// testEnv is a fully wired API backed by a temporary database.
type testEnv struct {
	t       *testing.T
	router  http.Handler
	svc     Services
	uploads *upload.Storage
	tokens  map[model.Role]string
	users   map[model.Role]model.User
}

type envOption func(*Deps)

func withLoginProtection(lp *middleware.LoginProtection) envOption {
	return func(d *Deps) { d.LoginProtection = lp }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	st := store.New(store.Config{
		Path:          filepath.Join(dir, "test.db"),
		AdminUsername: "admin",
		AdminPassword: "admin-password",
		AdminEmail:    "admin@example.com",
	}, logger)
	require.NoError(t, st.Initialize(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	tokens := auth.NewTokenManager(testSecret, time.Hour)
	svc := Services{
		Auth:         service.NewAuthService(st.Users(), tokens, logger),
		Users:        service.NewUserService(st.Users()),
		Projects:     service.NewProjectService(st.Projects(), nil),
		Blog:         service.NewBlogService(st.BlogPosts(), nil),
		Testimonials: service.NewTestimonialService(st.Testimonials(), nil),
		Settings:     service.NewSettingsService(st.Settings(), nil),
	}

	uploads, err := upload.New(filepath.Join(dir, "uploads"), 1<<20, logger)
	require.NoError(t, err)

	deps := Deps{
		Services:   svc,
		Uploads:    uploads,
		Logger:     logger,
		SiteURL:    "https://example.com",
		Production: true,
		Version:    version.New("v1.0.0", "abc", ""),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	r := chi.NewRouter()
	NewHandler(deps).Register(r)

	env := &testEnv{
		t:       t,
		router:  r,
		svc:     svc,
		uploads: uploads,
		tokens:  make(map[model.Role]string),
		users:   make(map[model.Role]model.User),
	}

	ctx := context.Background()
	admin, found, err := st.Users().FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.True(t, found)
	env.addUser(tokens, admin)

	for _, role := range []model.Role{model.RoleEditor, model.RoleViewer} {
		u, err := svc.Users.Create(ctx, model.User{
			Username: string(role) + "-user",
			Email:    string(role) + "@example.com",
			Password: "secret-" + string(role),
			Role:     role,
			IsActive: true,
		})
		require.NoError(t, err)
		env.addUser(tokens, u)
	}
	return env
}

func (e *testEnv) addUser(tokens *auth.TokenManager, u model.User) {
	token, _, err := tokens.Issue(u.ID)
	require.NoError(e.t, err)
	e.tokens[u.Role] = token
	e.users[u.Role] = u
}

// do sends a request as role; an empty role sends no token. body may be
// nil, a string or any JSON-encodable value.
func (e *testEnv) do(method, path string, role model.Role, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[role])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode parses the envelope of w and, when data is non-nil, its payload.
func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), "data: %s", env.Data)
	}
	return env
}

func projectBody(title string, status model.Status, featured bool) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "A sample project",
		"technologies": []string{"Go", "SQLite"},
		"image":        "/uploads/sample.jpg",
		"status":       status,
		"featured":     featured,
	}
}

func postBody(title, content string, status model.Status) map[string]any {
	return map[string]any{
		"title":   title,
		"excerpt": "Short summary",
		"content": content,
		"author":  "Jane",
		"status":  status,
		"seo": map[string]any{
			"metaTitle":       title,
			"metaDescription": "Description of " + title,
		},
	}
}

func testimonialBody(name string, approved bool) map[string]any {
	return map[string]any{
		"name":     name,
		"role":     "CTO",
		"company":  "Acme",
		"content":  "Great work",
		"rating":   5,
		"approved": approved,
	}
}
