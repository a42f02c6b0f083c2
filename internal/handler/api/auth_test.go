// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
)

func TestRouteGating(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method, path string
		minRole      model.Role
	}{
		{http.MethodGet, "/api/projects", model.RoleViewer},
		{http.MethodGet, "/api/projects/stats", model.RoleViewer},
		{http.MethodPost, "/api/projects", model.RoleEditor},
		{http.MethodPut, "/api/projects/x", model.RoleEditor},
		{http.MethodDelete, "/api/projects/x", model.RoleEditor},
		{http.MethodGet, "/api/blog", model.RoleViewer},
		{http.MethodGet, "/api/blog/x/seo", model.RoleEditor},
		{http.MethodPost, "/api/blog", model.RoleEditor},
		{http.MethodGet, "/api/testimonials", model.RoleViewer},
		{http.MethodPatch, "/api/testimonials/x/approve", model.RoleEditor},
		{http.MethodPut, "/api/settings", model.RoleEditor},
		{http.MethodPut, "/api/settings/theme", model.RoleEditor},
		{http.MethodGet, "/api/users", model.RoleAdmin},
		{http.MethodPost, "/api/users", model.RoleAdmin},
		{http.MethodDelete, "/api/users/x", model.RoleAdmin},
		{http.MethodPost, "/api/upload/image", model.RoleEditor},
		{http.MethodDelete, "/api/upload/a.png", model.RoleEditor},
		{http.MethodGet, "/api/auth/me", model.RoleViewer},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := env.do(tt.method, tt.path, "", nil)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, middleware.MessageTokenRequired, decode(t, w, nil).Error)

			for _, role := range []model.Role{model.RoleViewer, model.RoleEditor, model.RoleAdmin} {
				w := env.do(tt.method, tt.path, role, nil)
				if role.Level() < tt.minRole.Level() {
					assert.Equal(t, http.StatusForbidden, w.Code, "role %s", role)
				} else {
					assert.NotContains(t, []int{http.StatusUnauthorized, http.StatusForbidden}, w.Code, "role %s", role)
				}
			}
		})
	}
}

func TestRouteGating_InvalidToken(t *testing.T) {
	env := newTestEnv(t)
	env.tokens["forged"] = "not-a-jwt"

	w := env.do(http.MethodGet, "/api/projects", "forged", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.MessageInvalidToken, decode(t, w, nil).Error)
}

func TestRouteGating_DeactivatedUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Users.Update(t.Context(), env.users[model.RoleViewer].ID, model.UserPatch{IsActive: model.Some(false)})
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/projects", model.RoleViewer, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, middleware.MessageInactiveUser, decode(t, w, nil).Error)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "admin-password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res service.LoginResult
	resp := decode(t, w, &res)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin", res.User.Username)
	assert.NotNil(t, res.User.LastLogin)
	assert.NotContains(t, w.Body.String(), "argon2id", "password hash leaked")

	// The issued token works.
	env.tokens["fresh"] = res.Token
	w = env.do(http.MethodGet, "/api/auth/me", "fresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.User
	decode(t, w, &me)
	assert.Equal(t, res.User.ID, me.ID)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
		code int
		want string
	}{
		{"wrong password", map[string]string{"username": "admin", "password": "nope"}, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown user", map[string]string{"username": "ghost", "password": "nope"}, http.StatusUnauthorized, "Invalid credentials"},
		{"case sensitive", map[string]string{"username": "ADMIN", "password": "admin-password"}, http.StatusUnauthorized, "Invalid credentials"},
		{"missing fields", map[string]string{}, http.StatusBadRequest, "Validation failed"},
		{"malformed", `{"username":`, http.StatusBadRequest, "Invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/auth/login", "", tt.body)
			assert.Equal(t, tt.code, w.Code)
			resp := decode(t, w, nil)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Users.Update(t.Context(), env.users[model.RoleEditor].ID, model.UserPatch{IsActive: model.Some(false)})
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "editor-user", "password": "secret-editor"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w, nil).Error)
}

func TestLogin_AccountLockout(t *testing.T) {
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: 2,
	})
	env := newTestEnv(t, withLoginProtection(lp))

	bad := map[string]string{"username": "admin", "password": "wrong"}
	for range 2 {
		w := env.do(http.MethodPost, "/api/auth/login", "", bad)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// Even the right password is refused while locked.
	w := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "admin-password"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, middleware.MessageAccountLocked, decode(t, w, nil).Error)

	// Other accounts are unaffected.
	w = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "viewer-user", "password": "secret-viewer"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_IPRateLimit(t *testing.T) {
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit: 0.001,
		IPBurst:     1,
	})
	env := newTestEnv(t, withLoginProtection(lp))

	body := map[string]string{"username": "admin", "password": "admin-password"}
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/auth/login", "", body).Code)

	w := env.do(http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, middleware.MessageLoginRateLimited, decode(t, w, nil).Error)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPut, "/api/auth/password", model.RoleEditor, map[string]string{
		"currentPassword": "wrong",
		"newPassword":     "brand-new-secret",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPut, "/api/auth/password", model.RoleEditor, map[string]string{
		"currentPassword": "secret-editor",
		"newPassword":     "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPut, "/api/auth/password", model.RoleEditor, map[string]string{
		"currentPassword": "secret-editor",
		"newPassword":     "brand-new-secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "editor-user", "password": "brand-new-secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/logout", model.RoleViewer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w, nil).Success)
}
