// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

func seededAdmin(t *testing.T, s *store.Store) model.User {
	t.Helper()
	u, found, err := s.Users().FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.True(t, found)
	return u
}

func sampleUser(name string, role model.Role) model.User {
	return model.User{
		Username: name,
		Email:    name + "@example.com",
		Password: "secret123",
		Role:     role,
		IsActive: true,
	}
}

func TestUserService_Create(t *testing.T) {
	svc := NewUserService(testStore(t).Users())
	ctx := context.Background()

	_, err := svc.Create(ctx, model.User{Username: "ab", Email: "nope", Password: "123", Role: "owner"})
	requireValidation(t, err, "username", "email", "password", "role")

	u, err := svc.Create(ctx, sampleUser("writer", model.RoleEditor))
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", u.Password)
	ok, err := auth.CheckPassword("secret123", u.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	dup := sampleUser("writer", model.RoleViewer)
	dup.Email = "other@example.com"
	_, err = svc.Create(ctx, dup)
	var conflict *model.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "username", conflict.Field)

	dup = sampleUser("someone", model.RoleViewer)
	dup.Email = "writer@example.com"
	_, err = svc.Create(ctx, dup)
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "Email already exists", conflict.Message)
}

func TestUserService_Update(t *testing.T) {
	svc := NewUserService(testStore(t).Users())
	ctx := context.Background()

	a, err := svc.Create(ctx, sampleUser("alice", model.RoleEditor))
	require.NoError(t, err)
	_, err = svc.Create(ctx, sampleUser("bobby", model.RoleViewer))
	require.NoError(t, err)

	_, err = svc.Update(ctx, a.ID, model.UserPatch{Username: model.Some("bobby")})
	var conflict *model.ConflictError
	require.True(t, errors.As(err, &conflict))

	// Re-submitting one's own values is not a conflict.
	_, err = svc.Update(ctx, a.ID, model.UserPatch{Username: model.Some("alice"), Email: model.Some("alice@example.com")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, model.UserPatch{Password: model.Some("new-password"), Role: model.Some(model.RoleViewer)})
	require.NoError(t, err)
	assert.Equal(t, model.RoleViewer, updated.Role)
	ok, err := auth.CheckPassword("new-password", updated.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Update(ctx, "missing", model.UserPatch{Role: model.Some(model.RoleViewer)})
	requireNotFound(t, err)
}

func TestUserService_Delete(t *testing.T) {
	s := testStore(t)
	svc := NewUserService(s.Users())
	ctx := context.Background()
	admin := seededAdmin(t, s)

	editor, err := svc.Create(ctx, sampleUser("editor1", model.RoleEditor))
	require.NoError(t, err)

	var authz *model.AuthorizationError
	err = svc.Delete(ctx, editor, admin.ID)
	require.True(t, errors.As(err, &authz))
	assert.Equal(t, auth.DenyNotAdmin, authz.Message)

	err = svc.Delete(ctx, admin, admin.ID)
	require.True(t, errors.As(err, &authz))
	assert.Equal(t, auth.DenySelf, authz.Message)

	requireNotFound(t, svc.Delete(ctx, admin, "missing"))

	require.NoError(t, svc.Delete(ctx, admin, editor.ID))
	_, err = svc.Get(ctx, editor.ID)
	requireNotFound(t, err)
}

func TestUserService_DeleteLastAdmin(t *testing.T) {
	s := testStore(t)
	svc := NewUserService(s.Users())
	ctx := context.Background()
	admin := seededAdmin(t, s)

	// The acting admin has been deactivated meanwhile, so the target is the
	// only active admin left.
	other, err := svc.Create(ctx, sampleUser("second", model.RoleAdmin))
	require.NoError(t, err)
	_, err = svc.Update(ctx, admin.ID, model.UserPatch{IsActive: model.Some(false)})
	require.NoError(t, err)

	actor := other
	actor.ID = "someone-else"
	err = svc.Delete(ctx, actor, other.ID)
	var authz *model.AuthorizationError
	require.True(t, errors.As(err, &authz))
	assert.Equal(t, auth.DenyLastAdmin, authz.Message)
}

func TestUserService_UpdateLastAdmin(t *testing.T) {
	s := testStore(t)
	svc := NewUserService(s.Users())
	ctx := context.Background()
	admin := seededAdmin(t, s)

	var authz *model.AuthorizationError
	_, err := svc.Update(ctx, admin.ID, model.UserPatch{Role: model.Some(model.RoleViewer)})
	require.True(t, errors.As(err, &authz))
	assert.Equal(t, auth.DenyDemoteLastAdmin, authz.Message)

	_, err = svc.Update(ctx, admin.ID, model.UserPatch{IsActive: model.Some(false)})
	require.True(t, errors.As(err, &authz))
	assert.Equal(t, auth.DenyDeactivateLastAdmin, authz.Message)

	n, err := s.Users().CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// With a second admin the first one may step down.
	_, err = svc.Create(ctx, sampleUser("second", model.RoleAdmin))
	require.NoError(t, err)
	updated, err := svc.Update(ctx, admin.ID, model.UserPatch{Role: model.Some(model.RoleEditor)})
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, updated.Role)
}

func newTestAuthService(t *testing.T) (*AuthService, *store.Store) {
	t.Helper()
	s := testStore(t)
	tokens := auth.NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	return NewAuthService(s.Users(), tokens, testLogger()), s
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	client := Client{IP: "127.0.0.1", UserAgent: "Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0"}

	res, err := svc.Login(ctx, "admin", "admin-password", client)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	require.NotNil(t, res.User.LastLogin)
	assert.Equal(t, model.RoleAdmin, res.User.Role)

	u, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)
	require.NotNil(t, u.LastLogin, "last login is persisted")

	for _, tc := range []struct{ username, password string }{
		{"admin", "wrong"},
		{"Admin", "admin-password"},
		{"nobody", "admin-password"},
	} {
		_, err := svc.Login(ctx, tc.username, tc.password, client)
		var authn *model.AuthenticationError
		require.True(t, errors.As(err, &authn), "%s/%s", tc.username, tc.password)
		assert.Equal(t, "Invalid credentials", authn.Message)
	}
}

func TestAuthService_InactiveUser(t *testing.T) {
	svc, s := newTestAuthService(t)
	ctx := context.Background()
	admin := seededAdmin(t, s)

	res, err := svc.Login(ctx, "admin", "admin-password", Client{})
	require.NoError(t, err)

	_, _, err = s.Users().Update(ctx, admin.ID, model.UserPatch{IsActive: model.Some(false)})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInactiveUser)

	_, err = svc.Login(ctx, "admin", "admin-password", Client{})
	var authn *model.AuthenticationError
	assert.True(t, errors.As(err, &authn))

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, s := newTestAuthService(t)
	ctx := context.Background()
	admin := seededAdmin(t, s)

	err := svc.ChangePassword(ctx, admin.ID, "wrong", "brand-new-password")
	var authn *model.AuthenticationError
	require.True(t, errors.As(err, &authn))

	requireValidation(t, svc.ChangePassword(ctx, admin.ID, "admin-password", "123"), "newPassword")

	require.NoError(t, svc.ChangePassword(ctx, admin.ID, "admin-password", "brand-new-password"))
	_, err = svc.Login(ctx, "admin", "brand-new-password", Client{})
	require.NoError(t, err)
}
