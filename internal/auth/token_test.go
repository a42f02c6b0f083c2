// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/model"
)

const testSecret = "Test-Secret-For-Tokens-0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, exp, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Issue("user-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager(testSecret, time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-another-secret-0000", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "folio",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, time.Hour).Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	for _, s := range []string{"", "abc", "a.b.c"} {
		_, err := m.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", s)
	}
}

func TestDeleteDecision(t *testing.T) {
	admin := model.User{ID: "a1", Role: model.RoleAdmin, IsActive: true}
	otherAdmin := model.User{ID: "a2", Role: model.RoleAdmin, IsActive: true}
	editor := model.User{ID: "e1", Role: model.RoleEditor, IsActive: true}
	inactiveAdmin := model.User{ID: "a3", Role: model.RoleAdmin, IsActive: false}

	tests := []struct {
		name         string
		actor        model.User
		target       model.User
		activeAdmins int
		want         bool
		reason       string
	}{
		{"admin deletes editor", admin, editor, 1, true, ""},
		{"admin deletes other admin", admin, otherAdmin, 2, true, ""},
		{"admin deletes self", admin, admin, 2, false, DenySelf},
		{"editor deletes editor", editor, model.User{ID: "e2", Role: model.RoleEditor}, 1, false, DenyNotAdmin},
		{"last admin protected", admin, otherAdmin, 1, false, DenyLastAdmin},
		{"inactive admin target", admin, inactiveAdmin, 1, true, ""},
		{"inactive actor", inactiveAdmin, editor, 1, false, DenyNotAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := DeleteDecision(tt.actor, tt.target, tt.activeAdmins)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.reason, reason)
			assert.Equal(t, tt.want, CanDelete(tt.actor, tt.target, tt.activeAdmins))
		})
	}
}

func TestUpdateDecision(t *testing.T) {
	admin := model.User{ID: "a1", Role: model.RoleAdmin, IsActive: true}
	editor := model.User{ID: "e1", Role: model.RoleEditor, IsActive: true}

	tests := []struct {
		name         string
		target       model.User
		patch        model.UserPatch
		activeAdmins int
		want         bool
		reason       string
	}{
		{"demote last admin", admin, model.UserPatch{Role: model.Some(model.RoleViewer)}, 1, false, DenyDemoteLastAdmin},
		{"deactivate last admin", admin, model.UserPatch{IsActive: model.Some(false)}, 1, false, DenyDeactivateLastAdmin},
		{"last admin keeps role", admin, model.UserPatch{Role: model.Some(model.RoleAdmin), IsActive: model.Some(true)}, 1, true, ""},
		{"last admin renamed", admin, model.UserPatch{Username: model.Some("root")}, 1, true, ""},
		{"demote one of two admins", admin, model.UserPatch{Role: model.Some(model.RoleEditor)}, 2, true, ""},
		{"deactivate editor", editor, model.UserPatch{IsActive: model.Some(false)}, 1, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := UpdateDecision(tt.target, tt.patch, tt.activeAdmins)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}
