// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser ContextKey = "user"
)

// Authentication and authorization failure messages.
const (
	MessageTokenRequired   = "Access token required"
	MessageInvalidToken    = "Invalid or expired token"
	MessageInactiveUser    = "Invalid or inactive user"
	MessageAdminRequired   = "Admin access required"
	MessageEditorRequired  = "Editor or admin access required"
	messageInternalFailure = "Internal server error"
)

// Authenticator resolves an access token to the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.User, error)
}

// Authenticate creates middleware that requires a valid bearer token and
// loads the token's user into the request context.
func Authenticate(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteAPIError(w, http.StatusUnauthorized, MessageTokenRequired)
				return
			}

			user, err := a.Authenticate(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrInvalidToken):
				WriteAPIError(w, http.StatusForbidden, MessageInvalidToken)
				return
			case errors.Is(err, service.ErrInactiveUser):
				WriteAPIError(w, http.StatusUnauthorized, MessageInactiveUser)
				return
			default:
				slog.Error("failed to authenticate request", "path", r.URL.Path, "error", err)
				WriteAPIError(w, http.StatusInternalServerError, messageInternalFailure)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header. It returns "" when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or "" if not found.
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}

// WithUser returns a copy of ctx carrying user. It is used by tests and by
// handlers mounted without Authenticate.
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// RequireRole creates middleware that requires a minimum user role.
// Roles are hierarchical: admin > editor > viewer. It must run after
// Authenticate.
func RequireRole(minRole model.Role, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				WriteAPIError(w, http.StatusUnauthorized, MessageTokenRequired)
				return
			}

			if !user.HasRole(minRole) {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", minRole,
					"remote_addr", r.RemoteAddr,
				)
				WriteAPIError(w, http.StatusForbidden, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that only lets admins through.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin, MessageAdminRequired)
}

// RequireEditor creates middleware that lets editors and admins through.
func RequireEditor() func(http.Handler) http.Handler {
	return RequireRole(model.RoleEditor, MessageEditorRequired)
}
