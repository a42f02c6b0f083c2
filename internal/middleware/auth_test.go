// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
)

// fakeAuthenticator maps tokens to users or errors.
type fakeAuthenticator map[string]any

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (model.User, error) {
	switch v := f[token].(type) {
	case model.User:
		return v, nil
	case error:
		return model.User{}, v
	default:
		return model.User{}, service.ErrInvalidToken
	}
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not a JSON envelope: %v (%s)", err, rr.Body.String())
	}
	return resp
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(GetUserID(r)))
	})
}

func TestAuthenticate(t *testing.T) {
	authn := fakeAuthenticator{
		"good":     model.User{ID: "u1", Role: model.RoleEditor, IsActive: true},
		"inactive": service.ErrInactiveUser,
		"broken":   errors.New("database is locked"),
	}
	h := Authenticate(authn)(okHandler())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"missing header", "", http.StatusUnauthorized, MessageTokenRequired},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, MessageTokenRequired},
		{"empty token", "Bearer ", http.StatusUnauthorized, MessageTokenRequired},
		{"invalid token", "Bearer nope", http.StatusForbidden, MessageInvalidToken},
		{"inactive user", "Bearer inactive", http.StatusUnauthorized, MessageInactiveUser},
		{"lookup failure", "Bearer broken", http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			resp := decodeResponse(t, rr)
			if resp.Success || resp.Error != tt.wantError {
				t.Errorf("envelope = %+v, want error %q", resp, tt.wantError)
			}
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set("Authorization", "bearer good")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK || rr.Body.String() != "u1" {
			t.Errorf("got %d %q, want 200 u1", rr.Code, rr.Body.String())
		}
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		mw         func(http.Handler) http.Handler
		user       *model.User
		wantStatus int
		wantError  string
	}{
		{"admin passes admin check", RequireAdmin(), &model.User{Role: model.RoleAdmin}, http.StatusOK, ""},
		{"editor fails admin check", RequireAdmin(), &model.User{Role: model.RoleEditor}, http.StatusForbidden, MessageAdminRequired},
		{"admin passes editor check", RequireEditor(), &model.User{Role: model.RoleAdmin}, http.StatusOK, ""},
		{"editor passes editor check", RequireEditor(), &model.User{Role: model.RoleEditor}, http.StatusOK, ""},
		{"viewer fails editor check", RequireEditor(), &model.User{Role: model.RoleViewer}, http.StatusForbidden, MessageEditorRequired},
		{"no user", RequireEditor(), nil, http.StatusUnauthorized, MessageTokenRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/projects", nil)
			if tt.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tt.user))
			}
			rr := httptest.NewRecorder()
			tt.mw(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantError != "" {
				if resp := decodeResponse(t, rr); resp.Error != tt.wantError {
					t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
				}
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(req) != nil {
		t.Error("GetUser should return nil without a user in context")
	}
	if GetUserID(req) != "" {
		t.Error("GetUserID should return empty string without a user")
	}

	req = req.WithContext(WithUser(req.Context(), model.User{ID: "abc", Username: "alice"}))
	if u := GetUser(req); u == nil || u.Username != "alice" {
		t.Errorf("GetUser = %+v", u)
	}
}
