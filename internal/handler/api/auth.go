// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/util"
)

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	in, ok := body[model.LoginInput](h, w, r)
	if !ok {
		return
	}

	if h.login != nil {
		if locked, _ := h.login.IsAccountLocked(in.Username); locked {
			middleware.WriteAPIError(w, http.StatusTooManyRequests, middleware.MessageAccountLocked)
			return
		}
	}

	res, err := h.svc.Auth.Login(r.Context(), in.Username, in.Password, service.Client{
		IP:        util.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if h.login != nil && isAuthenticationError(err) {
			h.login.RecordFailedAttempt(in.Username)
		}
		h.writeError(w, r, err)
		return
	}

	if h.login != nil {
		h.login.RecordSuccessfulLogin(in.Username)
	}
	writeUpdated(w, res, "Login successful")
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		middleware.WriteAPIError(w, http.StatusUnauthorized, middleware.MessageTokenRequired)
		return
	}
	writeSuccess(w, user)
}

// ChangePassword handles PUT /api/auth/password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	in, ok := body[model.PasswordChangeInput](h, w, r)
	if !ok {
		return
	}
	if err := h.svc.Auth.ChangePassword(r.Context(), middleware.GetUserID(r), in.CurrentPassword, in.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Password changed successfully")
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so the client
// discards its copy.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, "Logged out successfully")
}
