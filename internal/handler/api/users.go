// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
)

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r, "role", "isActive")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, limit := parsePagination(r)
	p, err := h.svc.Users.List(r.Context(), f, page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePage(w, p)
}

// GetUser handles GET /api/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.Get(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, u)
}

// CreateUser handles POST /api/users. New accounts are active unless the
// body says otherwise.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	in, ok := body[model.UserInput](h, w, r)
	if !ok {
		return
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	u, err := h.svc.Users.Create(r.Context(), model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
		IsActive: active,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, u, "User created successfully")
}

// UpdateUser handles PUT /api/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	patch, ok := body[model.UserPatch](h, w, r)
	if !ok {
		return
	}
	u, err := h.svc.Users.Update(r.Context(), urlID(r), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeUpdated(w, u, "User updated successfully")
}

// DeleteUser handles DELETE /api/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)
	if actor == nil {
		middleware.WriteAPIError(w, http.StatusUnauthorized, middleware.MessageTokenRequired)
		return
	}
	if err := h.svc.Users.Delete(r.Context(), *actor, urlID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "User deleted successfully")
}
