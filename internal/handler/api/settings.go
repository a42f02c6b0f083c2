// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/model"
)

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Settings.Get(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, st)
}

// UpdateSettings handles PUT /api/settings. Each provided section replaces
// the stored one.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	in, ok := body[model.SettingsInput](h, w, r)
	if !ok {
		return
	}
	st, err := h.svc.Settings.Update(r.Context(), in.Sections())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeUpdated(w, st, "Settings updated successfully")
}

// UpdateSettingsSection handles PUT /api/settings/{section}. The body is
// merged into the section.
func (h *Handler) UpdateSettingsSection(w http.ResponseWriter, r *http.Request) {
	values, ok := body[model.Section](h, w, r)
	if !ok {
		return
	}
	if values == nil {
		verr := &model.ValidationError{}
		verr.Add("body", "must be a JSON object")
		h.writeError(w, r, verr)
		return
	}
	name := chi.URLParam(r, "section")
	st, err := h.svc.Settings.UpdateSection(r.Context(), name, values)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeUpdated(w, st, "Settings updated successfully")
}
