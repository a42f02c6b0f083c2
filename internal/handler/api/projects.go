// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/folio/internal/model"
)

// ListProjects handles GET /api/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r, "status", "featured")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, limit := parsePagination(r)
	p, err := h.svc.Projects.List(r.Context(), f, page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePage(w, p)
}

// FeaturedProjects handles GET /api/projects/featured.
func (h *Handler) FeaturedProjects(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Projects.Featured(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, items)
}

// PublishedProjects handles GET /api/projects/published.
func (h *Handler) PublishedProjects(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	p, err := h.svc.Projects.Published(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePage(w, p)
}

// GetPublishedProject handles GET /api/projects/published/{id}.
func (h *Handler) GetPublishedProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Projects.GetPublished(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, p)
}

// ProjectStats handles GET /api/projects/stats.
func (h *Handler) ProjectStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Projects.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, s)
}

// GetProject handles GET /api/projects/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Projects.Get(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, p)
}

// CreateProject handles POST /api/projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	in, ok := body[model.ProjectInput](h, w, r)
	if !ok {
		return
	}
	p, err := h.svc.Projects.Create(r.Context(), in.Project())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, p, "Project created successfully")
}

// UpdateProject handles PUT /api/projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	patch, ok := body[model.ProjectPatch](h, w, r)
	if !ok {
		return
	}
	p, err := h.svc.Projects.Update(r.Context(), urlID(r), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeUpdated(w, p, "Project updated successfully")
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Projects.Delete(r.Context(), urlID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Project deleted successfully")
}
