// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/model"
)

// ListPosts handles GET /api/blog.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r, "status", "featured")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, limit := parsePagination(r)
	p, err := h.svc.Blog.List(r.Context(), f, page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePage(w, p)
}

// FeaturedPosts handles GET /api/blog/featured.
func (h *Handler) FeaturedPosts(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Blog.Featured(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, items)
}

// PublishedPosts handles GET /api/blog/published.
func (h *Handler) PublishedPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	p, err := h.svc.Blog.Published(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePage(w, p)
}

// GetPublishedPost handles GET /api/blog/published/{id}.
func (h *Handler) GetPublishedPost(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Blog.GetPublished(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, v)
}

// GetPostBySlug handles GET /api/blog/slug/{slug}.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Blog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, v)
}

// PostStats handles GET /api/blog/stats.
func (h *Handler) PostStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Blog.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, s)
}

// GetPost handles GET /api/blog/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Blog.Get(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, p)
}

// PostSEO handles GET /api/blog/{id}/seo.
func (h *Handler) PostSEO(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Blog.SEO(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, rep)
}

// CreatePost handles POST /api/blog.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	in, ok := body[model.BlogPostInput](h, w, r)
	if !ok {
		return
	}
	p, err := h.svc.Blog.Create(r.Context(), in.BlogPost())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, p, "Blog post created successfully")
}

// UpdatePost handles PUT /api/blog/{id}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	patch, ok := body[model.BlogPostPatch](h, w, r)
	if !ok {
		return
	}
	p, err := h.svc.Blog.Update(r.Context(), urlID(r), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeUpdated(w, p, "Blog post updated successfully")
}

// DeletePost handles DELETE /api/blog/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Blog.Delete(r.Context(), urlID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Blog post deleted successfully")
}
