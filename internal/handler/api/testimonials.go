// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/folio/internal/model"
)

// ListTestimonials handles GET /api/testimonials.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r, "approved", "featured")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, limit := parsePagination(r)
	p, err := h.svc.Testimonials.List(r.Context(), f, page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePage(w, p)
}

// FeaturedTestimonials handles GET /api/testimonials/featured.
func (h *Handler) FeaturedTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Testimonials.Featured(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, items)
}

// ApprovedTestimonials handles GET /api/testimonials/approved.
func (h *Handler) ApprovedTestimonials(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	p, err := h.svc.Testimonials.Approved(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writePage(w, p)
}

// TestimonialStats handles GET /api/testimonials/stats.
func (h *Handler) TestimonialStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Testimonials.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, s)
}

// GetTestimonial handles GET /api/testimonials/{id}.
func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Testimonials.Get(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w, t)
}

// CreateTestimonial handles POST /api/testimonials.
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	in, ok := body[model.TestimonialInput](h, w, r)
	if !ok {
		return
	}
	t, err := h.svc.Testimonials.Create(r.Context(), in.Testimonial())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeCreated(w, t, "Testimonial created successfully")
}

// UpdateTestimonial handles PUT /api/testimonials/{id}.
func (h *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	patch, ok := body[model.TestimonialPatch](h, w, r)
	if !ok {
		return
	}
	t, err := h.svc.Testimonials.Update(r.Context(), urlID(r), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeUpdated(w, t, "Testimonial updated successfully")
}

// ApproveTestimonial handles PATCH /api/testimonials/{id}/approve.
func (h *Handler) ApproveTestimonial(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Testimonials.Approve(r.Context(), urlID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeUpdated(w, t, "Testimonial approved successfully")
}

// DeleteTestimonial handles DELETE /api/testimonials/{id}.
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Testimonials.Delete(r.Context(), urlID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Testimonial deleted successfully")
}
