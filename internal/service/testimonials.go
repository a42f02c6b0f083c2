// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/model"
)

// Rating bounds of a testimonial.
const (
	MinRating = 1
	MaxRating = 5
)

// TestimonialRepository is the storage used by TestimonialService.
type TestimonialRepository = repository[model.Testimonial, model.TestimonialPatch]

// TestimonialService applies the business rules of testimonials.
type TestimonialService struct {
	repo  TestimonialRepository
	lists *cache.TypedCache[[]model.Testimonial]
}

// NewTestimonialService creates a TestimonialService. c may be nil.
func NewTestimonialService(repo TestimonialRepository, c *Caching) *TestimonialService {
	return &TestimonialService{
		repo:  repo,
		lists: newTyped[[]model.Testimonial](c, "testimonials"),
	}
}

// List returns one page of testimonials matching f.
func (s *TestimonialService) List(ctx context.Context, f model.Filter, page, limit int) (Page[model.Testimonial], error) {
	return listPage(ctx, s.repo, f, page, limit)
}

// Approved returns one page of approved testimonials.
func (s *TestimonialService) Approved(ctx context.Context, page, limit int) (Page[model.Testimonial], error) {
	return listPage(ctx, s.repo, model.Filter{Approved: model.Some(true)}, page, limit)
}

// Featured returns the newest approved featured testimonials.
func (s *TestimonialService) Featured(ctx context.Context) ([]model.Testimonial, error) {
	return cached(ctx, s.lists, "featured", func(ctx context.Context) ([]model.Testimonial, error) {
		return s.repo.FindAll(ctx, model.Filter{
			Approved: model.Some(true),
			Featured: model.Some(true),
			Limit:    model.Some(FeaturedLimit),
		})
	})
}

// Get returns the testimonial with id.
func (s *TestimonialService) Get(ctx context.Context, id string) (model.Testimonial, error) {
	return findOrNotFound(ctx, s.repo, "Testimonial", id)
}

func validRating(verr *model.ValidationError, rating int) {
	if rating < MinRating || rating > MaxRating {
		verr.Add("rating", "must be between 1 and 5")
	}
}

// Create validates t and stores it.
func (s *TestimonialService) Create(ctx context.Context, t model.Testimonial) (model.Testimonial, error) {
	verr := &model.ValidationError{}
	requireText(verr,
		[2]string{"name", t.Name},
		[2]string{"role", t.Role},
		[2]string{"company", t.Company},
		[2]string{"content", t.Content},
	)
	validRating(verr, t.Rating)
	if err := verr.OrNil(); err != nil {
		return model.Testimonial{}, err
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return model.Testimonial{}, err
	}
	invalidate(ctx, s.lists)
	return created, nil
}

// Update applies patch to the testimonial with id.
func (s *TestimonialService) Update(ctx context.Context, id string, patch model.TestimonialPatch) (model.Testimonial, error) {
	verr := &model.ValidationError{}
	notBlank(verr, "name", patch.Name)
	notBlank(verr, "role", patch.Role)
	notBlank(verr, "company", patch.Company)
	notBlank(verr, "content", patch.Content)
	if v, ok := patch.Rating.Get(); ok {
		validRating(verr, v)
	}
	if err := verr.OrNil(); err != nil {
		return model.Testimonial{}, err
	}

	t, err := updateOrNotFound(ctx, s.repo, "Testimonial", id, patch)
	if err != nil {
		return t, err
	}
	invalidate(ctx, s.lists)
	return t, nil
}

// Approve marks the testimonial with id as approved.
func (s *TestimonialService) Approve(ctx context.Context, id string) (model.Testimonial, error) {
	return s.Update(ctx, id, model.TestimonialPatch{Approved: model.Some(true)})
}

// Delete removes the testimonial with id.
func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	if err := deleteOrNotFound(ctx, s.repo, "Testimonial", id); err != nil {
		return err
	}
	invalidate(ctx, s.lists)
	return nil
}

// Stats returns the testimonial counts.
func (s *TestimonialService) Stats(ctx context.Context) (model.TestimonialStats, error) {
	var (
		st  model.TestimonialStats
		err error
	)
	if st.Total, err = s.repo.Count(ctx, model.Filter{}); err != nil {
		return model.TestimonialStats{}, err
	}
	if st.Approved, err = s.repo.Count(ctx, model.Filter{Approved: model.Some(true)}); err != nil {
		return model.TestimonialStats{}, err
	}
	if st.Pending, err = s.repo.Count(ctx, model.Filter{Approved: model.Some(false)}); err != nil {
		return model.TestimonialStats{}, err
	}
	if st.Featured, err = s.repo.Count(ctx, model.Filter{Featured: model.Some(true)}); err != nil {
		return model.TestimonialStats{}, err
	}
	return st, nil
}
