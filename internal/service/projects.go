// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/model"
)

// ProjectRepository is the storage used by ProjectService.
type ProjectRepository = repository[model.Project, model.ProjectPatch]

// ProjectService applies the business rules of portfolio projects.
type ProjectService struct {
	repo  ProjectRepository
	lists *cache.TypedCache[[]model.Project]
}

// NewProjectService creates a ProjectService. c may be nil.
func NewProjectService(repo ProjectRepository, c *Caching) *ProjectService {
	return &ProjectService{
		repo:  repo,
		lists: newTyped[[]model.Project](c, "projects"),
	}
}

// List returns one page of projects matching f.
func (s *ProjectService) List(ctx context.Context, f model.Filter, page, limit int) (Page[model.Project], error) {
	return listPage(ctx, s.repo, f, page, limit)
}

// Published returns one page of published projects.
func (s *ProjectService) Published(ctx context.Context, page, limit int) (Page[model.Project], error) {
	return listPage(ctx, s.repo, model.Filter{Status: model.Some(model.StatusPublished)}, page, limit)
}

// Featured returns the newest published featured projects.
func (s *ProjectService) Featured(ctx context.Context) ([]model.Project, error) {
	return cached(ctx, s.lists, "featured", func(ctx context.Context) ([]model.Project, error) {
		return s.repo.FindAll(ctx, model.Filter{
			Status:   model.Some(model.StatusPublished),
			Featured: model.Some(true),
			Limit:    model.Some(FeaturedLimit),
		})
	})
}

// Get returns the project with id.
func (s *ProjectService) Get(ctx context.Context, id string) (model.Project, error) {
	return findOrNotFound(ctx, s.repo, "Project", id)
}

// GetPublished returns the project with id if it is published. Drafts are
// reported as not found.
func (s *ProjectService) GetPublished(ctx context.Context, id string) (model.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return p, err
	}
	if p.Status != model.StatusPublished {
		return model.Project{}, &model.NotFoundError{Entity: "Project", ID: id}
	}
	return p, nil
}

// Create validates p and stores it. Status defaults to draft.
func (s *ProjectService) Create(ctx context.Context, p model.Project) (model.Project, error) {
	verr := &model.ValidationError{}
	requireText(verr,
		[2]string{"title", p.Title},
		[2]string{"description", p.Description},
		[2]string{"image", p.Image},
	)
	validTechnologies(verr, p.Technologies)
	validCollaborators(verr, p.Collaborators)
	validStatus(verr, p.Status, true)
	if err := verr.OrNil(); err != nil {
		return model.Project{}, err
	}

	if p.Status == "" {
		p.Status = model.StatusDraft
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return model.Project{}, err
	}
	invalidate(ctx, s.lists)
	return created, nil
}

// Update applies patch to the project with id.
func (s *ProjectService) Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	verr := &model.ValidationError{}
	notBlank(verr, "title", patch.Title)
	notBlank(verr, "description", patch.Description)
	notBlank(verr, "image", patch.Image)
	if v, ok := patch.Technologies.Get(); ok {
		validTechnologies(verr, v)
	}
	if v, ok := patch.Collaborators.Get(); ok {
		validCollaborators(verr, v)
	}
	if v, ok := patch.Status.Get(); ok {
		validStatus(verr, v, false)
	}
	if err := verr.OrNil(); err != nil {
		return model.Project{}, err
	}

	p, err := updateOrNotFound(ctx, s.repo, "Project", id, patch)
	if err != nil {
		return p, err
	}
	invalidate(ctx, s.lists)
	return p, nil
}

// Delete removes the project with id.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := deleteOrNotFound(ctx, s.repo, "Project", id); err != nil {
		return err
	}
	invalidate(ctx, s.lists)
	return nil
}

// Stats returns the project counts.
func (s *ProjectService) Stats(ctx context.Context) (model.Stats, error) {
	return contentStats(ctx, s.repo)
}

func validTechnologies(verr *model.ValidationError, techs []string) {
	if len(techs) == 0 {
		verr.Add("technologies", "must contain at least one item")
	}
	for i, t := range techs {
		if blank(t) {
			verr.Add(fmt.Sprintf("technologies[%d]", i), "must not be empty")
		}
	}
}

func validCollaborators(verr *model.ValidationError, cs []model.Collaborator) {
	for i, c := range cs {
		requireText(verr,
			[2]string{fmt.Sprintf("collaborators[%d].name", i), c.Name},
			[2]string{fmt.Sprintf("collaborators[%d].role", i), c.Role},
		)
	}
}
