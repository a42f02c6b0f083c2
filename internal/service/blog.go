// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"time"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/seo"
	"github.com/olegiv/folio/internal/util"
)

// WordsPerMinute is the reading speed used for read time estimates.
const WordsPerMinute = 200

// fallbackSlug is used when a title has no characters a slug can keep.
const fallbackSlug = "post"

// BlogRepository is the storage used by BlogService.
type BlogRepository interface {
	repository[model.BlogPost, model.BlogPostPatch]
	FindBySlug(ctx context.Context, slug string) (model.BlogPost, bool, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

// PostView is a blog post with its rendered body.
type PostView struct {
	model.BlogPost
	ContentHTML string `json:"contentHtml"`
}

// SEOReport is the SEO analysis of one post.
type SEOReport struct {
	PostID string `json:"postId"`
	seo.Report
}

// BlogService applies the business rules of blog posts.
type BlogService struct {
	repo  BlogRepository
	lists *cache.TypedCache[[]model.BlogPost]
	now   func() time.Time
}

// NewBlogService creates a BlogService. c may be nil.
func NewBlogService(repo BlogRepository, c *Caching) *BlogService {
	return &BlogService{
		repo:  repo,
		lists: newTyped[[]model.BlogPost](c, "blog"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ReadTime estimates the minutes needed to read content, at least one.
func ReadTime(content string) int {
	words := seo.WordCount(content)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return max(minutes, 1)
}

// List returns one page of posts matching f.
func (s *BlogService) List(ctx context.Context, f model.Filter, page, limit int) (Page[model.BlogPost], error) {
	return listPage[model.BlogPost, model.BlogPostPatch](ctx, s.repo, f, page, limit)
}

// Published returns one page of published posts, most recently published
// first.
func (s *BlogService) Published(ctx context.Context, page, limit int) (Page[model.BlogPost], error) {
	f := model.Filter{Status: model.Some(model.StatusPublished)}
	return listPage[model.BlogPost, model.BlogPostPatch](ctx, s.repo, f, page, limit)
}

// Featured returns the newest published featured posts.
func (s *BlogService) Featured(ctx context.Context) ([]model.BlogPost, error) {
	return cached(ctx, s.lists, "featured", func(ctx context.Context) ([]model.BlogPost, error) {
		return s.repo.FindAll(ctx, model.Filter{
			Status:   model.Some(model.StatusPublished),
			Featured: model.Some(true),
			Limit:    model.Some(FeaturedLimit),
		})
	})
}

// Get returns the post with id.
func (s *BlogService) Get(ctx context.Context, id string) (model.BlogPost, error) {
	return findOrNotFound[model.BlogPost, model.BlogPostPatch](ctx, s.repo, "Blog post", id)
}

// GetPublished returns the published post with id and its HTML body.
func (s *BlogService) GetPublished(ctx context.Context, id string) (PostView, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return PostView{}, err
	}
	return s.publicView(p, id)
}

// GetBySlug returns the published post with slug and its HTML body.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (PostView, error) {
	p, found, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return PostView{}, err
	}
	if !found {
		return PostView{}, &model.NotFoundError{Entity: "Blog post", ID: slug}
	}
	return s.publicView(p, slug)
}

func (s *BlogService) publicView(p model.BlogPost, key string) (PostView, error) {
	if p.Status != model.StatusPublished {
		return PostView{}, &model.NotFoundError{Entity: "Blog post", ID: key}
	}
	html, err := RenderMarkdown(p.Content)
	if err != nil {
		return PostView{}, err
	}
	return PostView{BlogPost: p, ContentHTML: html}, nil
}

// Create validates p, derives its slug and read time and stores it.
func (s *BlogService) Create(ctx context.Context, p model.BlogPost) (model.BlogPost, error) {
	verr := &model.ValidationError{}
	requireText(verr,
		[2]string{"title", p.Title},
		[2]string{"excerpt", p.Excerpt},
		[2]string{"content", p.Content},
		[2]string{"author", p.Author},
		[2]string{"seo.metaTitle", p.SEO.MetaTitle},
		[2]string{"seo.metaDescription", p.SEO.MetaDescription},
	)
	validStatus(verr, p.Status, true)
	if err := verr.OrNil(); err != nil {
		return model.BlogPost{}, err
	}

	source := p.Slug
	if blank(source) {
		source = p.Title
	}
	slug, err := s.uniqueSlug(ctx, source, "")
	if err != nil {
		return model.BlogPost{}, err
	}
	p.Slug = slug

	if p.ReadTime <= 0 {
		p.ReadTime = ReadTime(p.Content)
	}
	if p.Status == "" {
		p.Status = model.StatusDraft
	}
	if p.Status == model.StatusPublished && p.PublishedAt == nil {
		ts := s.now()
		p.PublishedAt = &ts
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return model.BlogPost{}, err
	}
	invalidate(ctx, s.lists)
	return created, nil
}

// Update applies patch to the post with id. Setting content recomputes the
// read time; setting a slug normalizes and de-duplicates it, and a blank
// slug is derived from the title again. Publishing a post that was never
// published stamps publishedAt.
func (s *BlogService) Update(ctx context.Context, id string, patch model.BlogPostPatch) (model.BlogPost, error) {
	verr := &model.ValidationError{}
	notBlank(verr, "title", patch.Title)
	notBlank(verr, "excerpt", patch.Excerpt)
	notBlank(verr, "content", patch.Content)
	notBlank(verr, "author", patch.Author)
	if v, ok := patch.Status.Get(); ok {
		validStatus(verr, v, false)
	}
	if v, ok := patch.SEO.Get(); ok {
		requireText(verr,
			[2]string{"seo.metaTitle", v.MetaTitle},
			[2]string{"seo.metaDescription", v.MetaDescription},
		)
	}
	if err := verr.OrNil(); err != nil {
		return model.BlogPost{}, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return model.BlogPost{}, err
	}

	if v, ok := patch.Slug.Get(); ok {
		if blank(v) {
			v = patch.Title.OrElse(current.Title)
		}
		slug, err := s.uniqueSlug(ctx, v, id)
		if err != nil {
			return model.BlogPost{}, err
		}
		patch.Slug = model.Some(slug)
	}
	if v, ok := patch.Content.Get(); ok {
		patch.ReadTime = model.Some(ReadTime(v))
	}
	if status, ok := patch.Status.Get(); ok && status == model.StatusPublished {
		explicit, set := patch.PublishedAt.Get()
		if (!set || explicit == nil) && current.PublishedAt == nil {
			ts := s.now()
			patch.PublishedAt = model.Some(&ts)
		}
	}

	p, err := updateOrNotFound[model.BlogPost, model.BlogPostPatch](ctx, s.repo, "Blog post", id, patch)
	if err != nil {
		return p, err
	}
	invalidate(ctx, s.lists)
	return p, nil
}

// Delete removes the post with id.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := deleteOrNotFound[model.BlogPost, model.BlogPostPatch](ctx, s.repo, "Blog post", id); err != nil {
		return err
	}
	invalidate(ctx, s.lists)
	return nil
}

// Stats returns the post counts.
func (s *BlogService) Stats(ctx context.Context) (model.Stats, error) {
	return contentStats[model.BlogPost, model.BlogPostPatch](ctx, s.repo)
}

// SEO scores the post with id.
func (s *BlogService) SEO(ctx context.Context, id string) (SEOReport, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return SEOReport{}, err
	}
	return SEOReport{
		PostID: p.ID,
		Report: seo.Analyze(seo.Input{
			MetaTitle:       p.SEO.MetaTitle,
			MetaDescription: p.SEO.MetaDescription,
			Keywords:        p.SEO.Keywords,
			Excerpt:         p.Excerpt,
			Image:           p.Image,
			Content:         p.Content,
		}),
	}, nil
}

func (s *BlogService) uniqueSlug(ctx context.Context, source, excludeID string) (string, error) {
	base := util.Slugify(source)
	if base == "" {
		base = fallbackSlug
	}
	return util.UniqueSlug(ctx, base, func(ctx context.Context, slug string) (bool, error) {
		return s.repo.SlugExists(ctx, slug, excludeID)
	})
}
