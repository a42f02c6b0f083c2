// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/seo"
	"github.com/olegiv/folio/internal/service"
)

// sitemapPageSize is the batch size used when collecting sitemap entries.
const sitemapPageSize = MaxLimit

// Directory is the body of GET /api.
type Directory struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index handles GET /api.
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, Directory{
		Name:    "Portfolio CMS API",
		Version: h.version.Version,
		Endpoints: map[string]string{
			"auth":         "/api/auth",
			"projects":     "/api/projects",
			"blog":         "/api/blog",
			"testimonials": "/api/testimonials",
			"settings":     "/api/settings",
			"users":        "/api/users",
			"upload":       "/api/upload",
			"health":       "/health",
		},
	})
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	middleware.WriteAPIError(w, http.StatusNotFound, "Route "+r.URL.Path+" not found")
}

// MethodNotAllowed answers known routes requested with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.WriteAPIError(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed")
}

// Sitemap handles GET /sitemap.xml. It lists the home page, every
// published project and every published blog post.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := collect(ctx, h.svc.Projects.Published, func(p model.Project) seo.Entry {
		return seo.Entry{Path: "projects/" + p.ID, UpdatedAt: p.UpdatedAt}
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	posts, err := collect(ctx, h.svc.Blog.Published, func(p model.BlogPost) seo.Entry {
		return seo.Entry{Path: "blog/" + p.Slug, UpdatedAt: p.UpdatedAt}
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()
	b.AddProjects(projects)
	b.AddPosts(posts)
	out, err := b.Build()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

// collect pages through a published listing and converts every item.
func collect[T any](ctx context.Context, list func(context.Context, int, int) (service.Page[T], error), entry func(T) seo.Entry) ([]seo.Entry, error) {
	var entries []seo.Entry
	for page := 1; ; page++ {
		p, err := list(ctx, page, sitemapPageSize)
		if err != nil {
			return nil, err
		}
		for _, item := range p.Items {
			entries = append(entries, entry(item))
		}
		if page >= p.TotalPages() {
			return entries, nil
		}
	}
}

// Robots handles GET /robots.txt. Crawling is disallowed outside
// production.
func (h *Handler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(seo.RobotsConfig{
		SiteURL:       h.siteURL,
		DisallowAll:   !h.production,
		DisallowPaths: []string{"/uploads/"},
	})))
}
