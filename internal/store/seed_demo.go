// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/util"
)

// Demo mode credentials
const (
	DemoEditorUsername = "editor"
	DemoEditorEmail    = "editor@example.com"
	DemoEditorPassword = "demo1234demo"
)

// seedDemo fills empty content tables with sample data for showcasing the
// API. Tables that already hold rows are left alone.
func seedDemo(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	logger.Info("seeding demo content")

	if err := seedDemoEditor(ctx, db, logger); err != nil {
		return fmt.Errorf("seeding demo editor: %w", err)
	}
	if err := seedDemoProjects(ctx, db, logger); err != nil {
		return fmt.Errorf("seeding demo projects: %w", err)
	}
	if err := seedDemoPosts(ctx, db, logger); err != nil {
		return fmt.Errorf("seeding demo posts: %w", err)
	}
	if err := seedDemoTestimonials(ctx, db, logger); err != nil {
		return fmt.Errorf("seeding demo testimonials: %w", err)
	}

	logger.Info("demo content seeded successfully")
	return nil
}

// tableEmpty reports whether table has no rows.
func tableEmpty(ctx context.Context, db *sql.DB, table string) (bool, error) {
	n, err := countRows(ctx, db, table, whereClause{})
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func seedDemoEditor(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	var id string
	err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", DemoEditorUsername).Scan(&id)
	if err == nil {
		logger.Info("demo editor already exists, skipping")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(DemoEditorPassword)
	if err != nil {
		return fmt.Errorf("hashing editor password: %w", err)
	}
	if _, err := insertUser(ctx, db, model.User{
		Username: DemoEditorUsername,
		Email:    DemoEditorEmail,
		Password: hash,
		Role:     model.RoleEditor,
		IsActive: true,
	}); err != nil {
		return err
	}

	logger.Info("created demo editor", "username", DemoEditorUsername)
	return nil
}

func getDemoProjects() []model.Project {
	return []model.Project{
		{
			Title:           "Realtime Dashboard",
			Description:     "Operations dashboard streaming metrics over WebSockets.",
			LongDescription: "A dashboard for on-call engineers that aggregates service health, deploys and alerts in one view.",
			Technologies:    []string{"Go", "SQLite", "TypeScript"},
			Image:           "/uploads/demo-dashboard.jpg",
			GithubURL:       "https://github.com/example/dashboard",
			Status:          model.StatusPublished,
			Featured:        true,
			Metrics:         model.Metrics{Views: 1280, Likes: 96, Shares: 14},
		},
		{
			Title:        "Recipe Planner",
			Description:  "Weekly meal planner with shopping list export.",
			Technologies: []string{"Go", "Vue"},
			Image:        "/uploads/demo-recipes.jpg",
			LiveURL:      "https://recipes.example.com",
			Status:       model.StatusPublished,
			Collaborators: []model.Collaborator{
				{Name: "Ana Lopez", Role: "Designer"},
			},
		},
		{
			Title:        "Home Lab Automation",
			Description:  "Scripts and services running a small home lab.",
			Technologies: []string{"Go", "Ansible"},
			Image:        "/uploads/demo-homelab.jpg",
			Status:       model.StatusDraft,
		},
	}
}

func seedDemoProjects(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	empty, err := tableEmpty(ctx, db, tableProjects)
	if err != nil || !empty {
		return err
	}

	projects := getDemoProjects()
	for _, p := range projects {
		id, err := newID()
		if err != nil {
			return err
		}
		ts := now()
		var enc jsonArgs
		args := []any{
			id, p.Title, p.Description, util.NullString(p.LongDescription), enc.add(p.Technologies), p.Image,
			enc.add(p.Gallery), util.NullString(p.GithubURL), util.NullString(p.LiveURL), string(p.Status), p.Featured,
			ts, ts, enc.add(p.Collaborators), enc.add(p.Metrics),
		}
		if enc.err != nil {
			return enc.err
		}
		if _, err := db.ExecContext(ctx, insertProject, args...); err != nil {
			return fmt.Errorf("creating project %q: %w", p.Title, err)
		}
	}

	logger.Info("seeded demo projects", "count", len(projects))
	return nil
}

func getDemoPosts() []model.BlogPost {
	published := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	return []model.BlogPost{
		{
			Title:       "Shipping a Single Binary",
			Slug:        "shipping-a-single-binary",
			Excerpt:     "Notes on packaging a web service with an embedded database.",
			Content:     "Deploying one file makes rollbacks boring. This post walks through embedding migrations and static assets.",
			Author:      "Admin",
			PublishedAt: &published,
			Status:      model.StatusPublished,
			Featured:    true,
			Tags:        []string{"go", "deployment"},
			ReadTime:    1,
			SEO: model.SEO{
				MetaTitle:       "Shipping a Single Binary",
				MetaDescription: "Packaging a Go web service with an embedded SQLite database and migrations.",
				Keywords:        []string{"go", "sqlite"},
			},
		},
		{
			Title:    "Draft: Notes on Caching",
			Slug:     "notes-on-caching",
			Excerpt:  "Unfinished thoughts on cache invalidation.",
			Content:  "Work in progress.",
			Author:   "Admin",
			Status:   model.StatusDraft,
			Tags:     []string{"caching"},
			ReadTime: 1,
		},
	}
}

func seedDemoPosts(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	empty, err := tableEmpty(ctx, db, tableBlogPosts)
	if err != nil || !empty {
		return err
	}

	posts := getDemoPosts()
	for _, p := range posts {
		id, err := newID()
		if err != nil {
			return err
		}
		ts := now()
		var enc jsonArgs
		args := []any{
			id, p.Title, p.Slug, p.Excerpt, p.Content, p.Author, util.NullTime(p.PublishedAt), ts, ts,
			string(p.Status), p.Featured, enc.add(p.Tags), p.ReadTime, util.NullString(p.Image), enc.add(p.SEO),
		}
		if enc.err != nil {
			return enc.err
		}
		if _, err := db.ExecContext(ctx, insertBlogPost, args...); err != nil {
			return fmt.Errorf("creating post %q: %w", p.Slug, err)
		}
	}

	logger.Info("seeded demo posts", "count", len(posts))
	return nil
}

func getDemoTestimonials() []model.Testimonial {
	return []model.Testimonial{
		{Name: "Jordan Lee", Role: "CTO", Company: "Northwind", Content: "Delivered ahead of schedule and documented everything.", Rating: 5, Featured: true, Approved: true},
		{Name: "Sam Carter", Role: "Product Manager", Company: "Contoso", Content: "Clear communication throughout the project.", Rating: 4, Approved: true},
		{Name: "Riley Chen", Role: "Founder", Company: "Fabrikam", Content: "Awaiting review.", Rating: 5},
	}
}

func seedDemoTestimonials(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	empty, err := tableEmpty(ctx, db, tableTestimonials)
	if err != nil || !empty {
		return err
	}

	items := getDemoTestimonials()
	for _, t := range items {
		id, err := newID()
		if err != nil {
			return err
		}
		ts := now()
		if _, err := db.ExecContext(ctx, insertTestimonial,
			id, t.Name, t.Role, t.Company, t.Content, t.Rating, util.NullString(t.Avatar),
			t.Featured, t.Approved, ts, ts,
		); err != nil {
			return fmt.Errorf("creating testimonial from %q: %w", t.Name, err)
		}
	}

	logger.Info("seeded demo testimonials", "count", len(items))
	return nil
}
