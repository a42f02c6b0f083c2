// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/util"
)

const (
	tableBlogPosts   = "blog_posts"
	blogPostColumns  = "id, title, slug, excerpt, content, author, published_at, created_at, updated_at, status, featured, tags, read_time, image, seo"
	blogPostsOrderBy = "published_at DESC, created_at DESC, id DESC"
)

const insertBlogPost = `INSERT INTO blog_posts (
	id, title, slug, excerpt, content, author, published_at, created_at, updated_at,
	status, featured, tags, read_time, image, seo
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// BlogPosts is the gateway to the blog_posts table.
type BlogPosts struct {
	store *Store
}

func (g *BlogPosts) where(f model.Filter) whereClause {
	var w whereClause
	if v, ok := f.Status.Get(); ok {
		w.add("status = ?", string(v))
	}
	if v, ok := f.Featured.Get(); ok {
		w.add("featured = ?", v)
	}
	return w
}

// FindAll returns the posts matching f, most recently published first.
func (g *BlogPosts) FindAll(ctx context.Context, f model.Filter) ([]model.BlogPost, error) {
	db, err := g.store.DB()
	if err != nil {
		return nil, err
	}

	query, args := selectQuery(blogPostColumns, tableBlogPosts, g.where(f), blogPostsOrderBy, f)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]model.BlogPost, 0)
	for rows.Next() {
		p, err := g.scan(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing blog posts: %w", err)
	}
	return posts, nil
}

// FindByID returns the post with id.
func (g *BlogPosts) FindByID(ctx context.Context, id string) (model.BlogPost, bool, error) {
	return g.findOne(ctx, "id", id)
}

// FindBySlug returns the post with slug.
func (g *BlogPosts) FindBySlug(ctx context.Context, slug string) (model.BlogPost, bool, error) {
	return g.findOne(ctx, "slug", slug)
}

func (g *BlogPosts) findOne(ctx context.Context, column, value string) (model.BlogPost, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.BlogPost{}, false, err
	}

	row := db.QueryRowContext(ctx, "SELECT "+blogPostColumns+" FROM blog_posts WHERE "+column+" = ?", value)
	p, err := g.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BlogPost{}, false, nil
	}
	if err != nil {
		return model.BlogPost{}, false, err
	}
	return p, true, nil
}

// SlugExists reports whether another post than excludeID uses slug.
func (g *BlogPosts) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return false, err
	}

	var n int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id <> ?", slug, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return n > 0, nil
}

// Create inserts p with a fresh id and timestamps and returns the stored row.
func (g *BlogPosts) Create(ctx context.Context, p model.BlogPost) (model.BlogPost, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.BlogPost{}, err
	}

	id, err := newID()
	if err != nil {
		return model.BlogPost{}, err
	}
	ts := now()

	if p.Tags == nil {
		p.Tags = []string{}
	}
	var enc jsonArgs
	tags := enc.add(p.Tags)
	seo := enc.add(p.SEO)
	if enc.err != nil {
		return model.BlogPost{}, fmt.Errorf("encoding blog post: %w", enc.err)
	}

	_, err = db.ExecContext(ctx, insertBlogPost,
		id, p.Title, p.Slug, p.Excerpt, p.Content, p.Author, util.NullTime(p.PublishedAt), ts, ts,
		string(p.Status), p.Featured, tags, p.ReadTime, util.NullString(p.Image), seo,
	)
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("creating blog post: %w", err)
	}

	created, found, err := g.FindByID(ctx, id)
	if err != nil {
		return model.BlogPost{}, err
	}
	if !found {
		return model.BlogPost{}, fmt.Errorf("creating blog post: row %s not found after insert", id)
	}
	return created, nil
}

// Update applies patch and returns the updated post.
func (g *BlogPosts) Update(ctx context.Context, id string, patch model.BlogPostPatch) (model.BlogPost, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.BlogPost{}, false, err
	}
	if err := applyPatch(ctx, db, tableBlogPosts, id, patch, "updated_at"); err != nil {
		return model.BlogPost{}, false, err
	}
	return g.FindByID(ctx, id)
}

// Delete removes the post with id and reports whether it existed.
func (g *BlogPosts) Delete(ctx context.Context, id string) (bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return false, err
	}
	return deleteRow(ctx, db, tableBlogPosts, id)
}

// Count returns the number of posts matching f.
func (g *BlogPosts) Count(ctx context.Context, f model.Filter) (int, error) {
	db, err := g.store.DB()
	if err != nil {
		return 0, err
	}
	return countRows(ctx, db, tableBlogPosts, g.where(f))
}

func (g *BlogPosts) scan(row rowScanner) (model.BlogPost, error) {
	var (
		p                model.BlogPost
		status           string
		publishedAt      sql.NullTime
		image, tags, seo sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Author, &publishedAt, &p.CreatedAt,
		&p.UpdatedAt, &status, &p.Featured, &tags, &p.ReadTime, &image, &seo,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, &DecodeError{Table: tableBlogPosts, Err: err}
	}

	p.Status = model.Status(status)
	if !p.Status.Valid() {
		return p, &DecodeError{Table: tableBlogPosts, Column: "status", Err: fmt.Errorf("unknown status %q", status)}
	}

	log := g.store.logger
	p.PublishedAt = util.TimePtr(publishedAt)
	p.Image = image.String
	p.Tags = jsonColumn[[]string](log, tableBlogPosts, "tags", p.ID, tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.SEO = jsonColumn[model.SEO](log, tableBlogPosts, "seo", p.ID, seo)
	return p, nil
}
