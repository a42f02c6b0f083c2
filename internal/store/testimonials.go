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
	tableTestimonials   = "testimonials"
	testimonialColumns  = "id, name, role, company, content, rating, avatar, featured, approved, created_at, updated_at"
	testimonialsOrderBy = "created_at DESC, id DESC"
)

const insertTestimonial = `INSERT INTO testimonials (
	id, name, role, company, content, rating, avatar, featured, approved, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Testimonials is the gateway to the testimonials table.
type Testimonials struct {
	store *Store
}

func (g *Testimonials) where(f model.Filter) whereClause {
	var w whereClause
	if v, ok := f.Approved.Get(); ok {
		w.add("approved = ?", v)
	}
	if v, ok := f.Featured.Get(); ok {
		w.add("featured = ?", v)
	}
	return w
}

// FindAll returns the testimonials matching f, newest first.
func (g *Testimonials) FindAll(ctx context.Context, f model.Filter) ([]model.Testimonial, error) {
	db, err := g.store.DB()
	if err != nil {
		return nil, err
	}

	query, args := selectQuery(testimonialColumns, tableTestimonials, g.where(f), testimonialsOrderBy, f)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing testimonials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]model.Testimonial, 0)
	for rows.Next() {
		t, err := g.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing testimonials: %w", err)
	}
	return out, nil
}

// FindByID returns the testimonial with id.
func (g *Testimonials) FindByID(ctx context.Context, id string) (model.Testimonial, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.Testimonial{}, false, err
	}

	t, err := g.scan(db.QueryRowContext(ctx, "SELECT "+testimonialColumns+" FROM testimonials WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Testimonial{}, false, nil
	}
	if err != nil {
		return model.Testimonial{}, false, err
	}
	return t, true, nil
}

// Create inserts t with a fresh id and timestamps and returns the stored row.
func (g *Testimonials) Create(ctx context.Context, t model.Testimonial) (model.Testimonial, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.Testimonial{}, err
	}

	id, err := newID()
	if err != nil {
		return model.Testimonial{}, err
	}
	ts := now()

	_, err = db.ExecContext(ctx, insertTestimonial,
		id, t.Name, t.Role, t.Company, t.Content, t.Rating, util.NullString(t.Avatar),
		t.Featured, t.Approved, ts, ts,
	)
	if err != nil {
		return model.Testimonial{}, fmt.Errorf("creating testimonial: %w", err)
	}

	created, found, err := g.FindByID(ctx, id)
	if err != nil {
		return model.Testimonial{}, err
	}
	if !found {
		return model.Testimonial{}, fmt.Errorf("creating testimonial: row %s not found after insert", id)
	}
	return created, nil
}

// Update applies patch and returns the updated testimonial.
func (g *Testimonials) Update(ctx context.Context, id string, patch model.TestimonialPatch) (model.Testimonial, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.Testimonial{}, false, err
	}
	if err := applyPatch(ctx, db, tableTestimonials, id, patch, "updated_at"); err != nil {
		return model.Testimonial{}, false, err
	}
	return g.FindByID(ctx, id)
}

// Delete removes the testimonial with id and reports whether it existed.
func (g *Testimonials) Delete(ctx context.Context, id string) (bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return false, err
	}
	return deleteRow(ctx, db, tableTestimonials, id)
}

// Count returns the number of testimonials matching f.
func (g *Testimonials) Count(ctx context.Context, f model.Filter) (int, error) {
	db, err := g.store.DB()
	if err != nil {
		return 0, err
	}
	return countRows(ctx, db, tableTestimonials, g.where(f))
}

func (g *Testimonials) scan(row rowScanner) (model.Testimonial, error) {
	var (
		t      model.Testimonial
		avatar sql.NullString
	)

	err := row.Scan(&t.ID, &t.Name, &t.Role, &t.Company, &t.Content, &t.Rating, &avatar,
		&t.Featured, &t.Approved, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return t, err
	}
	if err != nil {
		return t, &DecodeError{Table: tableTestimonials, Err: err}
	}
	if t.Rating < 1 || t.Rating > 5 {
		return t, &DecodeError{Table: tableTestimonials, Column: "rating", Err: fmt.Errorf("rating %d out of range", t.Rating)}
	}

	t.Avatar = avatar.String
	return t, nil
}
