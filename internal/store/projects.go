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
	tableProjects   = "projects"
	projectColumns  = "id, title, description, long_description, technologies, image, gallery, github_url, live_url, status, featured, created_at, updated_at, collaborators, metrics"
	projectsOrderBy = "created_at DESC, id DESC"
)

const insertProject = `INSERT INTO projects (
	id, title, description, long_description, technologies, image, gallery,
	github_url, live_url, status, featured, created_at, updated_at, collaborators, metrics
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Projects is the gateway to the projects table.
type Projects struct {
	store *Store
}

func (g *Projects) where(f model.Filter) whereClause {
	var w whereClause
	if v, ok := f.Status.Get(); ok {
		w.add("status = ?", string(v))
	}
	if v, ok := f.Featured.Get(); ok {
		w.add("featured = ?", v)
	}
	return w
}

// FindAll returns the projects matching f, newest first.
func (g *Projects) FindAll(ctx context.Context, f model.Filter) ([]model.Project, error) {
	db, err := g.store.DB()
	if err != nil {
		return nil, err
	}

	query, args := selectQuery(projectColumns, tableProjects, g.where(f), projectsOrderBy, f)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	projects := make([]model.Project, 0)
	for rows.Next() {
		p, err := g.scan(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// FindByID returns the project with id. Absence is reported by found=false.
func (g *Projects) FindByID(ctx context.Context, id string) (model.Project, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.Project{}, false, err
	}

	row := db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := g.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, false, nil
	}
	if err != nil {
		return model.Project{}, false, err
	}
	return p, true, nil
}

// Create inserts p with a fresh id and timestamps and returns the stored row.
func (g *Projects) Create(ctx context.Context, p model.Project) (model.Project, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.Project{}, err
	}

	id, err := newID()
	if err != nil {
		return model.Project{}, err
	}
	ts := now()

	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	var enc jsonArgs
	technologies := enc.add(p.Technologies)
	gallery := enc.add(p.Gallery)
	collaborators := enc.add(p.Collaborators)
	metrics := enc.add(p.Metrics)
	if enc.err != nil {
		return model.Project{}, fmt.Errorf("encoding project: %w", enc.err)
	}

	_, err = db.ExecContext(ctx, insertProject,
		id, p.Title, p.Description, util.NullString(p.LongDescription), technologies, p.Image, gallery,
		util.NullString(p.GithubURL), util.NullString(p.LiveURL), string(p.Status), p.Featured, ts, ts,
		collaborators, metrics,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("creating project: %w", err)
	}

	created, found, err := g.FindByID(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	if !found {
		return model.Project{}, fmt.Errorf("creating project: row %s not found after insert", id)
	}
	return created, nil
}

// Update applies patch and returns the updated project. An empty patch
// returns the current row untouched.
func (g *Projects) Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.Project{}, false, err
	}
	if err := applyPatch(ctx, db, tableProjects, id, patch, "updated_at"); err != nil {
		return model.Project{}, false, err
	}
	return g.FindByID(ctx, id)
}

// Delete removes the project with id and reports whether it existed.
func (g *Projects) Delete(ctx context.Context, id string) (bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return false, err
	}
	return deleteRow(ctx, db, tableProjects, id)
}

// Count returns the number of projects matching f. Limit and offset are
// ignored.
func (g *Projects) Count(ctx context.Context, f model.Filter) (int, error) {
	db, err := g.store.DB()
	if err != nil {
		return 0, err
	}
	return countRows(ctx, db, tableProjects, g.where(f))
}

func (g *Projects) scan(row rowScanner) (model.Project, error) {
	var (
		p                                       model.Project
		status                                  string
		longDescription, githubURL, liveURL     sql.NullString
		technologies, gallery, collabs, metrics sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &longDescription, &technologies, &p.Image, &gallery,
		&githubURL, &liveURL, &status, &p.Featured, &p.CreatedAt, &p.UpdatedAt, &collabs, &metrics,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, &DecodeError{Table: tableProjects, Err: err}
	}

	p.Status = model.Status(status)
	if !p.Status.Valid() {
		return p, &DecodeError{Table: tableProjects, Column: "status", Err: fmt.Errorf("unknown status %q", status)}
	}

	log := g.store.logger
	p.LongDescription = longDescription.String
	p.GithubURL = githubURL.String
	p.LiveURL = liveURL.String
	p.Technologies = jsonColumn[[]string](log, tableProjects, "technologies", p.ID, technologies)
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	p.Gallery = jsonColumn[[]string](log, tableProjects, "gallery", p.ID, gallery)
	p.Collaborators = jsonColumn[[]model.Collaborator](log, tableProjects, "collaborators", p.ID, collabs)
	p.Metrics = jsonColumn[model.Metrics](log, tableProjects, "metrics", p.ID, metrics)
	return p, nil
}

// jsonArgs encodes several JSON column arguments and keeps the first error.
type jsonArgs struct {
	err error
}

func (e *jsonArgs) add(v any) any {
	if e.err != nil {
		return nil
	}
	out, err := encodeJSON(v)
	if err != nil {
		e.err = err
	}
	return out
}
