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
	tableUsers    = "users"
	userColumns   = "id, username, email, password, role, created_at, last_login, is_active"
	usersOrderBy  = "created_at DESC, id DESC"
	insertUserSQL = `INSERT INTO users (id, username, email, password, role, created_at, last_login, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// Users is the gateway to the users table. Passwords are stored as given;
// hashing is the caller's job.
type Users struct {
	store *Store
}

// insertUser writes u as a new row and returns its id.
func insertUser(ctx context.Context, db execer, u model.User) (string, error) {
	id, err := newID()
	if err != nil {
		return "", err
	}
	_, err = db.ExecContext(ctx, insertUserSQL,
		id, u.Username, u.Email, u.Password, string(u.Role), now(), util.NullTime(u.LastLogin), u.IsActive)
	if err != nil {
		return "", fmt.Errorf("creating user: %w", err)
	}
	return id, nil
}

func (g *Users) where(f model.Filter) whereClause {
	var w whereClause
	if v, ok := f.Role.Get(); ok {
		w.add("role = ?", string(v))
	}
	if v, ok := f.IsActive.Get(); ok {
		w.add("is_active = ?", v)
	}
	return w
}

// FindAll returns the users matching f, newest first.
func (g *Users) FindAll(ctx context.Context, f model.Filter) ([]model.User, error) {
	db, err := g.store.DB()
	if err != nil {
		return nil, err
	}

	query, args := selectQuery(userColumns, tableUsers, g.where(f), usersOrderBy, f)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// FindByID returns the user with id.
func (g *Users) FindByID(ctx context.Context, id string) (model.User, bool, error) {
	return g.findOne(ctx, "id", id)
}

// FindByUsername returns the user with the exact username.
func (g *Users) FindByUsername(ctx context.Context, username string) (model.User, bool, error) {
	return g.findOne(ctx, "username", username)
}

func (g *Users) findOne(ctx context.Context, column, value string) (model.User, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.User{}, false, err
	}

	u, err := scanUser(db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

// FindConflict returns "username" or "email" when another user than
// excludeID already holds the given value, or "" when both are free. Empty
// arguments are not checked.
func (g *Users) FindConflict(ctx context.Context, username, email, excludeID string) (string, error) {
	db, err := g.store.DB()
	if err != nil {
		return "", err
	}

	checks := []struct{ column, value string }{
		{"username", username},
		{"email", email},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		var n int
		query := "SELECT COUNT(*) FROM users WHERE " + c.column + " = ? AND id <> ?"
		if err := db.QueryRowContext(ctx, query, c.value, excludeID).Scan(&n); err != nil {
			return "", fmt.Errorf("checking %s: %w", c.column, err)
		}
		if n > 0 {
			return c.column, nil
		}
	}
	return "", nil
}

// Create inserts u and returns the stored row.
func (g *Users) Create(ctx context.Context, u model.User) (model.User, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.User{}, err
	}

	id, err := insertUser(ctx, db, u)
	if err != nil {
		return model.User{}, err
	}

	created, found, err := g.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, fmt.Errorf("creating user: row %s not found after insert", id)
	}
	return created, nil
}

// Update applies patch and returns the updated user. Users carry no
// modification timestamp.
func (g *Users) Update(ctx context.Context, id string, patch model.UserPatch) (model.User, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.User{}, false, err
	}
	if err := applyPatch(ctx, db, tableUsers, id, patch, ""); err != nil {
		return model.User{}, false, err
	}
	return g.FindByID(ctx, id)
}

// TouchLastLogin sets last_login to the current time.
func (g *Users) TouchLastLogin(ctx context.Context, id string) error {
	db, err := g.store.DB()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "UPDATE users SET last_login = ? WHERE id = ?", now(), id); err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}

// CountActiveAdmins returns the number of active admin accounts.
func (g *Users) CountActiveAdmins(ctx context.Context) (int, error) {
	return g.Count(ctx, model.Filter{Role: model.Some(model.RoleAdmin), IsActive: model.Some(true)})
}

// Delete removes the user with id and reports whether it existed.
func (g *Users) Delete(ctx context.Context, id string) (bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return false, err
	}
	return deleteRow(ctx, db, tableUsers, id)
}

// Count returns the number of users matching f.
func (g *Users) Count(ctx context.Context, f model.Filter) (int, error) {
	db, err := g.store.DB()
	if err != nil {
		return 0, err
	}
	return countRows(ctx, db, tableUsers, g.where(f))
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u         model.User
		role      string
		lastLogin sql.NullTime
	)

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &role, &u.CreatedAt, &lastLogin, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return u, err
	}
	if err != nil {
		return u, &DecodeError{Table: tableUsers, Err: err}
	}

	u.Role = model.Role(role)
	if !u.Role.Valid() {
		return u, &DecodeError{Table: tableUsers, Column: "role", Err: fmt.Errorf("unknown role %q", role)}
	}
	u.LastLogin = util.TimePtr(lastLogin)
	return u, nil
}
