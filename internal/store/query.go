// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/folio/internal/model"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// whereClause accumulates AND-ed conditions with their arguments.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, arg any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, arg)
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limitOffset renders the pagination part of f. OFFSET is only emitted
// when a LIMIT is present; an offset on its own is ignored.
func limitOffset(f model.Filter) (string, []any) {
	limit, ok := f.Limit.Get()
	if !ok {
		return "", nil
	}
	if offset, ok := f.Offset.Get(); ok {
		return " LIMIT ? OFFSET ?", []any{limit, offset}
	}
	return " LIMIT ?", []any{limit}
}

// selectQuery assembles a SELECT over table with the filter applied.
func selectQuery(columns, table string, w whereClause, orderBy string, f model.Filter) (string, []any) {
	page, pageArgs := limitOffset(f)
	query := "SELECT " + columns + " FROM " + table + w.String() + " ORDER BY " + orderBy + page
	return query, append(append([]any{}, w.args...), pageArgs...)
}

// countRows counts the rows of table matching w.
func countRows(ctx context.Context, db *sql.DB, table string, w whereClause) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// deleteRow deletes the row with id and reports whether one was removed.
func deleteRow(ctx context.Context, db *sql.DB, table, id string) (bool, error) {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, err)
	}
	return n > 0, nil
}

// newID returns a time-ordered random identifier.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	return id.String(), nil
}
