// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/*.sql
var migrations embed.FS

// pragmas are applied to the single connection right after opening.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",        // Write-Ahead Logging for better concurrency
	"PRAGMA busy_timeout=5000",       // Wait 5s when database is locked
	"PRAGMA synchronous=NORMAL",      // Good balance of safety and speed
	"PRAGMA cache_size=-16000",       // 16MB cache
	"PRAGMA foreign_keys=ON",         // Enforce foreign key constraints
	"PRAGMA temp_store=MEMORY",       // Store temp tables in memory
	"PRAGMA wal_autocheckpoint=1000", // Auto checkpoint every 1000 pages
}

// openDB opens the SQLite file at path. All access goes through one shared
// connection; SQLite serializes statements on it.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// migrate runs all pending schema migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
