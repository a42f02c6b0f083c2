// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store owns the SQLite database: its lifecycle, schema, seed data
// and the per-table gateways that are the only code allowed to write it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotInitialized is returned when the store is used before Initialize
// or after Close.
var ErrNotInitialized = errors.New("store not initialized")

// Config configures the store and its seed data.
type Config struct {
	Path          string
	AdminUsername string
	AdminPassword string
	AdminEmail    string

	// DemoMode seeds sample portfolio content into empty tables.
	DemoMode bool
}

// Store is the process-wide database handle. It is created by the entry
// point and passed to everything that needs persistence.
type Store struct {
	cfg    Config
	logger *slog.Logger

	mu sync.RWMutex
	db *sql.DB
}

// New creates a store. Nothing is opened until Initialize.
func New(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cfg: cfg, logger: logger}
}

// Initialize creates the storage directory, opens the database, applies
// migrations and seeds the admin user and settings row. Calling it on an
// initialized store is a no-op.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if dir := filepath.Dir(s.cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	s.logger.Info("initializing database", "path", s.cfg.Path)
	db, err := openDB(ctx, s.cfg.Path)
	if err != nil {
		return err
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	if err := seed(ctx, db, s.cfg, s.logger); err != nil {
		_ = db.Close()
		return fmt.Errorf("seeding database: %w", err)
	}

	s.db = db
	s.logger.Info("database ready")
	return nil
}

// DB returns the live handle.
func (s *Store) DB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

// Close releases the handle. DB fails until Initialize is called again.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Maintain runs periodic housekeeping: planner statistics and a passive
// WAL checkpoint.
func (s *Store) Maintain(ctx context.Context) error {
	db, err := s.DB()
	if err != nil {
		return err
	}
	for _, stmt := range []string{"PRAGMA optimize", "PRAGMA wal_checkpoint(PASSIVE)"} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// Projects returns the projects gateway.
func (s *Store) Projects() *Projects { return &Projects{store: s} }

// BlogPosts returns the blog posts gateway.
func (s *Store) BlogPosts() *BlogPosts { return &BlogPosts{store: s} }

// Testimonials returns the testimonials gateway.
func (s *Store) Testimonials() *Testimonials { return &Testimonials{store: s} }

// Users returns the users gateway.
func (s *Store) Users() *Users { return &Users{store: s} }

// Settings returns the site settings gateway.
func (s *Store) Settings() *Settings { return &Settings{store: s} }
