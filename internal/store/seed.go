// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/model"
)

// Fallback admin credentials used when the configuration leaves them empty.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultAdminEmail    = "admin@example.com"
)

// seed creates the initial admin account and the settings row. Both steps
// are skipped when their data already exists.
func seed(ctx context.Context, db *sql.DB, cfg Config, logger *slog.Logger) error {
	if err := seedAdmin(ctx, db, cfg, logger); err != nil {
		return err
	}
	if err := insertSettings(ctx, db, model.DefaultSettings()); err != nil {
		return err
	}
	if cfg.DemoMode {
		if err := seedDemo(ctx, db, logger); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, db *sql.DB, cfg Config, logger *slog.Logger) error {
	username := orDefault(cfg.AdminUsername, DefaultAdminUsername)
	password := orDefault(cfg.AdminPassword, DefaultAdminPassword)
	email := orDefault(cfg.AdminEmail, DefaultAdminEmail)

	var id string
	err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", username).Scan(&id)
	if err == nil {
		logger.Debug("admin user already exists, skipping seed", "username", username)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	id, err = insertUser(ctx, db, model.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     model.RoleAdmin,
		IsActive: true,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	logger.Info("created default admin user", "id", id, "username", username)
	if password == DefaultAdminPassword {
		logger.Warn("admin user uses the default password, change it after first login")
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
