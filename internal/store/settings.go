// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/folio/internal/model"
)

const tableSettings = "site_settings"

// Settings is the gateway to the singleton site_settings row.
type Settings struct {
	store *Store
}

// insertSettings writes s unless the row already exists.
func insertSettings(ctx context.Context, db execer, s model.SiteSettings) error {
	var enc jsonArgs
	args := []any{model.SettingsID}
	for _, name := range model.SettingsSections {
		args = append(args, enc.add(s.Section(name)))
	}
	args = append(args, now())
	if enc.err != nil {
		return fmt.Errorf("encoding settings: %w", enc.err)
	}

	query := "INSERT OR IGNORE INTO site_settings (id, " + strings.Join(model.SettingsSections, ", ") +
		", updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting settings: %w", err)
	}
	return nil
}

// Get returns the settings row. found is false when it has not been
// created yet.
func (g *Settings) Get(ctx context.Context) (model.SiteSettings, bool, error) {
	db, err := g.store.DB()
	if err != nil {
		return model.SiteSettings{}, false, err
	}

	var (
		s   model.SiteSettings
		raw = make([]sql.NullString, len(model.SettingsSections))
	)
	dest := []any{&s.ID}
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	dest = append(dest, &s.UpdatedAt)

	query := "SELECT id, " + strings.Join(model.SettingsSections, ", ") + ", updated_at FROM site_settings WHERE id = ?"
	err = db.QueryRowContext(ctx, query, model.SettingsID).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SiteSettings{}, false, nil
	}
	if err != nil {
		return model.SiteSettings{}, false, &DecodeError{Table: tableSettings, Err: err}
	}

	for i, name := range model.SettingsSections {
		section := jsonColumn[model.Section](g.store.logger, tableSettings, name, s.ID, raw[i])
		if section == nil {
			section = model.Section{}
		}
		s.SetSection(name, section)
	}
	return s, true, nil
}

// EnsureDefaults creates the settings row with default content if it is
// missing.
func (g *Settings) EnsureDefaults(ctx context.Context) error {
	db, err := g.store.DB()
	if err != nil {
		return err
	}
	return insertSettings(ctx, db, model.DefaultSettings())
}

// UpdateSections replaces the given sections as a whole and bumps
// updated_at. Unknown section names are rejected.
func (g *Settings) UpdateSections(ctx context.Context, sections map[string]model.Section) (model.SiteSettings, error) {
	for name := range sections {
		if !model.IsSettingsSection(name) {
			return model.SiteSettings{}, fmt.Errorf("unknown settings section %q", name)
		}
	}

	db, err := g.store.DB()
	if err != nil {
		return model.SiteSettings{}, err
	}
	if err := insertSettings(ctx, db, model.DefaultSettings()); err != nil {
		return model.SiteSettings{}, err
	}

	var (
		cols []string
		args []any
		enc  jsonArgs
	)
	// Iterate the known list so the statement is deterministic.
	for _, name := range model.SettingsSections {
		section, ok := sections[name]
		if !ok {
			continue
		}
		if section == nil {
			section = model.Section{}
		}
		cols = append(cols, name+" = ?")
		args = append(args, enc.add(section))
	}
	if enc.err != nil {
		return model.SiteSettings{}, fmt.Errorf("encoding settings: %w", enc.err)
	}

	if len(cols) > 0 {
		cols = append(cols, "updated_at = ?")
		args = append(args, now(), model.SettingsID)
		query := "UPDATE site_settings SET " + strings.Join(cols, ", ") + " WHERE id = ?"
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return model.SiteSettings{}, fmt.Errorf("updating settings: %w", err)
		}
	}

	s, found, err := g.Get(ctx)
	if err != nil {
		return model.SiteSettings{}, err
	}
	if !found {
		return model.SiteSettings{}, errors.New("settings row missing after update")
	}
	return s, nil
}
