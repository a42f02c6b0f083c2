// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// DecodeError is returned when a row does not match the shape its table
// promises, such as an unknown enum value or an unscannable column.
type DecodeError struct {
	Table  string
	Column string
	Err    error
}

// Error implements error.
func (e *DecodeError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("decoding %s row: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("decoding %s.%s: %v", e.Table, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// jsonColumn decodes a JSON text column into T. NULL, empty and corrupt
// values decode to the zero value; corrupt ones are logged.
func jsonColumn[T any](logger *slog.Logger, table, column, id string, raw sql.NullString) T {
	var v T
	if !raw.Valid || raw.String == "" {
		return v
	}
	if err := json.Unmarshal([]byte(raw.String), &v); err != nil {
		logger.Warn("corrupt json column, using empty value",
			"table", table,
			"column", column,
			"id", id,
			"error", err,
		)
		var zero T
		return zero
	}
	return v
}

// encodeJSON encodes v for a JSON text column. Nil slices and maps are
// stored as NULL.
func encodeJSON(v any) (any, error) {
	if v == nil || isNilValue(v) {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// now returns the current time as stored by the gateways.
func now() time.Time {
	return time.Now().UTC()
}
