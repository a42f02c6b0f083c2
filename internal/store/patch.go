// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/util"
)

// assignment is one "column = ?" pair of an UPDATE.
type assignment struct {
	column string
	value  any
}

// buildAssignments turns a patch struct into column assignments. Every
// field tagged `db:"column"` must be a model.Opt; unset fields are skipped.
// A ",json" tag option stores the value as JSON text and ",null" stores
// empty strings as NULL.
func buildAssignments(patch any) ([]assignment, error) {
	v := reflect.ValueOf(patch)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("patch must be a struct, got %s", v.Kind())
	}

	t := v.Type()
	var out []assignment
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("db")
		if !ok || tag == "-" {
			continue
		}

		opt, ok := v.Field(i).Interface().(model.Optional)
		if !ok {
			return nil, fmt.Errorf("patch field %s is not optional", field.Name)
		}
		if !opt.IsSet() {
			continue
		}

		column, mode, _ := strings.Cut(tag, ",")
		value, err := columnValue(opt.Any(), mode)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", column, err)
		}
		out = append(out, assignment{column: column, value: value})
	}
	return out, nil
}

// columnValue converts a patch value into a driver argument.
func columnValue(v any, mode string) (any, error) {
	switch mode {
	case "json":
		return encodeJSON(v)
	case "null":
		if s, ok := v.(string); ok {
			return util.NullString(s), nil
		}
	}

	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case *time.Time:
		return util.NullTime(x), nil
	}

	// Named string and integer types (Status, Role) go in as their base type.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	}
	return v, nil
}

// applyPatch writes the set fields of patch to the row with id. When stamp
// names a column it is set to the current time. An empty patch writes
// nothing.
func applyPatch(ctx context.Context, db *sql.DB, table, id string, patch any, stamp string) error {
	sets, err := buildAssignments(patch)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return nil
	}
	if stamp != "" {
		sets = append(sets, assignment{column: stamp, value: now()})
	}

	cols := make([]string, 0, len(sets))
	args := make([]any, 0, len(sets)+1)
	for _, a := range sets {
		cols = append(cols, a.column+" = ?")
		args = append(args, a.value)
	}
	args = append(args, id)

	query := "UPDATE " + table + " SET " + strings.Join(cols, ", ") + " WHERE id = ?"
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating %s: %w", table, err)
	}
	return nil
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
