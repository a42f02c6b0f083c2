// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
)

// Opt is an optional value. The zero Opt is unset.
//
// When decoded from JSON, a field that is absent from the document stays
// unset, while an explicit null sets the field to the zero value of T.
type Opt[T any] struct {
	Set   bool
	Value T
}

// Some returns an Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Value: v}
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// OrElse returns the value if set, otherwise def.
func (o Opt[T]) OrElse(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

// IsSet reports whether the value is set.
func (o Opt[T]) IsSet() bool {
	return o.Set
}

// Any returns the value as an interface. It is used by the store's
// generic patch builder.
func (o Opt[T]) Any() any {
	return o.Value
}

// ValidationValue returns the value to validate, or a nil *T when unset so
// that omitempty and omitnil rules skip the field.
func (o Opt[T]) ValidationValue() any {
	if !o.Set {
		return (*T)(nil)
	}
	return o.Value
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON implements json.Marshaler.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Optional is implemented by every Opt instantiation.
type Optional interface {
	IsSet() bool
	Any() any
}
