// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input is malformed or incomplete.
// It lists every violation, not just the first.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a failing field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns e if any field failed, otherwise nil.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NotFoundError is returned when an id has no corresponding row.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ConflictError is returned when a unique value is already taken.
type ConflictError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ConflictError) Error() string {
	return e.Message
}

// AuthenticationError is returned for missing or bad credentials.
type AuthenticationError struct {
	Message string
}

// Error implements error.
func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError is returned when the caller's role is insufficient.
type AuthorizationError struct {
	Message string
}

// Error implements error.
func (e *AuthorizationError) Error() string {
	return e.Message
}
