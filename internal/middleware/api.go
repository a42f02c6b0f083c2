// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, request validation and request context handling, together
// with the JSON envelope every API response is written in.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/olegiv/folio/internal/model"
)

// Pagination describes the page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Response is the JSON envelope of every API response.
type Response struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Message    string             `json:"message,omitempty"`
	Error      string             `json:"error,omitempty"`
	Errors     []model.FieldError `json:"errors,omitempty"`
	Pagination *Pagination        `json:"pagination,omitempty"`
}

// WriteJSON writes resp with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// WriteAPIError writes a failed envelope carrying message.
func WriteAPIError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Response{Success: false, Error: message})
}

// WriteValidationError writes the 400 envelope listing every failed field.
func WriteValidationError(w http.ResponseWriter, fields []model.FieldError) {
	WriteJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error:   "Validation failed",
		Errors:  fields,
	})
}
