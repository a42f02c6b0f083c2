// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers of the portfolio CMS.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/upload"
	"github.com/olegiv/folio/internal/version"
)

// Pagination defaults of list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

const messageInternalError = "Internal server error"

// Services groups the business services used by the handlers.
type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Projects     *service.ProjectService
	Blog         *service.BlogService
	Testimonials *service.TestimonialService
	Settings     *service.SettingsService
}

// Deps holds everything NewHandler needs. LoginProtection and RateLimiter
// are optional.
type Deps struct {
	Services
	Uploads         *upload.Storage
	Validator       *validator.Validate
	LoginProtection *middleware.LoginProtection
	RateLimiter     *middleware.RateLimiter
	Logger          *slog.Logger
	SiteURL         string // public site, used by sitemap.xml and robots.txt
	Production      bool
	Version         version.Info
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	svc        Services
	uploads    *upload.Storage
	validate   *validator.Validate
	login      *middleware.LoginProtection
	limiter    *middleware.RateLimiter
	logger     *slog.Logger
	siteURL    string
	production bool
	version    version.Info
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	v := d.Validator
	if v == nil {
		v = middleware.NewValidator()
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:        d.Services,
		uploads:    d.Uploads,
		validate:   v,
		login:      d.LoginProtection,
		limiter:    d.RateLimiter,
		logger:     logger,
		siteURL:    d.SiteURL,
		production: d.Production,
		version:    d.Version,
	}
}

// writeSuccess writes a 200 envelope carrying data.
func writeSuccess(w http.ResponseWriter, data any) {
	middleware.WriteJSON(w, http.StatusOK, middleware.Response{Success: true, Data: data})
}

// writeCreated writes a 201 envelope carrying data and a message.
func writeCreated(w http.ResponseWriter, data any, message string) {
	middleware.WriteJSON(w, http.StatusCreated, middleware.Response{Success: true, Data: data, Message: message})
}

// writeUpdated writes a 200 envelope carrying data and a message.
func writeUpdated(w http.ResponseWriter, data any, message string) {
	middleware.WriteJSON(w, http.StatusOK, middleware.Response{Success: true, Data: data, Message: message})
}

// writeMessage writes a 200 envelope with only a message.
func writeMessage(w http.ResponseWriter, message string) {
	middleware.WriteJSON(w, http.StatusOK, middleware.Response{Success: true, Message: message})
}

// writePage writes one page of a list with its pagination block.
func writePage[T any](w http.ResponseWriter, p service.Page[T]) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	middleware.WriteJSON(w, http.StatusOK, middleware.Response{
		Success: true,
		Data:    items,
		Pagination: &middleware.Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      p.Total,
			TotalPages: p.TotalPages(),
		},
	})
}

// writeList writes an unpaginated list, never as null.
func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeSuccess(w, items)
}

// writeError maps err to a status code and envelope. Unexpected errors are
// logged and reported without detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr  *model.ValidationError
		nerr  *model.NotFoundError
		cerr  *model.ConflictError
		authn *model.AuthenticationError
		authz *model.AuthorizationError
	)

	switch {
	case errors.As(err, &verr):
		middleware.WriteValidationError(w, verr.Fields)
	case errors.As(err, &cerr):
		resp := middleware.Response{Error: cerr.Message}
		if cerr.Field != "" {
			resp.Errors = []model.FieldError{{Field: cerr.Field, Message: cerr.Message}}
		}
		middleware.WriteJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &nerr):
		middleware.WriteAPIError(w, http.StatusNotFound, nerr.Error())
	case errors.As(err, &authn):
		middleware.WriteAPIError(w, http.StatusUnauthorized, authn.Message)
	case errors.As(err, &authz):
		middleware.WriteAPIError(w, http.StatusForbidden, authz.Message)
	case errors.Is(err, upload.ErrTooLarge):
		middleware.WriteAPIError(w, http.StatusBadRequest, "File too large")
	case errors.Is(err, upload.ErrUnsupportedType):
		middleware.WriteAPIError(w, http.StatusBadRequest, "File type not allowed")
	case errors.Is(err, upload.ErrInvalidName):
		middleware.WriteAPIError(w, http.StatusBadRequest, "Invalid filename")
	case errors.Is(err, upload.ErrNotFound):
		middleware.WriteAPIError(w, http.StatusNotFound, "File not found")
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		middleware.WriteAPIError(w, http.StatusInternalServerError, messageInternalError)
	}
}

func isAuthenticationError(err error) bool {
	var authn *model.AuthenticationError
	return errors.As(err, &authn)
}

// parsePagination reads page and limit from the query. Invalid values fall
// back to the defaults and limit is capped at MaxLimit.
func parsePagination(r *http.Request) (page, limit int) {
	page, limit = DefaultPage, DefaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, MaxLimit)
	}
	return page, limit
}

// parseFilter reads the list filters named in keys from the query string.
// Unknown enum values are reported as validation errors.
func parseFilter(r *http.Request, keys ...string) (model.Filter, error) {
	var f model.Filter
	q := r.URL.Query()
	verr := &model.ValidationError{}

	for _, key := range keys {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			continue
		}
		switch key {
		case "status":
			s := model.Status(raw)
			if !s.Valid() {
				verr.Add(key, "must be one of draft, published, archived")
				continue
			}
			f.Status = model.Some(s)
		case "role":
			role := model.Role(raw)
			if !role.Valid() {
				verr.Add(key, "must be one of admin, editor, viewer")
				continue
			}
			f.Role = model.Some(role)
		case "featured", "approved", "isActive":
			b, err := strconv.ParseBool(raw)
			if err != nil {
				verr.Add(key, "must be true or false")
				continue
			}
			opt := model.Some(b)
			switch key {
			case "featured":
				f.Featured = opt
			case "approved":
				f.Approved = opt
			default:
				f.IsActive = opt
			}
		}
	}
	return f, verr.OrNil()
}

// urlID returns the {id} route parameter.
func urlID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// body returns the body decoded by middleware.ValidateBody, writing a 500
// when the route was registered without it.
func body[T any](h *Handler, w http.ResponseWriter, r *http.Request) (T, bool) {
	v, ok := middleware.Body[T](r)
	if !ok {
		h.writeError(w, r, errors.New("request body missing from context"))
	}
	return v, ok
}
