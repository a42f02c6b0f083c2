// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/upload"
)

// uploadField is the multipart field carrying the file.
const uploadField = "file"

// uploadMaxAge is how long clients may cache a stored upload.
const uploadMaxAge = 7 * 24 * time.Hour

// multipartOverhead is allowed on top of the file size limit for the
// multipart framing and headers.
const multipartOverhead = 64 << 10

// Upload returns the handler of POST /api/upload/{kind} for kind.
func (h *Handler) Upload(kind upload.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := h.uploads.MaxSize() + multipartOverhead
		r.Body = http.MaxBytesReader(w, r.Body, limit)

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge), r.ContentLength > limit:
				h.writeError(w, r, upload.ErrTooLarge)
			default:
				middleware.WriteAPIError(w, http.StatusBadRequest, "No file uploaded")
			}
			return
		}
		defer func() { _ = file.Close() }()

		if header.Size > h.uploads.MaxSize() {
			h.writeError(w, r, upload.ErrTooLarge)
			return
		}

		f, err := h.uploads.Save(kind, header.Filename, file)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeCreated(w, f, "File uploaded successfully")
	}
}

// DeleteUpload handles DELETE /api/upload/{filename}.
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := h.uploads.Delete(chi.URLParam(r, "filename")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "File deleted successfully")
}

// uploadsFileServer serves stored uploads. Directory listings are refused.
func (h *Handler) uploadsFileServer() http.Handler {
	fs := middleware.StaticCache(uploadMaxAge)(
		http.StripPrefix(upload.URLPrefix, http.FileServer(http.Dir(h.uploads.Dir()))),
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		if name == "" || name[len(name)-1] == '/' {
			middleware.WriteAPIError(w, http.StatusNotFound, "File not found")
			return
		}
		fs.ServeHTTP(w, r)
	})
}
