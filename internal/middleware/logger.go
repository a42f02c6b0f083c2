// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/util"
)

// RequestLogger logs one line per request and attaches the request id and
// path to the context, so every record logged while serving the request
// carries them.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.WithAttrs(r.Context(),
				slog.String("request_id", chimw.GetReqID(r.Context())),
				slog.String("path", r.URL.Path),
			)
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.LogAttrs(ctx, requestLevel(r.URL.Path, status), "http request",
					slog.String("method", r.Method),
					slog.Int("status", status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(start)),
					slog.String("ip", util.ClientIP(r)),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

func requestLevel(path string, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	case strings.HasPrefix(path, "/health"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Recoverer turns a panic in a handler into the 500 envelope and logs the
// stack trace.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			slog.ErrorContext(r.Context(), "panic while serving request",
				"method", r.Method,
				"panic", rvr,
				"stack", string(debug.Stack()),
			)
			if r.Header.Get("Connection") != "Upgrade" {
				WriteAPIError(w, http.StatusInternalServerError, messageInternalFailure)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
