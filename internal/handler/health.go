// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers that sit outside the REST API:
// health probes for load balancers and orchestrators.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/version"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// checkTimeout bounds each dependency check.
const checkTimeout = 2 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         Pinger
	cache      any
	uploadsDir string
	env        string
	version    version.Info
	startTime  time.Time
}

// NewHealthHandler creates a new health handler. cache is checked when it
// implements Pinger, which the Redis backend does.
func NewHealthHandler(db Pinger, cache any, uploadsDir, env string, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:         db,
		cache:      cache,
		uploadsDir: uploadsDir,
		env:        env,
		version:    info,
		startTime:  time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status      string           `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
	Uptime      string           `json:"uptime"`
	Version     string           `json:"version"`
	Environment string           `json:"environment"`
	Checks      map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkPinger(r.Context(), h.db),
		"disk":     h.checkDiskSpace(),
	}
	if p, ok := h.cache.(Pinger); ok {
		checks["cache"] = h.checkPinger(r.Context(), p)
	}

	overall := StatusHealthy
	for _, c := range checks {
		if c.Status != StatusHealthy {
			overall = StatusDegraded
		}
	}

	code := http.StatusOK
	if checks["database"].Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	middleware.WriteJSON(w, code, middleware.Response{
		Success: code == http.StatusOK,
		Data: HealthStatus{
			Status:      overall,
			Timestamp:   time.Now().UTC(),
			Uptime:      time.Since(h.startTime).Round(time.Second).String(),
			Version:     h.version.Version,
			Environment: h.env,
			Checks:      checks,
		},
	})
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, middleware.Response{
		Success: true,
		Data:    map[string]string{"status": "alive"},
	})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if c := h.checkPinger(r.Context(), h.db); c.Status != StatusHealthy {
		middleware.WriteJSON(w, http.StatusServiceUnavailable, middleware.Response{
			Success: false,
			Error:   "Service not ready",
			Data:    map[string]string{"status": "not_ready"},
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, middleware.Response{
		Success: true,
		Data:    map[string]string{"status": "ready"},
	})
}

// checkPinger verifies connectivity of a dependency. Error details are not
// exposed; they are logged by the dependency itself.
func (h *HealthHandler) checkPinger(ctx context.Context, p Pinger) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start).Round(time.Microsecond).String()

	if err != nil {
		return Check{Status: StatusUnhealthy, Message: "Unreachable", Latency: latency}
	}
	return Check{Status: StatusHealthy, Latency: latency}
}

// checkDiskSpace checks available disk space in the uploads directory.
func (h *HealthHandler) checkDiskSpace() Check {
	if _, err := os.Stat(h.uploadsDir); os.IsNotExist(err) {
		return Check{Status: StatusHealthy, Message: "Uploads directory does not exist yet"}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.uploadsDir, &stat); err != nil {
		return Check{Status: StatusUnhealthy, Message: "Failed to check disk space"}
	}

	availableBytes := stat.Bavail * uint64(stat.Bsize)
	available := formatBytes(availableBytes)

	const minSpace = 100 * 1024 * 1024 // 100MB
	if availableBytes < minSpace {
		return Check{Status: StatusDegraded, Message: "Low disk space: " + available + " available"}
	}
	return Check{Status: StatusHealthy, Message: available + " available"}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
