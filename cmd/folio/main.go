// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/config"
	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/handler/api"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/scheduler"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/upload"
	"github.com/olegiv/folio/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "folio - portfolio content API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JWT_SECRET       Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DB_PATH          SQLite database path (default: ./data/portfolio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORT             Server port (default: 5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ENV              development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FRONTEND_URL     Allowed CORS origins, comma separated\n")
		_, _ = fmt.Fprintf(os.Stderr, "  UPLOAD_PATH      Upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDIS_URL        Redis URL for a shared cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DEMO_MODE        Seed sample content into an empty database\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(version.New(appVersion, appGitCommit, appBuildTime))
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	versionInfo := version.New(appVersion, appGitCommit, appBuildTime)
	ctx := context.Background()

	st := store.New(store.Config{
		Path:          cfg.DBPath,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		AdminEmail:    cfg.AdminEmail,
		DemoMode:      cfg.DemoMode,
	}, logger)
	if err := st.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	contentCache := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL.Std(),
	}, logger)
	defer func() { _ = contentCache.Close() }()

	caching := &service.Caching{Cache: contentCache, TTL: cfg.CacheTTL.Std(), Logger: logger}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenExpiry.Std())
	services := api.Services{
		Auth:         service.NewAuthService(st.Users(), tokens, logger),
		Users:        service.NewUserService(st.Users()),
		Projects:     service.NewProjectService(st.Projects(), caching),
		Blog:         service.NewBlogService(st.BlogPosts(), caching),
		Testimonials: service.NewTestimonialService(st.Testimonials(), caching),
		Settings:     service.NewSettingsService(st.Settings(), caching),
	}

	uploads, err := upload.New(cfg.UploadPath, cfg.MaxFileSize, logger)
	if err != nil {
		return fmt.Errorf("initializing uploads: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	apiLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond(), cfg.RateLimitMax)

	sched := scheduler.New(logger)
	for _, job := range []scheduler.Job{
		scheduler.MaintenanceJob(st),
		scheduler.SweepJob(
			func(d time.Duration) { apiLimiter.Sweep(d) },
			loginProtection.Sweep,
		),
	} {
		if err := sched.Add(job); err != nil {
			return fmt.Errorf("registering job: %w", err)
		}
	}
	sched.Start()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(cfg.FrontendURL))

	healthHandler := handler.NewHealthHandler(st, contentCache, cfg.UploadPath, cfg.Env, versionInfo)
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	siteURL := ""
	if len(cfg.FrontendURL) > 0 {
		siteURL = cfg.FrontendURL[0]
	}
	api.NewHandler(api.Deps{
		Services:        services,
		Uploads:         uploads,
		Validator:       middleware.NewValidator(),
		LoginProtection: loginProtection,
		RateLimiter:     apiLimiter,
		Logger:          logger,
		SiteURL:         siteURL,
		Production:      !cfg.IsDevelopment(),
		Version:         versionInfo,
	}).Register(r)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("server shutdown: %w", err)
	}
	sched.Stop(shutdownCtx)

	slog.Info("server stopped")
	return runErr
}
