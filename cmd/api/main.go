// Copyright (c) 2026 Quillshelf. All rights reserved.

// Command api is the entry point for the Quillshelf HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quillshelf/quillshelf/internal/admin"
	"github.com/quillshelf/quillshelf/internal/api"
	"github.com/quillshelf/quillshelf/internal/catalog/book"
	"github.com/quillshelf/quillshelf/internal/library"
	"github.com/quillshelf/quillshelf/internal/platform/config"
	"github.com/quillshelf/quillshelf/internal/platform/constants"
	"github.com/quillshelf/quillshelf/internal/platform/migration"
	pgstore "github.com/quillshelf/quillshelf/internal/platform/postgres"
	redisstore "github.com/quillshelf/quillshelf/internal/platform/redis"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
	"github.com/quillshelf/quillshelf/internal/platform/storage"
	"github.com/quillshelf/quillshelf/internal/reading"
	"github.com/quillshelf/quillshelf/internal/social/request"
	"github.com/quillshelf/quillshelf/internal/social/review"
	"github.com/quillshelf/quillshelf/internal/users/auth"
	"github.com/quillshelf/quillshelf/internal/users/profile"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Quillshelf] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Long-lived context for background workers (rate limiter cleanup).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Shared Infrastructure ──────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	blobs, err := storage.NewFileStore(cfg.StorageDir, cfg.StorageBaseURL, log)
	must(log, err, "initialize blob store")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	profileRepository := profile.NewRepository(pool)
	profileService := profile.NewService(profileRepository, blobs)
	profileHandler := profile.NewHandler(profileService)

	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	resetTokens := auth.NewResetTokenRepository(rdb)
	authService := auth.NewService(userRepository, sessionRepository, resetTokens, jwtSvc, profileService)
	authHandler := auth.NewHandler(authService, cfg.Environment == "production")

	bookRepository := book.NewRepository(pool)
	bookService := book.NewService(bookRepository, blobs)
	bookHandler := book.NewHandler(bookService)

	progressRepository := reading.NewProgressRepository(pool)
	readingService := reading.NewService(progressRepository, bookRepository, reading.NewManager())
	readingHandler := reading.NewHandler(readingService)

	libraryRepository := library.NewRepository(pool)
	libraryService := library.NewService(libraryRepository)
	libraryHandler := library.NewHandler(libraryService)

	reviewService := review.NewService(
		review.NewRepository(pool),
		review.NewLikeRepository(pool),
		review.NewFlagRepository(pool),
	)
	reviewHandler := review.NewHandler(reviewService)

	requestService := request.NewService(request.NewRepository(pool))
	requestHandler := request.NewHandler(requestService)

	adminService := admin.NewService(admin.NewRepository(pool), userRepository, bookService, reviewService)
	adminHandler := admin.NewHandler(adminService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       authHandler,
		Profile:    profileHandler,
		Book:       bookHandler,
		Reading:    readingHandler,
		Library:    libraryHandler,
		Review:     reviewHandler,
		Request:    requestHandler,
		Admin:      adminHandler,
		StaticRoot: blobs.Root(),
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
