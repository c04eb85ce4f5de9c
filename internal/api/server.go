// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/quillshelf/quillshelf/internal/admin"
	"github.com/quillshelf/quillshelf/internal/catalog/book"
	"github.com/quillshelf/quillshelf/internal/library"
	"github.com/quillshelf/quillshelf/internal/platform/config"
	"github.com/quillshelf/quillshelf/internal/platform/constants"
	"github.com/quillshelf/quillshelf/internal/platform/middleware"
	"github.com/quillshelf/quillshelf/internal/reading"
	"github.com/quillshelf/quillshelf/internal/social/request"
	"github.com/quillshelf/quillshelf/internal/social/review"
	"github.com/quillshelf/quillshelf/internal/users/auth"
	"github.com/quillshelf/quillshelf/internal/users/profile"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here, no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler, always 200 while the process lives.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the account lifecycle (register, login, refresh).
	Auth *auth.Handler

	// Profile handles reader profiles and avatars.
	Profile *profile.Handler

	// Book handles catalog discovery and the publishing workflow.
	Book *book.Handler

	// Reading handles reading sessions and progress.
	Reading *reading.Handler

	// Library handles bookmarks and the Continue Reading shelf.
	Library *library.Handler

	// Review handles reviews, likes, flags, and moderation.
	Review *review.Handler

	// Request handles book requests.
	Request *request.Handler

	// Admin handles access requests, the author roster, and the dashboard.
	Admin *admin.Handler

	// StaticRoot is the filesystem directory served under /static/
	// (covers, documents, avatars).
	StaticRoot string
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Static Blobs
	// Covers, book documents, and avatars from the blob store.
	if h.StaticRoot != "" {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(h.StaticRoot)))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/profiles", h.Profile.Routes())
		api.Mount("/books", h.Book.Routes())
		api.Mount("/reading", h.Reading.Routes())
		api.Mount("/library", h.Library.Routes())
		api.Mount("/reviews", h.Review.Routes())
		api.Mount("/requests", h.Request.Routes())
		api.Mount("/admin", h.Admin.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
