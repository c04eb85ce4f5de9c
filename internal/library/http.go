// Copyright (c) 2026 Quillshelf. All rights reserved.

// HTTP delivery layer for the personal shelf.
package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillshelf/quillshelf/internal/platform/middleware"
	requestutil "github.com/quillshelf/quillshelf/internal/platform/request"
	"github.com/quillshelf/quillshelf/internal/platform/respond"
	"github.com/quillshelf/quillshelf/internal/platform/validate"
)

// Handler implements the personal shelf HTTP endpoints.
type Handler struct {
	libraryService *Service
}

// NewHandler constructs a new library [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{libraryService: service}
}

// Routes returns a [chi.Router] with shelf routes. Everything requires a
// signed-in caller; bookmarking is meaningless without an account.
//
// # Endpoints
//   - GET  /                   : The bookmarked books, newest first.
//   - GET  /ids                : The bookmarked id set (state bootstrap).
//   - POST /toggle/{bookID}    : Flip a bookmark, returns membership.
//   - GET  /continue-reading   : Books read past page 1, recent first.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.shelf)
	router.Get("/ids", handler.bookmarkedIDs)
	router.Post("/toggle/{bookID}", handler.toggle)
	router.Get("/continue-reading", handler.continueReading)

	return router
}

// shelf handles GET /api/v1/library.
func (handler *Handler) shelf(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	books, err := handler.libraryService.Shelf(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, books)
}

// bookmarkedIDs handles GET /api/v1/library/ids.
func (handler *Handler) bookmarkedIDs(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ids, err := handler.libraryService.BookmarkedIDs(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ids)
}

// toggle handles POST /api/v1/library/toggle/{bookID}.
func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID := requestutil.ID(request, "bookID")

	validator := &validate.Validator{}
	if err := validator.UUID("bookID", bookID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.libraryService.Toggle(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// continueReading handles GET /api/v1/library/continue-reading.
func (handler *Handler) continueReading(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.libraryService.ContinueReading(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}
