// Copyright (c) 2026 Quillshelf. All rights reserved.

// HTTP delivery layer for reading sessions.
package reading

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillshelf/quillshelf/internal/platform/middleware"
	requestutil "github.com/quillshelf/quillshelf/internal/platform/request"
	"github.com/quillshelf/quillshelf/internal/platform/respond"
	"github.com/quillshelf/quillshelf/internal/platform/validate"
)

// Handler implements the reading session HTTP endpoints.
type Handler struct {
	readingService *Service
}

// NewHandler constructs a new reading [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{readingService: service}
}

// Routes returns a [chi.Router] with reading routes.
//
// # Endpoints
//   - POST /{bookID}/open     : Open a session (anonymous allowed).
//   - POST /{bookID}/navigate : Move inside an open session.
//   - POST /{bookID}/close    : End a session.
//   - GET  /{bookID}/progress : The caller's stored position (auth).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/{bookID}/open", handler.open)
	router.Post("/{bookID}/navigate", handler.navigate)
	router.Post("/{bookID}/close", handler.close)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Get("/{bookID}/progress", handler.progress)
	})

	return router
}

// open handles POST /api/v1/reading/{bookID}/open.
//
// Signed-in callers resume from their stored page; anonymous callers receive
// a generated reader_id they must echo on navigate and close.
func (handler *Handler) open(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	validator := &validate.Validator{}
	if err := validator.UUID("bookID", bookID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := ""
	if claims := requestutil.Claims(request); claims != nil {
		userID = claims.UserID
	}

	view, err := handler.readingService.Open(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

// navigateRequest carries one of three move styles: a relative delta, an
// absolute page, or the raw text of a page input box.
type navigateRequest struct {
	ReaderID string  `json:"reader_id"`
	Delta    *int    `json:"delta"`
	Page     *int    `json:"page"`
	Input    *string `json:"input"`
}

// navigate handles POST /api/v1/reading/{bookID}/navigate.
func (handler *Handler) navigate(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	var input navigateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	readerID := handler.readerID(request, input.ReaderID)

	moves := 0
	for _, set := range []bool{input.Delta != nil, input.Page != nil, input.Input != nil} {
		if set {
			moves++
		}
	}

	validator := &validate.Validator{}
	if err := validator.
		UUID("bookID", bookID).
		Required("reader_id", readerID).
		Custom("delta", moves != 1, "Provide exactly one of delta, page, input").
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var view *View
	var err error
	switch {
	case input.Delta != nil:
		view, err = handler.readingService.Navigate(request.Context(), readerID, bookID, *input.Delta)
	case input.Page != nil:
		view, err = handler.readingService.JumpTo(request.Context(), readerID, bookID, *input.Page)
	default:
		view, err = handler.readingService.JumpToInput(request.Context(), readerID, bookID, *input.Input)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// closeRequest identifies the session to end.
type closeRequest struct {
	ReaderID string `json:"reader_id"`
}

// close handles POST /api/v1/reading/{bookID}/close. Closing an unknown
// session succeeds; the operation is idempotent.
func (handler *Handler) close(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	var input closeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	readerID := handler.readerID(request, input.ReaderID)

	validator := &validate.Validator{}
	if err := validator.
		UUID("bookID", bookID).
		Required("reader_id", readerID).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.readingService.Close(request.Context(), readerID, bookID)
	respond.NoContent(writer)
}

// progress handles GET /api/v1/reading/{bookID}/progress.
func (handler *Handler) progress(writer http.ResponseWriter, request *http.Request) {
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

	stored, err := handler.readingService.Progress(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stored)
}

// readerID resolves the session owner: the authenticated user id wins over
// the body value, so a signed-in caller can never steer another session.
func (handler *Handler) readerID(request *http.Request, bodyReaderID string) string {
	if claims := requestutil.Claims(request); claims != nil {
		return claims.UserID
	}
	return bodyReaderID
}
