// Copyright (c) 2026 Quillshelf. All rights reserved.

// HTTP delivery layer for book requests.
package request

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quillshelf/quillshelf/internal/platform/middleware"
	requestutil "github.com/quillshelf/quillshelf/internal/platform/request"
	"github.com/quillshelf/quillshelf/internal/platform/respond"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
	"github.com/quillshelf/quillshelf/internal/platform/validate"
	"github.com/quillshelf/quillshelf/pkg/pagination"
)

// Handler implements the book request HTTP endpoints.
type Handler struct {
	requestService *Service
}

// NewHandler constructs a new request [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{requestService: service}
}

// Routes returns a [chi.Router] with request routes.
//
// # Endpoints
//   - POST /              : Submit a request (auth).
//   - GET  /mine          : The caller's requests (auth).
//   - GET  /              : All requests, filterable (admin+).
//   - PUT  /{requestID}   : Resolve a request (admin+).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.submit)
	router.Get("/mine", handler.mine)

	router.Group(func(adminOnly chi.Router) {
		adminOnly.Use(middleware.RequireRole(sec.RoleAdmin))
		adminOnly.Get("/", handler.list)
		adminOnly.Put("/{requestID}", handler.resolve)
	})

	return router
}

// submitRequest is the JSON payload for filing a book request.
type submitRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Note   string `json:"note"`
}

// submit handles POST /api/v1/requests.
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Author = strings.TrimSpace(input.Author)
	input.Note = strings.TrimSpace(input.Note)

	validator := &validate.Validator{}
	if err := validator.
		Required("title", input.Title).
		MaxLen("title", input.Title, 200).
		MaxLen("author", input.Author, 120).
		MaxLen("note", input.Note, 1000).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.requestService.Submit(request.Context(), userID, SubmitInput{
		Title:  input.Title,
		Author: input.Author,
		Note:   input.Note,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// mine handles GET /api/v1/requests/mine.
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requests, err := handler.requestService.Mine(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, requests)
}

// list handles GET /api/v1/requests.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	status := Status(request.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		respond.Error(writer, request, validate.RequiredError("status", "Unknown request status"))
		return
	}

	requests, err := handler.requestService.List(request.Context(), status, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, pagination.NewPageMeta(params.Page, params.Limit, len(requests)))
}

// resolveRequest is the JSON payload for the admin decision.
type resolveRequest struct {
	Status Status `json:"status"`
}

// resolve handles PUT /api/v1/requests/{requestID}.
func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {
	requestID := requestutil.ID(request, "requestID")

	var input resolveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.
		UUID("requestID", requestID).
		Custom("status", !input.Status.IsValid(), "Unknown request status").
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	resolved, err := handler.requestService.Resolve(request.Context(), requestID, input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, resolved)
}
