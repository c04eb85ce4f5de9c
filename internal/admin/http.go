// Copyright (c) 2026 Quillshelf. All rights reserved.

// HTTP delivery layer for the administration surface.
package admin

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

// Handler implements the admin HTTP endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] with admin routes.
//
// # Endpoints
//   - POST /access-requests              : Ask for author access (auth).
//   - GET  /access-requests/mine         : The caller's request (auth).
//   - GET  /access-requests              : Pending queue (admin+).
//   - POST /access-requests/{id}/approve : Grant author role (admin+).
//   - POST /access-requests/{id}/reject  : Decline (admin+).
//   - POST /access-requests/{id}/revoke  : Demote an author (super admin).
//   - GET  /authors                      : Author roster (admin+).
//   - GET  /dashboard                    : Platform counters (admin+).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/access-requests", handler.submitAccessRequest)
	router.Get("/access-requests/mine", handler.myAccessRequest)

	router.Group(func(adminOnly chi.Router) {
		adminOnly.Use(middleware.RequireRole(sec.RoleAdmin))
		adminOnly.Get("/access-requests", handler.pendingAccessRequests)
		adminOnly.Post("/access-requests/{requestID}/approve", handler.approve)
		adminOnly.Post("/access-requests/{requestID}/reject", handler.reject)
		adminOnly.Get("/authors", handler.authors)
		adminOnly.Get("/dashboard", handler.dashboard)
	})

	router.Group(func(superOnly chi.Router) {
		superOnly.Use(middleware.RequireRole(sec.RoleSuperAdmin))
		superOnly.Post("/access-requests/{requestID}/revoke", handler.revoke)
	})

	return router
}

// accessRequestBody is the JSON payload for an author-access application.
type accessRequestBody struct {
	Message string `json:"message"`
}

// submitAccessRequest handles POST /api/v1/admin/access-requests.
func (handler *Handler) submitAccessRequest(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input accessRequestBody
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Message = strings.TrimSpace(input.Message)

	validator := &validate.Validator{}
	if err := validator.MaxLen("message", input.Message, 1000).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.adminService.SubmitAccessRequest(request.Context(), userID, input.Message)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// myAccessRequest handles GET /api/v1/admin/access-requests/mine.
func (handler *Handler) myAccessRequest(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.adminService.MyAccessRequest(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// pendingAccessRequests handles GET /api/v1/admin/access-requests.
func (handler *Handler) pendingAccessRequests(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	requests, err := handler.adminService.PendingAccessRequests(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, pagination.NewPageMeta(params.Page, params.Limit, len(requests)))
}

// decide runs one admin decision endpoint.
func (handler *Handler) decide(writer http.ResponseWriter, request *http.Request, decision func(adminID, requestID string) error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requestID := requestutil.ID(request, "requestID")

	validator := &validate.Validator{}
	if err := validator.UUID("requestID", requestID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := decision(claims.UserID, requestID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// approve handles POST /api/v1/admin/access-requests/{requestID}/approve.
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	handler.decide(writer, request, func(adminID, requestID string) error {
		return handler.adminService.Approve(request.Context(), adminID, requestID)
	})
}

// reject handles POST /api/v1/admin/access-requests/{requestID}/reject.
func (handler *Handler) reject(writer http.ResponseWriter, request *http.Request) {
	handler.decide(writer, request, func(adminID, requestID string) error {
		return handler.adminService.Reject(request.Context(), adminID, requestID)
	})
}

// revoke handles POST /api/v1/admin/access-requests/{requestID}/revoke.
func (handler *Handler) revoke(writer http.ResponseWriter, request *http.Request) {
	handler.decide(writer, request, func(adminID, requestID string) error {
		return handler.adminService.Revoke(request.Context(), adminID, requestID)
	})
}

// authors handles GET /api/v1/admin/authors.
func (handler *Handler) authors(writer http.ResponseWriter, request *http.Request) {
	roster, err := handler.adminService.Authors(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, roster)
}

// dashboard handles GET /api/v1/admin/dashboard.
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.adminService.Dashboard(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}
