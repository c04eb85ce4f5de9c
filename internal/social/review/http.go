// Copyright (c) 2026 Quillshelf. All rights reserved.

// HTTP delivery layer for reviews.
package review

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quillshelf/quillshelf/internal/platform/constants"
	"github.com/quillshelf/quillshelf/internal/platform/middleware"
	requestutil "github.com/quillshelf/quillshelf/internal/platform/request"
	"github.com/quillshelf/quillshelf/internal/platform/respond"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
	"github.com/quillshelf/quillshelf/internal/platform/validate"
	"github.com/quillshelf/quillshelf/pkg/pagination"
)

// Handler implements the review HTTP endpoints.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] with review routes.
//
// # Endpoints
//   - GET    /book/{bookID}           : One page of a book's reviews.
//   - POST   /book/{bookID}           : Post a review (auth).
//   - DELETE /{reviewID}              : Delete own review (auth).
//   - POST   /{reviewID}/like         : Toggle a like (auth).
//   - POST   /{reviewID}/flag         : Report a review (auth).
//   - GET    /flagged                 : Moderation queue (admin+).
//   - POST   /{reviewID}/dismiss      : Close open flags (admin+).
//   - DELETE /{reviewID}/moderate     : Remove a flagged review (admin+).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/book/{bookID}", handler.listByBook)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Post("/book/{bookID}", handler.post)
		authed.Delete("/{reviewID}", handler.remove)
		authed.Post("/{reviewID}/like", handler.toggleLike)
		authed.Post("/{reviewID}/flag", handler.flag)
	})

	router.Group(func(adminOnly chi.Router) {
		adminOnly.Use(middleware.RequireRole(sec.RoleAdmin))
		adminOnly.Get("/flagged", handler.listFlagged)
		adminOnly.Post("/{reviewID}/dismiss", handler.dismissFlags)
		adminOnly.Delete("/{reviewID}/moderate", handler.moderateRemove)
	})

	return router
}

// listByBook handles GET /api/v1/reviews/book/{bookID}.
//
// A signed-in viewer's liked-review ids ride along with the page so the
// client rebuilds its like state in one fetch.
func (handler *Handler) listByBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	validator := &validate.Validator{}
	if err := validator.UUID("bookID", bookID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequestDefault(request, constants.ReviewPageSize)

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	page, err := handler.reviewService.ListByBook(request.Context(), bookID, viewerID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page, pagination.NewPageMeta(params.Page, params.Limit, len(page.Reviews)))
}

// postRequest is the JSON payload for posting a review.
type postRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// post handles POST /api/v1/reviews/book/{bookID}.
func (handler *Handler) post(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID := requestutil.ID(request, "bookID")

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Comment = strings.TrimSpace(input.Comment)

	validator := &validate.Validator{}
	if err := validator.
		UUID("bookID", bookID).
		Range("rating", input.Rating, 1, 5).
		Required("comment", input.Comment).
		MaxLen("comment", input.Comment, 2000).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.reviewService.Post(request.Context(), userID, bookID, input.Rating, input.Comment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// remove handles DELETE /api/v1/reviews/{reviewID}.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID := requestutil.ID(request, "reviewID")

	validator := &validate.Validator{}
	if err := validator.UUID("reviewID", reviewID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.Delete(request.Context(), claims.UserID, sec.UserRole(claims.Role), reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// toggleLike handles POST /api/v1/reviews/{reviewID}/like.
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID := requestutil.ID(request, "reviewID")

	validator := &validate.Validator{}
	if err := validator.UUID("reviewID", reviewID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.reviewService.ToggleLike(request.Context(), userID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// flagRequest is the JSON payload for reporting a review.
type flagRequest struct {
	Reason string `json:"reason"`
}

// flag handles POST /api/v1/reviews/{reviewID}/flag.
func (handler *Handler) flag(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID := requestutil.ID(request, "reviewID")

	var input flagRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Reason = strings.TrimSpace(input.Reason)

	validator := &validate.Validator{}
	if err := validator.
		UUID("reviewID", reviewID).
		Required("reason", input.Reason).
		MaxLen("reason", input.Reason, 500).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.Flag(request.Context(), userID, reviewID, input.Reason); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// listFlagged handles GET /api/v1/reviews/flagged.
func (handler *Handler) listFlagged(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	flagged, err := handler.reviewService.ListFlagged(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, flagged, pagination.NewPageMeta(params.Page, params.Limit, len(flagged)))
}

// dismissFlags handles POST /api/v1/reviews/{reviewID}/dismiss.
func (handler *Handler) dismissFlags(writer http.ResponseWriter, request *http.Request) {
	reviewID := requestutil.ID(request, "reviewID")

	validator := &validate.Validator{}
	if err := validator.UUID("reviewID", reviewID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DismissFlags(request.Context(), reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// moderateRemove handles DELETE /api/v1/reviews/{reviewID}/moderate.
func (handler *Handler) moderateRemove(writer http.ResponseWriter, request *http.Request) {
	reviewID := requestutil.ID(request, "reviewID")

	validator := &validate.Validator{}
	if err := validator.UUID("reviewID", reviewID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.RemoveReview(request.Context(), reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
