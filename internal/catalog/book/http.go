// Copyright (c) 2026 Quillshelf. All rights reserved.

// HTTP delivery layer for the catalog.
package book

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quillshelf/quillshelf/internal/platform/constants"
	"github.com/quillshelf/quillshelf/internal/platform/middleware"
	requestutil "github.com/quillshelf/quillshelf/internal/platform/request"
	"github.com/quillshelf/quillshelf/internal/platform/respond"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
	"github.com/quillshelf/quillshelf/internal/platform/validate"
	"github.com/quillshelf/quillshelf/pkg/convert"
	"github.com/quillshelf/quillshelf/pkg/pagination"
	"github.com/quillshelf/quillshelf/pkg/pointer"
)

// maxUploadBytes caps a book upload (cover + document) at 64 MiB.
const maxUploadBytes = 64 << 20

// Handler implements the catalog HTTP endpoints.
type Handler struct {
	bookService *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{bookService: service}
}

// Routes returns a [chi.Router] with catalog routes.
//
// # Endpoints
//   - GET  /                   : Browse the published catalog (search/genre/sort/page).
//   - GET  /genres             : Distinct genres for the filter bar.
//   - GET  /slug/{slug}        : Detail view by URL slug.
//   - GET  /{bookID}           : Detail view by id.
//   - POST /                   : Upload a new book (author+).
//   - GET  /mine               : The caller's uploads, any status (author+).
//   - PUT  /{bookID}           : Edit metadata (uploader or admin).
//   - DELETE /{bookID}         : Soft-delete (uploader or admin).
//   - GET  /pending            : Publishing queue (admin+).
//   - POST /{bookID}/approve   : Publish a pending book (admin+).
//   - POST /{bookID}/reject    : Decline a pending book (admin+).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.browse)
	router.Get("/genres", handler.genres)
	router.Get("/slug/{slug}", handler.detailBySlug)

	router.Group(func(authorOnly chi.Router) {
		authorOnly.Use(middleware.RequireRole(sec.RoleAuthor))
		authorOnly.Post("/", handler.upload)
		authorOnly.Get("/mine", handler.myUploads)
		authorOnly.Put("/{bookID}", handler.edit)
		authorOnly.Delete("/{bookID}", handler.remove)
	})

	router.Group(func(adminOnly chi.Router) {
		adminOnly.Use(middleware.RequireRole(sec.RoleAdmin))
		adminOnly.Get("/pending", handler.pending)
		adminOnly.Post("/{bookID}/approve", handler.approve)
		adminOnly.Post("/{bookID}/reject", handler.reject)
	})

	// Registered last so /genres, /mine, /pending match their own handlers.
	router.Get("/{bookID}", handler.detail)

	return router
}

// browse handles GET /api/v1/books.
//
// # Query Parameters
//   - search: substring matched against title OR author (case-insensitive)
//   - genre:  exact genre, or "All"/empty for no filter
//   - sort:   newest | oldest | top_rated | alphabetical
//   - page, limit: window position
//
// The response meta carries has_more derived from the fetched length, which
// drives the client's incremental loader.
func (handler *Handler) browse(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequestDefault(request, constants.CatalogPageSize)

	descriptor := Query{
		Search: strings.TrimSpace(request.URL.Query().Get("search")),
		Genre:  strings.TrimSpace(request.URL.Query().Get("genre")),
		Sort:   Sort(request.URL.Query().Get("sort")),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	books, normalized, err := handler.bookService.Browse(request.Context(), descriptor)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	meta := pagination.NewPageMeta(normalized.Page, normalized.Limit, len(books))
	respond.Paginated(writer, books, meta)
}

// genres handles GET /api/v1/books/genres.
func (handler *Handler) genres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.bookService.Genres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, genres)
}

// detail handles GET /api/v1/books/{bookID}.
func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	validator := &validate.Validator{}
	if err := validator.UUID("bookID", bookID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.bookService.Detail(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// detailBySlug handles GET /api/v1/books/slug/{slug}.
func (handler *Handler) detailBySlug(writer http.ResponseWriter, request *http.Request) {
	bookSlug := requestutil.ID(request, "slug")

	validator := &validate.Validator{}
	if err := validator.Slug("slug", bookSlug).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.bookService.DetailBySlug(request.Context(), bookSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// upload handles POST /api/v1/books (multipart form).
//
// # Form Fields
//   - title, author, genre: required metadata
//   - description, series_name, series_order, page_count: optional
//   - cover: image file (.png/.jpg/.jpeg/.webp)
//   - document: the book document (.pdf)
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxUploadBytes)
	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(writer, request, validate.RequiredError("body", "must be a multipart upload under 64 MiB"))
		return
	}

	// ── 1. Metadata Validation ────────────────────────────────────────────

	title := strings.TrimSpace(request.FormValue("title"))
	author := strings.TrimSpace(request.FormValue("author"))
	genre := strings.TrimSpace(request.FormValue("genre"))
	seriesName := strings.TrimSpace(request.FormValue("series_name"))
	pageCount := convert.ToInt(request.FormValue("page_count"))

	var seriesOrder *int
	if raw := request.FormValue("series_order"); raw != "" {
		seriesOrder = pointer.To(convert.ToInt(raw))
	}

	validator := &validate.Validator{}
	validator.
		Required("title", title).
		MaxLen("title", title, 200).
		Required("author", author).
		MaxLen("author", author, 120).
		Required("genre", genre).
		Custom("page_count", pageCount < 0, "Must not be negative").
		Custom("series_order", seriesOrder != nil && *seriesOrder < 1, "Must be a positive volume number").
		Custom("series_order", seriesOrder != nil && seriesName == "", "Requires a series name")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Blob Extraction ────────────────────────────────────────────────

	cover, coverHeader, err := request.FormFile("cover")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("cover", "file is required"))
		return
	}
	defer cover.Close()

	document, documentHeader, err := request.FormFile("document")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("document", "file is required"))
		return
	}
	defer document.Close()

	coverExt := strings.ToLower(filepath.Ext(coverHeader.Filename))
	documentExt := strings.ToLower(filepath.Ext(documentHeader.Filename))

	fileValidator := &validate.Validator{}
	if err := fileValidator.
		OneOf("cover", coverExt, ".png", ".jpg", ".jpeg", ".webp").
		OneOf("document", documentExt, ".pdf").
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	created, err := handler.bookService.Upload(request.Context(), userID, UploadInput{
		Title:       title,
		Author:      author,
		Description: strings.TrimSpace(request.FormValue("description")),
		Genre:       genre,
		PageCount:   pageCount,
		SeriesName:  seriesName,
		SeriesOrder: seriesOrder,
		CoverExt:    coverExt,
		Cover:       cover,
		DocumentExt: documentExt,
		Document:    document,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// editRequest represents the JSON payload for a metadata edit.
type editRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	SeriesName  string `json:"series_name"`
	SeriesOrder *int   `json:"series_order"`
}

// edit handles PUT /api/v1/books/{bookID}.
func (handler *Handler) edit(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID := requestutil.ID(request, "bookID")

	var input editRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.
		UUID("bookID", bookID).
		Required("title", input.Title).
		MaxLen("title", input.Title, 200).
		Required("author", input.Author).
		Required("genre", input.Genre).
		Custom("series_order", input.SeriesOrder != nil && *input.SeriesOrder < 1, "Must be a positive volume number").
		Custom("series_order", input.SeriesOrder != nil && input.SeriesName == "", "Requires a series name").
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.bookService.Edit(request.Context(), claims.UserID, sec.UserRole(claims.Role), bookID, EditInput{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		Genre:       input.Genre,
		SeriesName:  input.SeriesName,
		SeriesOrder: input.SeriesOrder,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// remove handles DELETE /api/v1/books/{bookID}.
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
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

	if err := handler.bookService.Delete(request.Context(), claims.UserID, sec.UserRole(claims.Role), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// myUploads handles GET /api/v1/books/mine.
func (handler *Handler) myUploads(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	books, err := handler.bookService.MyUploads(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, books)
}

// pending handles GET /api/v1/books/pending.
func (handler *Handler) pending(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	books, err := handler.bookService.PendingQueue(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewPageMeta(params.Page, params.Limit, len(books)))
}

// approve handles POST /api/v1/books/{bookID}/approve.
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	validator := &validate.Validator{}
	if err := validator.UUID("bookID", bookID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.bookService.Approve(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// reject handles POST /api/v1/books/{bookID}/reject.
func (handler *Handler) reject(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	validator := &validate.Validator{}
	if err := validator.UUID("bookID", bookID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.bookService.Reject(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
