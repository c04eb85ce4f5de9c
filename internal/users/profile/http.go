// Copyright (c) 2026 Quillshelf. All rights reserved.

package profile

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillshelf/quillshelf/internal/platform/middleware"
	requestutil "github.com/quillshelf/quillshelf/internal/platform/request"
	"github.com/quillshelf/quillshelf/internal/platform/respond"
	"github.com/quillshelf/quillshelf/internal/platform/validate"
)

// maxAvatarBytes caps avatar uploads at 2 MiB.
const maxAvatarBytes = 2 << 20

// Handler implements the profile HTTP endpoints.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// Routes returns a [chi.Router] with profile routes.
//
// # Endpoints
//   - GET  /me        : The authenticated reader's profile.
//   - PUT  /me        : Update nickname, real name, date of birth.
//   - POST /me/avatar : Multipart avatar upload.
//   - GET  /{userID}  : Public profile of another reader.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{userID}", handler.getPublic)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.getOwn)
		protected.Put("/me", handler.update)
		protected.Post("/me/avatar", handler.uploadAvatar)
	})

	return router
}

// getOwn handles GET /api/v1/profiles/me.
func (handler *Handler) getOwn(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// getPublic handles GET /api/v1/profiles/{userID}.
func (handler *Handler) getPublic(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userID")

	validator := &validate.Validator{}
	if err := validator.UUID("userID", userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Real name and date of birth stay private.
	respond.OK(writer, &Profile{
		UserID:    profile.UserID,
		Nickname:  profile.Nickname,
		AvatarURL: profile.AvatarURL,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	})
}

// updateRequest represents the JSON payload for a profile update.
type updateRequest struct {
	Nickname    string `json:"nickname"`
	RealName    string `json:"real_name"`
	DateOfBirth string `json:"date_of_birth"` // RFC 3339 date, e.g. "1990-04-21"
}

// update handles PUT /api/v1/profiles/me.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("nickname", input.Nickname).
		MaxLen("nickname", input.Nickname, 50).
		MaxLen("real_name", input.RealName, 100)

	var dateOfBirth *time.Time
	if input.DateOfBirth != "" {
		parsed, parseErr := time.Parse("2006-01-02", input.DateOfBirth)
		validator.Custom("date_of_birth", parseErr != nil, "Must be a date in YYYY-MM-DD format")
		if parseErr == nil {
			dateOfBirth = &parsed
		}
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.profileService.Update(request.Context(), userID, UpdateInput{
		Nickname:    input.Nickname,
		RealName:    input.RealName,
		DateOfBirth: dateOfBirth,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// uploadAvatar handles POST /api/v1/profiles/me/avatar (multipart form,
// field name "avatar").
func (handler *Handler) uploadAvatar(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxAvatarBytes)
	if err := request.ParseMultipartForm(maxAvatarBytes); err != nil {
		respond.Error(writer, request, validate.RequiredError("avatar", "must be a multipart upload under 2 MiB"))
		return
	}

	file, header, err := request.FormFile("avatar")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("avatar", "file is required"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	validator := &validate.Validator{}
	if err := validator.OneOf("avatar", ext, ".png", ".jpg", ".jpeg", ".webp").Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	url, err := handler.profileService.UploadAvatar(request.Context(), userID, ext, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"avatar_url": url})
}
