// Copyright (c) 2026 Quillshelf. All rights reserved.

// Service layer implementing the catalog use cases.
package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/constants"
	"github.com/quillshelf/quillshelf/internal/platform/ctxutil"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
	"github.com/quillshelf/quillshelf/internal/platform/storage"
	"github.com/quillshelf/quillshelf/pkg/slice"
	"github.com/quillshelf/quillshelf/pkg/slug"
	"github.com/quillshelf/quillshelf/pkg/uuidv7"
)

// Service implements the catalog use cases: discovery, detail hydration,
// and the upload/publish workflow.
type Service struct {
	repository Repository
	blobs      storage.Store
}

// NewService constructs a catalog [Service].
func NewService(repository Repository, blobs storage.Store) *Service {
	return &Service{repository: repository, blobs: blobs}
}

// Browse returns one catalog window for the given descriptor.
//
// # Normalization
//
// The descriptor is normalized before it reaches storage: unknown sort keys
// fall back to newest, page and limit are clamped. Two normalized-equal
// descriptors always describe the same list.
func (service *Service) Browse(ctx context.Context, query Query) ([]*Book, Query, error) {
	if !query.Sort.IsValid() {
		query.Sort = SortNewest
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 || query.Limit > constants.CatalogPageSize*10 {
		query.Limit = constants.CatalogPageSize
	}

	books, err := service.repository.List(ctx, query)
	if err != nil {
		return nil, query, err
	}

	return books, query, nil
}

// Genres lists the distinct genres available in the published catalog.
func (service *Service) Genres(ctx context.Context) ([]string, error) {
	genres, err := service.repository.Genres(ctx)
	if err != nil {
		return nil, err
	}

	// Legacy rows imported with an empty genre must not become a filter option.
	return slice.Filter(genres, func(genre string) bool { return genre != "" }), nil
}

// Detail hydrates the full detail view: the book, its series shelf, and
// same-genre recommendations.
//
// # Degradation
//
// Series and related lookups are decorations; their failure is logged and
// the detail view ships without them rather than failing the whole page.
func (service *Service) Detail(ctx context.Context, id string) (*Detail, error) {
	found, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Book: found}
	logger := ctxutil.GetLogger(ctx)

	if found.SeriesName != "" {
		series, err := service.repository.ListSeries(ctx, found.SeriesName)
		if err != nil {
			logger.WarnContext(ctx, "book_series_fetch_failed",
				slog.String("book_id", found.ID), slog.Any("error", err))
		} else if len(series) > 1 {
			detail.Series = series
		}
	}

	related, err := service.repository.ListRelated(ctx, found.Genre, found.ID, constants.RelatedBooksLimit)
	if err != nil {
		logger.WarnContext(ctx, "book_related_fetch_failed",
			slog.String("book_id", found.ID), slog.Any("error", err))
	} else {
		detail.Related = related
	}

	return detail, nil
}

// DetailBySlug resolves a slug to its detail view.
func (service *Service) DetailBySlug(ctx context.Context, bookSlug string) (*Detail, error) {
	found, err := service.repository.FindBySlug(ctx, bookSlug)
	if err != nil {
		return nil, err
	}
	return service.Detail(ctx, found.ID)
}

// UploadInput holds the metadata and blobs for a new catalog entry.
type UploadInput struct {
	Title       string
	Author      string
	Description string
	Genre       string
	PageCount   int
	SeriesName  string
	SeriesOrder *int

	CoverExt    string
	Cover       io.Reader
	DocumentExt string
	Document    io.Reader
}

// Upload stores the blobs and creates a pending catalog entry.
//
// # Flow
//  1. Persist cover and document blobs (keyed by the new book id).
//  2. Insert the book row with status Pending.
//  3. An admin decision later moves it to Published or Rejected.
func (service *Service) Upload(ctx context.Context, uploaderID string, input UploadInput) (*Book, error) {
	id := uuidv7.New()

	coverURL, err := service.blobs.Save(ctx, constants.BucketCovers, id+input.CoverExt, input.Cover)
	if err != nil {
		return nil, fmt.Errorf("book_service_cover_save_failed: %w", err)
	}

	documentURL, err := service.blobs.Save(ctx, constants.BucketBooks, id+input.DocumentExt, input.Document)
	if err != nil {
		return nil, fmt.Errorf("book_service_document_save_failed: %w", err)
	}

	entry := &Book{
		ID:          id,
		Title:       input.Title,
		Author:      input.Author,
		Slug:        slug.From(input.Title) + "-" + id[len(id)-6:],
		Description: input.Description,
		Genre:       input.Genre,
		CoverURL:    coverURL,
		DocumentURL: documentURL,
		PageCount:   input.PageCount,
		SeriesName:  input.SeriesName,
		SeriesOrder: input.SeriesOrder,
		Status:      StatusPending,
		UploaderID:  uploaderID,
	}

	if err := service.repository.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// EditInput holds the mutable catalog fields for an edit.
type EditInput struct {
	Title       string
	Author      string
	Description string
	Genre       string
	SeriesName  string
	SeriesOrder *int
}

// Edit updates a book's metadata.
//
// # Authorization
//
// The uploader may edit their own book; moderators may edit any book.
func (service *Service) Edit(ctx context.Context, actorID string, actorRole sec.UserRole, id string, input EditInput) (*Book, error) {
	existing, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.UploaderID != actorID && !actorRole.CanModerate() {
		return nil, apperr.Forbidden("You can only edit your own books")
	}

	existing.Title = input.Title
	existing.Author = input.Author
	existing.Description = input.Description
	existing.Genre = input.Genre
	existing.SeriesName = input.SeriesName
	existing.SeriesOrder = input.SeriesOrder

	if err := service.repository.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete soft-deletes a book, same ownership rule as [Edit].
func (service *Service) Delete(ctx context.Context, actorID string, actorRole sec.UserRole, id string) error {
	existing, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.UploaderID != actorID && !actorRole.CanModerate() {
		return apperr.Forbidden("You can only delete your own books")
	}

	return service.repository.SoftDelete(ctx, id)
}

// PendingQueue returns the admin publishing queue.
func (service *Service) PendingQueue(ctx context.Context, limit, offset int) ([]*Book, error) {
	return service.repository.ListByStatus(ctx, StatusPending, limit, offset)
}

// Approve publishes a pending book.
func (service *Service) Approve(ctx context.Context, id string) error {
	existing, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == StatusPublished {
		return apperr.Conflict("Book is already published")
	}

	return service.repository.UpdateStatus(ctx, id, StatusPublished)
}

// Reject declines a pending book.
func (service *Service) Reject(ctx context.Context, id string) error {
	if _, err := service.repository.FindByID(ctx, id); err != nil {
		return err
	}
	return service.repository.UpdateStatus(ctx, id, StatusRejected)
}

// MyUploads lists the caller's own uploads, any status.
func (service *Service) MyUploads(ctx context.Context, uploaderID string) ([]*Book, error) {
	return service.repository.ListByUploader(ctx, uploaderID)
}

// Count exposes the dashboard counters.
func (service *Service) Count(ctx context.Context) (Stats, error) {
	return service.repository.Count(ctx)
}
