// Copyright (c) 2026 Quillshelf. All rights reserved.

package book

import "context"

// Repository defines the data access contract for the catalog.
//
// # Implementations
//
// The canonical implementation is PostgreSQL; tests use in-memory fakes.
type Repository interface {
	// List returns one window of published books matching the descriptor.
	//
	// The slice length never exceeds query.Limit; a shorter slice signals
	// exhaustion to the caller.
	List(ctx context.Context, query Query) ([]*Book, error)

	// FindByID returns the book with the given ID regardless of status.
	//
	// Returns [apperr.NotFound] if the book does not exist.
	FindByID(ctx context.Context, id string) (*Book, error)

	// FindBySlug returns the published book with the given slug.
	FindBySlug(ctx context.Context, slug string) (*Book, error)

	// ListSeries returns every published volume of a series ordered by
	// series order, then title.
	ListSeries(ctx context.Context, seriesName string) ([]*Book, error)

	// ListRelated returns up to limit published books sharing the genre,
	// excluding the given book.
	ListRelated(ctx context.Context, genre, excludeID string, limit int) ([]*Book, error)

	// ListByStatus returns books in the given state, newest first.
	// Used by the admin publishing queue.
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Book, error)

	// ListByUploader returns every non-deleted book uploaded by the user.
	ListByUploader(ctx context.Context, uploaderID string) ([]*Book, error)

	// Genres returns the distinct genres of published books, sorted.
	Genres(ctx context.Context) ([]string, error)

	// Create persists a new catalog entry.
	Create(ctx context.Context, book *Book) error

	// Update persists changes to the mutable catalog fields.
	Update(ctx context.Context, book *Book) error

	// UpdateStatus moves a book through the publishing workflow, stamping
	// publishedat when the new status is Published.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// SoftDelete hides the book from every listing without removing the row.
	SoftDelete(ctx context.Context, id string) error

	// Count returns the published/pending counters for the dashboard.
	Count(ctx context.Context) (Stats, error)
}
