// Copyright (c) 2026 Quillshelf. All rights reserved.

package library

import (
	"context"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
)

// Repository defines the data access contract for the personal shelf.
type Repository interface {
	// Add bookmarks the book. Returns false when the bookmark already
	// existed (the insert is ON CONFLICT DO NOTHING).
	Add(ctx context.Context, userID, bookID string) (bool, error)

	// Remove deletes the bookmark. Returns false when there was none.
	Remove(ctx context.Context, userID, bookID string) (bool, error)

	// ListIDs returns the user's bookmarked book ids. Clients use the full
	// set to initialize their bookmark state in one fetch.
	ListIDs(ctx context.Context, userID string) ([]string, error)

	// ListBooks returns the user's bookmarked books, newest bookmark first.
	ListBooks(ctx context.Context, userID string) ([]*book.Book, error)

	// ListContinueReading returns books the user has read past page 1,
	// most recently read first.
	ListContinueReading(ctx context.Context, userID string) ([]*ContinueItem, error)
}
