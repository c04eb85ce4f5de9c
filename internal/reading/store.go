// Copyright (c) 2026 Quillshelf. All rights reserved.

package reading

import "context"

// ProgressRepository defines the data access contract for reading progress.
type ProgressRepository interface {
	// Upsert writes the position for (user, book), inserting on first read
	// and updating in place after. LastReadAt is stamped by the store.
	Upsert(ctx context.Context, progress *Progress) error

	// Find returns the stored position for (user, book).
	//
	// Returns [apperr.NotFound] if the user has never opened the book.
	Find(ctx context.Context, userID, bookID string) (*Progress, error)

	// Delete removes the stored position. Unknown rows are a no-op.
	Delete(ctx context.Context, userID, bookID string) error
}
