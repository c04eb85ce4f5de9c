// Copyright (c) 2026 Quillshelf. All rights reserved.

package review

import "context"

// Repository defines the data access contract for reviews.
type Repository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *Review) error

	// FindByID returns the review, without hydrated joins.
	//
	// Returns [apperr.NotFound] if the review does not exist.
	FindByID(ctx context.Context, id string) (*Review, error)

	// Delete removes the review and its likes and flags.
	Delete(ctx context.Context, id string) error

	// ListByBook returns one page of a book's reviews, newest first, with
	// like counts and reviewer profiles hydrated.
	ListByBook(ctx context.Context, bookID string, limit, offset int) ([]*Review, error)

	// Count returns the total number of reviews, for the dashboard.
	Count(ctx context.Context) (int, error)
}

// LikeRepository defines the data access contract for review likes.
type LikeRepository interface {
	// Add likes the review. Returns false when the like already existed
	// (the insert is ON CONFLICT DO NOTHING).
	Add(ctx context.Context, reviewID, userID string) (bool, error)

	// Remove unlikes the review. Returns false when there was no like.
	Remove(ctx context.Context, reviewID, userID string) (bool, error)

	// Count returns the review's current like count.
	Count(ctx context.Context, reviewID string) (int, error)

	// LikedIDs returns which of the book's reviews the user has liked.
	LikedIDs(ctx context.Context, userID, bookID string) ([]string, error)
}

// FlagRepository defines the data access contract for review flags.
type FlagRepository interface {
	// Create persists a flag. A duplicate (review, user) pair surfaces the
	// underlying unique violation for the service to classify.
	Create(ctx context.Context, flag *Flag) error

	// ListFlagged returns reviews with open flags, most-flagged first.
	ListFlagged(ctx context.Context, limit, offset int) ([]*Flagged, error)

	// Dismiss closes every open flag on the review.
	Dismiss(ctx context.Context, reviewID string) error
}
