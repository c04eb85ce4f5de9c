// Copyright (c) 2026 Quillshelf. All rights reserved.

// Service layer implementing the personal shelf use cases.
package library

import (
	"context"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
)

// Service implements the personal shelf use cases.
type Service struct {
	repository Repository
}

// NewService constructs a library [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
Toggle flips the bookmark for (user, book) and reports the result.

Description: Tries the insert first; a no-op insert means the bookmark
already existed, so it is removed instead. Clients flip their state
optimistically and reconcile against the returned membership, so toggling
twice always restores the original state.

Parameters:
  - ctx: context.Context
  - userID: the shelf owner
  - bookID: the book to flip

Returns:
  - ToggleResult: the membership after the flip
  - error: Database execution errors
*/
func (service *Service) Toggle(ctx context.Context, userID, bookID string) (ToggleResult, error) {
	inserted, err := service.repository.Add(ctx, userID, bookID)
	if err != nil {
		return ToggleResult{}, err
	}
	if inserted {
		return ToggleResult{BookID: bookID, Bookmarked: true}, nil
	}

	if _, err := service.repository.Remove(ctx, userID, bookID); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{BookID: bookID, Bookmarked: false}, nil
}

// BookmarkedIDs returns the user's full bookmarked id set in one fetch.
func (service *Service) BookmarkedIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := service.repository.ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Shelf returns the user's bookmarked books, newest bookmark first.
func (service *Service) Shelf(ctx context.Context, userID string) ([]*book.Book, error) {
	return service.repository.ListBooks(ctx, userID)
}

// ContinueReading returns books the user has read past page 1, most
// recently read first.
func (service *Service) ContinueReading(ctx context.Context, userID string) ([]*ContinueItem, error) {
	return service.repository.ListContinueReading(ctx, userID)
}
