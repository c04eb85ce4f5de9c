// Copyright (c) 2026 Quillshelf. All rights reserved.

package request

import "context"

// Repository defines the data access contract for book requests.
type Repository interface {
	// Create persists a new request.
	Create(ctx context.Context, request *BookRequest) error

	// FindByID returns the request.
	//
	// Returns [apperr.NotFound] if the request does not exist.
	FindByID(ctx context.Context, id string) (*BookRequest, error)

	// ListByUser returns the user's requests, newest first.
	ListByUser(ctx context.Context, userID string) ([]*BookRequest, error)

	// List returns one page of requests, optionally filtered by status
	// (empty = all), newest first. Used by the admin panel.
	List(ctx context.Context, status Status, limit, offset int) ([]*BookRequest, error)

	// UpdateStatus moves a request through the workflow.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
