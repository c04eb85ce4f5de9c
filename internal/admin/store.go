// Copyright (c) 2026 Quillshelf. All rights reserved.

package admin

import "context"

// Repository defines the data access contract for the admin surface.
type Repository interface {
	// CreateAccessRequest persists a pending request. A duplicate pending
	// request trips the partial unique index; the raw error surfaces for
	// the service to classify.
	CreateAccessRequest(ctx context.Context, request *AccessRequest) error

	// FindAccessRequest returns the request.
	//
	// Returns [apperr.NotFound] if the request does not exist.
	FindAccessRequest(ctx context.Context, id string) (*AccessRequest, error)

	// FindAccessRequestByUser returns the user's most recent request.
	FindAccessRequestByUser(ctx context.Context, userID string) (*AccessRequest, error)

	// ListAccessRequests returns requests in the given state, oldest first
	// so the queue is worked in arrival order.
	ListAccessRequests(ctx context.Context, status AccessStatus, limit, offset int) ([]*AccessRequest, error)

	// DecideAccessRequest stamps the decision onto the request.
	DecideAccessRequest(ctx context.Context, id string, status AccessStatus, decidedBy string) error

	// ListAuthors returns every active account holding the author role.
	ListAuthors(ctx context.Context) ([]*Author, error)

	// CountUsers returns the number of active accounts.
	CountUsers(ctx context.Context) (int, error)
}
