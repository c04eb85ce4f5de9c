// Copyright (c) 2026 Quillshelf. All rights reserved.

// Service layer implementing the administration use cases.
package admin

import (
	"context"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/dberr"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
	"github.com/quillshelf/quillshelf/pkg/uuidv7"
)

// RoleManager is the slice of the user store the admin surface needs:
// moving accounts between roles.
type RoleManager interface {
	UpdateRole(ctx context.Context, userID string, role sec.UserRole) error
}

// BookCounter exposes the catalog counters for the dashboard.
type BookCounter interface {
	Count(ctx context.Context) (book.Stats, error)
}

// ReviewCounter exposes the review counter for the dashboard.
type ReviewCounter interface {
	Count(ctx context.Context) (int, error)
}

// Service implements the administration use cases.
type Service struct {
	repository Repository
	roles      RoleManager
	books      BookCounter
	reviews    ReviewCounter
}

// NewService constructs an admin [Service].
func NewService(repository Repository, roles RoleManager, books BookCounter, reviews ReviewCounter) *Service {
	return &Service{
		repository: repository,
		roles:      roles,
		books:      books,
		reviews:    reviews,
	}
}

/*
SubmitAccessRequest files an author-access request for the user.

Description: At most one pending request exists per user; a repeat submit
trips the partial unique index and returns a Conflict with a distinct
"already requested" message. A user whose earlier request was decided may
apply again.

Parameters:
  - ctx: context.Context
  - userID: the applicant
  - message: the applicant's pitch, optional

Returns:
  - *AccessRequest: the pending request
  - error: Conflict on a duplicate pending request
*/
func (service *Service) SubmitAccessRequest(ctx context.Context, userID, message string) (*AccessRequest, error) {
	entry := &AccessRequest{
		ID:      uuidv7.New(),
		UserID:  userID,
		Message: message,
		Status:  AccessPending,
	}

	if err := service.repository.CreateAccessRequest(ctx, entry); err != nil {
		return nil, dberr.Wrap(err, "You have already requested author access")
	}

	return entry, nil
}

// MyAccessRequest returns the caller's most recent request.
func (service *Service) MyAccessRequest(ctx context.Context, userID string) (*AccessRequest, error) {
	return service.repository.FindAccessRequestByUser(ctx, userID)
}

// PendingAccessRequests returns the approval queue in arrival order.
func (service *Service) PendingAccessRequests(ctx context.Context, limit, offset int) ([]*AccessRequest, error) {
	return service.repository.ListAccessRequests(ctx, AccessPending, limit, offset)
}

// Approve grants the applicant the author role and stamps the decision.
func (service *Service) Approve(ctx context.Context, adminID, requestID string) error {
	request, err := service.repository.FindAccessRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != AccessPending {
		return apperr.Conflict("Access request is already decided")
	}

	if err := service.roles.UpdateRole(ctx, request.UserID, sec.RoleAuthor); err != nil {
		return err
	}

	return service.repository.DecideAccessRequest(ctx, requestID, AccessApproved, adminID)
}

// Reject declines a pending request without touching the role.
func (service *Service) Reject(ctx context.Context, adminID, requestID string) error {
	request, err := service.repository.FindAccessRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != AccessPending {
		return apperr.Conflict("Access request is already decided")
	}

	return service.repository.DecideAccessRequest(ctx, requestID, AccessRejected, adminID)
}

// Revoke demotes an approved author back to a regular user and marks their
// request revoked.
func (service *Service) Revoke(ctx context.Context, adminID, requestID string) error {
	request, err := service.repository.FindAccessRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status != AccessApproved {
		return apperr.Conflict("Only approved access can be revoked")
	}

	if err := service.roles.UpdateRole(ctx, request.UserID, sec.RoleUser); err != nil {
		return err
	}

	return service.repository.DecideAccessRequest(ctx, requestID, AccessRevoked, adminID)
}

// Authors returns the active author roster.
func (service *Service) Authors(ctx context.Context) ([]*Author, error) {
	return service.repository.ListAuthors(ctx)
}

// Dashboard assembles the count-only queries behind the admin dashboard.
func (service *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	users, err := service.repository.CountUsers(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	bookStats, err := service.books.Count(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	reviews, err := service.reviews.Count(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		Users:          users,
		BooksPublished: bookStats.Published,
		BooksPending:   bookStats.Pending,
		Reviews:        reviews,
	}, nil
}
