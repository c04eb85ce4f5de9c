// Copyright (c) 2026 Quillshelf. All rights reserved.

package admin

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
)

// fakeRepository is an in-memory [Repository] enforcing the pending-per-user
// rule the way the partial unique index does.
type fakeRepository struct {
	requests map[string]*AccessRequest
	users    int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{requests: make(map[string]*AccessRequest), users: 10}
}

func (f *fakeRepository) CreateAccessRequest(_ context.Context, request *AccessRequest) error {
	for _, existing := range f.requests {
		if existing.UserID == request.UserID && existing.Status == AccessPending {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	f.requests[request.ID] = request
	return nil
}

func (f *fakeRepository) FindAccessRequest(_ context.Context, id string) (*AccessRequest, error) {
	found, ok := f.requests[id]
	if !ok {
		return nil, apperr.NotFound("Access request")
	}
	return found, nil
}

func (f *fakeRepository) FindAccessRequestByUser(_ context.Context, userID string) (*AccessRequest, error) {
	for _, existing := range f.requests {
		if existing.UserID == userID {
			return existing, nil
		}
	}
	return nil, apperr.NotFound("Access request")
}

func (f *fakeRepository) ListAccessRequests(_ context.Context, status AccessStatus, _, _ int) ([]*AccessRequest, error) {
	var matched []*AccessRequest
	for _, existing := range f.requests {
		if existing.Status == status {
			matched = append(matched, existing)
		}
	}
	return matched, nil
}

func (f *fakeRepository) DecideAccessRequest(_ context.Context, id string, status AccessStatus, decidedBy string) error {
	found, ok := f.requests[id]
	if !ok {
		return apperr.NotFound("Access request")
	}
	found.Status = status
	found.DecidedBy = &decidedBy
	return nil
}

func (f *fakeRepository) ListAuthors(_ context.Context) ([]*Author, error) { return nil, nil }

func (f *fakeRepository) CountUsers(_ context.Context) (int, error) { return f.users, nil }

// fakeRoleManager records role changes per user.
type fakeRoleManager struct {
	roles map[string]sec.UserRole
}

func newFakeRoleManager() *fakeRoleManager {
	return &fakeRoleManager{roles: make(map[string]sec.UserRole)}
}

func (f *fakeRoleManager) UpdateRole(_ context.Context, userID string, role sec.UserRole) error {
	f.roles[userID] = role
	return nil
}

type fakeBookCounter struct{ stats book.Stats }

func (f *fakeBookCounter) Count(_ context.Context) (book.Stats, error) { return f.stats, nil }

type fakeReviewCounter struct{ count int }

func (f *fakeReviewCounter) Count(_ context.Context) (int, error) { return f.count, nil }

func newAdminService() (*Service, *fakeRepository, *fakeRoleManager) {
	repo := newFakeRepository()
	roles := newFakeRoleManager()
	service := NewService(repo, roles, &fakeBookCounter{stats: book.Stats{Published: 5, Pending: 2}}, &fakeReviewCounter{count: 7})
	return service, repo, roles
}

/*
TestService_DuplicateSubmitConflicts verifies the one-pending-request rule:
the second submit from the same user is a Conflict with the distinct
"already requested" message.
*/
func TestService_DuplicateSubmitConflicts(t *testing.T) {
	service, _, _ := newAdminService()

	first, err := service.SubmitAccessRequest(context.Background(), "u1", "I write things")
	require.NoError(t, err)
	assert.Equal(t, AccessPending, first.Status)

	_, err = service.SubmitAccessRequest(context.Background(), "u1", "asking again")
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "You have already requested author access", appErr.Message)
}

/*
TestService_ApproveGrantsAuthorRole verifies that approval flips the
applicant to the author role and stamps the deciding admin.
*/
func TestService_ApproveGrantsAuthorRole(t *testing.T) {
	service, repo, roles := newAdminService()

	created, err := service.SubmitAccessRequest(context.Background(), "u1", "")
	require.NoError(t, err)

	require.NoError(t, service.Approve(context.Background(), "admin-1", created.ID))

	assert.Equal(t, sec.RoleAuthor, roles.roles["u1"])
	decided := repo.requests[created.ID]
	assert.Equal(t, AccessApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, "admin-1", *decided.DecidedBy)

	// A decided request cannot be decided again.
	err = service.Approve(context.Background(), "admin-2", created.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestService_RejectLeavesRoleUntouched verifies that rejection never touches
the applicant's role.
*/
func TestService_RejectLeavesRoleUntouched(t *testing.T) {
	service, repo, roles := newAdminService()

	created, err := service.SubmitAccessRequest(context.Background(), "u1", "")
	require.NoError(t, err)

	require.NoError(t, service.Reject(context.Background(), "admin-1", created.ID))

	assert.Empty(t, roles.roles)
	assert.Equal(t, AccessRejected, repo.requests[created.ID].Status)
}

/*
TestService_RevokeDemotesAuthor verifies the revoke path: only an approved
request can be revoked, and doing so demotes the user back to a regular
account.
*/
func TestService_RevokeDemotesAuthor(t *testing.T) {
	service, repo, roles := newAdminService()

	created, err := service.SubmitAccessRequest(context.Background(), "u1", "")
	require.NoError(t, err)

	// Revoking before approval is a conflict.
	err = service.Revoke(context.Background(), "admin-1", created.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	require.NoError(t, service.Approve(context.Background(), "admin-1", created.ID))
	require.NoError(t, service.Revoke(context.Background(), "admin-1", created.ID))

	assert.Equal(t, sec.RoleUser, roles.roles["u1"])
	assert.Equal(t, AccessRevoked, repo.requests[created.ID].Status)
}

/*
TestService_DashboardAggregatesCounters verifies the dashboard pulls every
counter from its source.
*/
func TestService_DashboardAggregatesCounters(t *testing.T) {
	service, _, _ := newAdminService()

	stats, err := service.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, DashboardStats{Users: 10, BooksPublished: 5, BooksPending: 2, Reviews: 7}, stats)
}
