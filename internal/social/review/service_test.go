// Copyright (c) 2026 Quillshelf. All rights reserved.

package review

import (
	"context"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
)

// fakeReviewRepository is an in-memory [Repository].
type fakeReviewRepository struct {
	rows map[string]*Review
}

func newFakeReviewRepository(reviews ...*Review) *fakeReviewRepository {
	repo := &fakeReviewRepository{rows: make(map[string]*Review)}
	for _, r := range reviews {
		repo.rows[r.ID] = r
	}
	return repo
}

func (f *fakeReviewRepository) Create(_ context.Context, review *Review) error {
	f.rows[review.ID] = review
	return nil
}

func (f *fakeReviewRepository) FindByID(_ context.Context, id string) (*Review, error) {
	found, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFound("Review")
	}
	return found, nil
}

func (f *fakeReviewRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return apperr.NotFound("Review")
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeReviewRepository) ListByBook(_ context.Context, bookID string, _, _ int) ([]*Review, error) {
	var matched []*Review
	for _, r := range f.rows {
		if r.BookID == bookID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepository) Count(_ context.Context) (int, error) {
	return len(f.rows), nil
}

// fakeLikeRepository mirrors the (review, user) unique pair in memory.
type fakeLikeRepository struct {
	likes map[string]map[string]bool // reviewID -> userID set
}

func newFakeLikeRepository() *fakeLikeRepository {
	return &fakeLikeRepository{likes: make(map[string]map[string]bool)}
}

func (f *fakeLikeRepository) Add(_ context.Context, reviewID, userID string) (bool, error) {
	if f.likes[reviewID] == nil {
		f.likes[reviewID] = make(map[string]bool)
	}
	if f.likes[reviewID][userID] {
		return false, nil
	}
	f.likes[reviewID][userID] = true
	return true, nil
}

func (f *fakeLikeRepository) Remove(_ context.Context, reviewID, userID string) (bool, error) {
	if !f.likes[reviewID][userID] {
		return false, nil
	}
	delete(f.likes[reviewID], userID)
	return true, nil
}

func (f *fakeLikeRepository) Count(_ context.Context, reviewID string) (int, error) {
	return len(f.likes[reviewID]), nil
}

func (f *fakeLikeRepository) LikedIDs(_ context.Context, userID, _ string) ([]string, error) {
	var ids []string
	for reviewID, users := range f.likes {
		if users[userID] {
			ids = append(ids, reviewID)
		}
	}
	return ids, nil
}

// fakeFlagRepository enforces the one-flag-per-user rule the way the
// database does, by returning a unique-violation error.
type fakeFlagRepository struct {
	flags map[string]map[string]bool // reviewID -> userID set
}

func newFakeFlagRepository() *fakeFlagRepository {
	return &fakeFlagRepository{flags: make(map[string]map[string]bool)}
}

func (f *fakeFlagRepository) Create(_ context.Context, flag *Flag) error {
	if f.flags[flag.ReviewID] == nil {
		f.flags[flag.ReviewID] = make(map[string]bool)
	}
	if f.flags[flag.ReviewID][flag.UserID] {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	f.flags[flag.ReviewID][flag.UserID] = true
	return nil
}

func (f *fakeFlagRepository) ListFlagged(_ context.Context, _, _ int) ([]*Flagged, error) {
	return nil, nil
}

func (f *fakeFlagRepository) Dismiss(_ context.Context, reviewID string) error {
	delete(f.flags, reviewID)
	return nil
}

func newReviewService(reviews ...*Review) (*Service, *fakeReviewRepository, *fakeLikeRepository, *fakeFlagRepository) {
	reviewRepo := newFakeReviewRepository(reviews...)
	likeRepo := newFakeLikeRepository()
	flagRepo := newFakeFlagRepository()
	return NewService(reviewRepo, likeRepo, flagRepo), reviewRepo, likeRepo, flagRepo
}

/*
TestService_ToggleLikeRestoresCount verifies the like identity property:
like then unlike lands the count back where it started, and each response
carries a count re-derived from the store.
*/
func TestService_ToggleLikeRestoresCount(t *testing.T) {
	service, _, _, _ := newReviewService(&Review{ID: "r1", BookID: "b1", UserID: "author"})

	result, err := service.ToggleLike(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.Count)

	result, err = service.ToggleLike(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.Count)
}

/*
TestService_ToggleLikeUnknownReview verifies that liking a missing review is
a 404, not a silent insert.
*/
func TestService_ToggleLikeUnknownReview(t *testing.T) {
	service, _, _, _ := newReviewService()

	_, err := service.ToggleLike(context.Background(), "u1", "ghost")

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

/*
TestService_DuplicateFlagConflicts verifies the one-shot flag rule: the
second report from the same user is a Conflict with the distinct
"already reported" message, while a different user's flag still lands.
*/
func TestService_DuplicateFlagConflicts(t *testing.T) {
	service, _, _, _ := newReviewService(&Review{ID: "r1", BookID: "b1", UserID: "author"})

	require.NoError(t, service.Flag(context.Background(), "u1", "r1", "spam"))

	err := service.Flag(context.Background(), "u1", "r1", "spam again")
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "You have already reported this review", appErr.Message)

	require.NoError(t, service.Flag(context.Background(), "u2", "r1", "offensive"))
}

/*
TestService_DeleteOwnership verifies review removal: the author and
moderators may delete, other users are rejected.
*/
func TestService_DeleteOwnership(t *testing.T) {
	tests := []struct {
		name      string
		actorID   string
		actorRole sec.UserRole
		wantErr   bool
	}{
		{name: "author deletes own review", actorID: "author", actorRole: sec.RoleUser, wantErr: false},
		{name: "stranger is forbidden", actorID: "stranger", actorRole: sec.RoleAuthor, wantErr: true},
		{name: "admin deletes any review", actorID: "stranger", actorRole: sec.RoleAdmin, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _, _ := newReviewService(&Review{ID: "r1", BookID: "b1", UserID: "author"})

			err := service.Delete(context.Background(), tt.actorID, tt.actorRole, "r1")

			if tt.wantErr {
				require.Error(t, err)
				appErr := apperr.As(err)
				require.NotNil(t, appErr)
				assert.Equal(t, "FORBIDDEN", appErr.Code)
				assert.Contains(t, repo.rows, "r1")
				return
			}

			require.NoError(t, err)
			assert.NotContains(t, repo.rows, "r1")
		})
	}
}

/*
TestService_ListByBookIncludesViewerLikes verifies that a signed-in viewer
receives their liked-review id set alongside the page, and an anonymous
viewer receives an empty set rather than null.
*/
func TestService_ListByBookIncludesViewerLikes(t *testing.T) {
	service, _, _, _ := newReviewService(
		&Review{ID: "r1", BookID: "b1", UserID: "a1"},
		&Review{ID: "r2", BookID: "b1", UserID: "a2"},
	)

	_, err := service.ToggleLike(context.Background(), "viewer", "r1")
	require.NoError(t, err)

	page, err := service.ListByBook(context.Background(), "b1", "viewer", 5, 0)
	require.NoError(t, err)
	assert.Len(t, page.Reviews, 2)
	assert.Equal(t, []string{"r1"}, page.LikedIDs)

	anonymous, err := service.ListByBook(context.Background(), "b1", "", 5, 0)
	require.NoError(t, err)
	assert.NotNil(t, anonymous.LikedIDs)
	assert.Empty(t, anonymous.LikedIDs)
}

/*
TestService_PostAssignsIdentity verifies that posting stamps a fresh id and
persists the review under the caller.
*/
func TestService_PostAssignsIdentity(t *testing.T) {
	service, repo, _, _ := newReviewService()

	created, err := service.Post(context.Background(), "u1", "b1", 4, "Tight pacing, satisfying end.")

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, 4, created.Rating)
	assert.Contains(t, repo.rows, created.ID)
}
