// Copyright (c) 2026 Quillshelf. All rights reserved.

package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
)

// fakeRepository is an in-memory [Repository] backed by a set keyed
// user/book, mirroring the unique pair constraint.
type fakeRepository struct {
	members map[string]bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{members: make(map[string]bool)}
}

func (f *fakeRepository) key(userID, bookID string) string { return userID + "/" + bookID }

func (f *fakeRepository) Add(_ context.Context, userID, bookID string) (bool, error) {
	k := f.key(userID, bookID)
	if f.members[k] {
		return false, nil
	}
	f.members[k] = true
	return true, nil
}

func (f *fakeRepository) Remove(_ context.Context, userID, bookID string) (bool, error) {
	k := f.key(userID, bookID)
	if !f.members[k] {
		return false, nil
	}
	delete(f.members, k)
	return true, nil
}

func (f *fakeRepository) ListIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for k := range f.members {
		if len(k) > len(userID) && k[:len(userID)] == userID {
			ids = append(ids, k[len(userID)+1:])
		}
	}
	return ids, nil
}

func (f *fakeRepository) ListBooks(_ context.Context, _ string) ([]*book.Book, error) {
	return nil, nil
}

func (f *fakeRepository) ListContinueReading(_ context.Context, _ string) ([]*ContinueItem, error) {
	return nil, nil
}

/*
TestService_ToggleFlipsMembership verifies the toggle contract: the first
toggle bookmarks, the second removes, and the response always reports the
resulting membership.
*/
func TestService_ToggleFlipsMembership(t *testing.T) {
	service := NewService(newFakeRepository())

	result, err := service.Toggle(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.True(t, result.Bookmarked)
	assert.Equal(t, "b1", result.BookID)

	result, err = service.Toggle(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.False(t, result.Bookmarked)
}

/*
TestService_DoubleToggleRestoresOriginal verifies the identity property from
both starting states: two toggles always land back where the shelf began.
*/
func TestService_DoubleToggleRestoresOriginal(t *testing.T) {
	tests := []struct {
		name            string
		startBookmarked bool
	}{
		{name: "starting without a bookmark", startBookmarked: false},
		{name: "starting with a bookmark", startBookmarked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			if tt.startBookmarked {
				_, err := repo.Add(context.Background(), "u1", "b1")
				require.NoError(t, err)
			}
			service := NewService(repo)

			_, err := service.Toggle(context.Background(), "u1", "b1")
			require.NoError(t, err)
			_, err = service.Toggle(context.Background(), "u1", "b1")
			require.NoError(t, err)

			ids, err := service.BookmarkedIDs(context.Background(), "u1")
			require.NoError(t, err)
			if tt.startBookmarked {
				assert.Equal(t, []string{"b1"}, ids)
			} else {
				assert.Empty(t, ids)
			}
		})
	}
}

/*
TestService_BookmarkedIDsNeverNil verifies that an empty shelf serializes as
an empty array, not null, so clients can initialize their set directly.
*/
func TestService_BookmarkedIDsNeverNil(t *testing.T) {
	service := NewService(newFakeRepository())

	ids, err := service.BookmarkedIDs(context.Background(), "u1")

	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

/*
TestService_TogglesAreIndependentPerBook verifies that flipping one book
never disturbs another book's membership.
*/
func TestService_TogglesAreIndependentPerBook(t *testing.T) {
	service := NewService(newFakeRepository())

	_, err := service.Toggle(context.Background(), "u1", "b1")
	require.NoError(t, err)
	_, err = service.Toggle(context.Background(), "u1", "b2")
	require.NoError(t, err)
	_, err = service.Toggle(context.Background(), "u1", "b2")
	require.NoError(t, err)

	ids, err := service.BookmarkedIDs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, ids)
}
