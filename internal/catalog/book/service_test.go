// Copyright (c) 2026 Quillshelf. All rights reserved.

package book

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/constants"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
	"github.com/quillshelf/quillshelf/pkg/pointer"
)

// fakeRepository is an in-memory [Repository] that records the last query it
// received so tests can assert on normalization.
type fakeRepository struct {
	books     map[string]*Book
	lastQuery Query
	listed    []*Book
}

func newFakeRepository(books ...*Book) *fakeRepository {
	repo := &fakeRepository{books: make(map[string]*Book)}
	for _, b := range books {
		repo.books[b.ID] = b
	}
	return repo
}

func (f *fakeRepository) List(_ context.Context, query Query) ([]*Book, error) {
	f.lastQuery = query
	return f.listed, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Book, error) {
	found, ok := f.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	return found, nil
}

func (f *fakeRepository) FindBySlug(_ context.Context, slug string) (*Book, error) {
	for _, b := range f.books {
		if b.Slug == slug && b.Status == StatusPublished {
			return b, nil
		}
	}
	return nil, apperr.NotFound("Book")
}

func (f *fakeRepository) ListSeries(_ context.Context, seriesName string) ([]*Book, error) {
	var volumes []*Book
	for _, b := range f.books {
		if b.SeriesName == seriesName && b.Status == StatusPublished {
			volumes = append(volumes, b)
		}
	}
	sort.Slice(volumes, func(i, j int) bool {
		return pointer.Val(volumes[i].SeriesOrder) < pointer.Val(volumes[j].SeriesOrder)
	})
	return volumes, nil
}

func (f *fakeRepository) ListRelated(_ context.Context, genre, excludeID string, limit int) ([]*Book, error) {
	var related []*Book
	for _, b := range f.books {
		if b.Genre == genre && b.ID != excludeID && b.Status == StatusPublished && len(related) < limit {
			related = append(related, b)
		}
	}
	return related, nil
}

func (f *fakeRepository) ListByStatus(_ context.Context, status Status, _, _ int) ([]*Book, error) {
	var matched []*Book
	for _, b := range f.books {
		if b.Status == status {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func (f *fakeRepository) ListByUploader(_ context.Context, uploaderID string) ([]*Book, error) {
	var matched []*Book
	for _, b := range f.books {
		if b.UploaderID == uploaderID {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func (f *fakeRepository) Genres(_ context.Context) ([]string, error) {
	return []string{"Fantasy", "Science"}, nil
}

func (f *fakeRepository) Create(_ context.Context, book *Book) error {
	f.books[book.ID] = book
	return nil
}

func (f *fakeRepository) Update(_ context.Context, book *Book) error {
	f.books[book.ID] = book
	return nil
}

func (f *fakeRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	f.books[id].Status = status
	return nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, id string) error {
	delete(f.books, id)
	return nil
}

func (f *fakeRepository) Count(_ context.Context) (Stats, error) {
	var stats Stats
	for _, b := range f.books {
		switch b.Status {
		case StatusPublished:
			stats.Published++
		case StatusPending:
			stats.Pending++
		}
	}
	return stats, nil
}

// fakeBlobStore records saved object names without touching the filesystem.
type fakeBlobStore struct {
	saved []string
}

func (f *fakeBlobStore) Save(_ context.Context, bucket, name string, _ io.Reader) (string, error) {
	f.saved = append(f.saved, bucket+"/"+name)
	return "http://blobs.test/" + bucket + "/" + name, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, bucket, name string) error { return nil }

func (f *fakeBlobStore) URL(bucket, name string) string {
	return "http://blobs.test/" + bucket + "/" + name
}

/*
TestService_BrowseNormalization verifies that every descriptor reaching the
repository is normalized: unknown sort keys fall back to newest, page and
limit are clamped, and filters pass through untouched.
*/
func TestService_BrowseNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   Query
		want Query
	}{
		{
			name: "invalid sort falls back to newest",
			in:   Query{Sort: "shiniest", Page: 2, Limit: 10},
			want: Query{Sort: SortNewest, Page: 2, Limit: 10},
		},
		{
			name: "empty sort falls back to newest",
			in:   Query{Page: 1, Limit: 10},
			want: Query{Sort: SortNewest, Page: 1, Limit: 10},
		},
		{
			name: "zero page becomes first page",
			in:   Query{Sort: SortOldest, Page: 0, Limit: 10},
			want: Query{Sort: SortOldest, Page: 1, Limit: 10},
		},
		{
			name: "oversized limit is clamped to the default",
			in:   Query{Sort: SortTopRated, Page: 1, Limit: 5000},
			want: Query{Sort: SortTopRated, Page: 1, Limit: constants.CatalogPageSize},
		},
		{
			name: "filters pass through verbatim",
			in:   Query{Search: "tolkien", Genre: "Fantasy", Sort: SortAlphabetical, Page: 3, Limit: 10},
			want: Query{Search: "tolkien", Genre: "Fantasy", Sort: SortAlphabetical, Page: 3, Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			service := NewService(repo, &fakeBlobStore{})

			_, normalized, err := service.Browse(context.Background(), tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, normalized)
			assert.Equal(t, tt.want, repo.lastQuery)
		})
	}
}

/*
TestService_BrowseKeepsNilRating verifies the rating sentinel: a book with no
reviews surfaces a nil average, never a zero, all the way through the service.
*/
func TestService_BrowseKeepsNilRating(t *testing.T) {
	unrated := &Book{ID: "b1", Title: "Quiet Debut", Status: StatusPublished}
	rated := &Book{ID: "b2", Title: "Crowd Favorite", Status: StatusPublished, AvgRating: pointer.To(4.5), ReviewCount: 12}

	repo := newFakeRepository()
	repo.listed = []*Book{rated, unrated}
	service := NewService(repo, &fakeBlobStore{})

	books, _, err := service.Browse(context.Background(), Query{Sort: SortTopRated, Page: 1, Limit: 10})

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Nil(t, books[1].AvgRating)
	require.NotNil(t, books[0].AvgRating)
	assert.Equal(t, 4.5, *books[0].AvgRating)
}

/*
TestService_DetailIncludesSeriesAndRelated verifies detail hydration: the
series shelf appears only when the series has more than one published volume,
and related picks share the genre while excluding the book itself.
*/
func TestService_DetailIncludesSeriesAndRelated(t *testing.T) {
	volumeOne := &Book{ID: "v1", Title: "Emberfall I", Genre: "Fantasy", SeriesName: "Emberfall", SeriesOrder: pointer.To(1), Status: StatusPublished}
	volumeTwo := &Book{ID: "v2", Title: "Emberfall II", Genre: "Fantasy", SeriesName: "Emberfall", SeriesOrder: pointer.To(2), Status: StatusPublished}
	neighbor := &Book{ID: "n1", Title: "Thornwood", Genre: "Fantasy", Status: StatusPublished}

	repo := newFakeRepository(volumeOne, volumeTwo, neighbor)
	service := NewService(repo, &fakeBlobStore{})

	detail, err := service.Detail(context.Background(), "v1")

	require.NoError(t, err)
	assert.Len(t, detail.Series, 2)
	for _, related := range detail.Related {
		assert.NotEqual(t, "v1", related.ID)
		assert.Equal(t, "Fantasy", related.Genre)
	}
}

/*
TestService_DetailSkipsSingleVolumeSeries verifies that a series shelf with a
lone volume is omitted from the detail view.
*/
func TestService_DetailSkipsSingleVolumeSeries(t *testing.T) {
	lone := &Book{ID: "v1", Title: "Standalone Saga", Genre: "Fantasy", SeriesName: "Saga", SeriesOrder: pointer.To(1), Status: StatusPublished}

	repo := newFakeRepository(lone)
	service := NewService(repo, &fakeBlobStore{})

	detail, err := service.Detail(context.Background(), "v1")

	require.NoError(t, err)
	assert.Empty(t, detail.Series)
}

/*
TestService_UploadCreatesPendingEntry verifies the upload flow: blobs are
stored under the new book id, the slug carries an id suffix for uniqueness,
and the entry enters the catalog as pending.
*/
func TestService_UploadCreatesPendingEntry(t *testing.T) {
	repo := newFakeRepository()
	blobs := &fakeBlobStore{}
	service := NewService(repo, blobs)

	created, err := service.Upload(context.Background(), "user-1", UploadInput{
		Title:       "The Hidden Archive",
		Author:      "N. Vale",
		Genre:       "Mystery",
		PageCount:   320,
		CoverExt:    ".jpg",
		Cover:       strings.NewReader("cover-bytes"),
		DocumentExt: ".pdf",
		Document:    strings.NewReader("pdf-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, "user-1", created.UploaderID)
	assert.True(t, strings.HasPrefix(created.Slug, "the-hidden-archive-"))
	assert.True(t, strings.HasSuffix(created.Slug, created.ID[len(created.ID)-6:]))
	require.Len(t, blobs.saved, 2)
	assert.Equal(t, constants.BucketCovers+"/"+created.ID+".jpg", blobs.saved[0])
	assert.Equal(t, constants.BucketBooks+"/"+created.ID+".pdf", blobs.saved[1])
	assert.Contains(t, repo.books, created.ID)
}

/*
TestService_EditOwnership verifies the edit authorization rule: the uploader
and moderators may edit, anyone else is rejected with 403.
*/
func TestService_EditOwnership(t *testing.T) {
	tests := []struct {
		name      string
		actorID   string
		actorRole sec.UserRole
		wantErr   bool
	}{
		{name: "uploader edits own book", actorID: "owner", actorRole: sec.RoleUser, wantErr: false},
		{name: "stranger is forbidden", actorID: "stranger", actorRole: sec.RoleAuthor, wantErr: true},
		{name: "admin edits anyone's book", actorID: "stranger", actorRole: sec.RoleAdmin, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository(&Book{ID: "b1", Title: "Original", UploaderID: "owner", Status: StatusPublished})
			service := NewService(repo, &fakeBlobStore{})

			updated, err := service.Edit(context.Background(), tt.actorID, tt.actorRole, "b1", EditInput{
				Title:  "Revised",
				Author: "A. Uthor",
				Genre:  "Fantasy",
			})

			if tt.wantErr {
				require.Error(t, err)
				appErr := apperr.As(err)
				require.NotNil(t, appErr)
				assert.Equal(t, "FORBIDDEN", appErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Revised", updated.Title)
		})
	}
}

/*
TestService_DeleteOwnership verifies that only the uploader or a moderator can
remove a book from the catalog.
*/
func TestService_DeleteOwnership(t *testing.T) {
	repo := newFakeRepository(&Book{ID: "b1", UploaderID: "owner"})
	service := NewService(repo, &fakeBlobStore{})

	err := service.Delete(context.Background(), "stranger", sec.RoleUser, "b1")

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Contains(t, repo.books, "b1")

	require.NoError(t, service.Delete(context.Background(), "owner", sec.RoleUser, "b1"))
	assert.NotContains(t, repo.books, "b1")
}

/*
TestService_ApproveRejectsRepublish verifies that approving an already
published book yields a conflict instead of silently re-stamping it.
*/
func TestService_ApproveRejectsRepublish(t *testing.T) {
	repo := newFakeRepository(
		&Book{ID: "pending", Status: StatusPending},
		&Book{ID: "live", Status: StatusPublished},
	)
	service := NewService(repo, &fakeBlobStore{})

	require.NoError(t, service.Approve(context.Background(), "pending"))
	assert.Equal(t, StatusPublished, repo.books["pending"].Status)

	err := service.Approve(context.Background(), "live")
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}
