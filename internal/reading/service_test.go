// Copyright (c) 2026 Quillshelf. All rights reserved.

package reading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
	"github.com/quillshelf/quillshelf/internal/platform/apperr"
)

// fakeProgressRepository is an in-memory [ProgressRepository] that counts
// writes and can be forced to fail.
type fakeProgressRepository struct {
	rows      map[string]*Progress
	upserts   int
	failSaves bool
}

func newFakeProgressRepository() *fakeProgressRepository {
	return &fakeProgressRepository{rows: make(map[string]*Progress)}
}

func (f *fakeProgressRepository) key(userID, bookID string) string { return userID + "/" + bookID }

func (f *fakeProgressRepository) Upsert(_ context.Context, progress *Progress) error {
	f.upserts++
	if f.failSaves {
		return errors.New("connection reset")
	}
	f.rows[f.key(progress.UserID, progress.BookID)] = progress
	return nil
}

func (f *fakeProgressRepository) Find(_ context.Context, userID, bookID string) (*Progress, error) {
	stored, ok := f.rows[f.key(userID, bookID)]
	if !ok {
		return nil, apperr.NotFound("Reading progress")
	}
	return stored, nil
}

func (f *fakeProgressRepository) Delete(_ context.Context, userID, bookID string) error {
	delete(f.rows, f.key(userID, bookID))
	return nil
}

// fakeCatalog resolves a fixed set of books.
type fakeCatalog struct {
	books map[string]*book.Book
}

func (f *fakeCatalog) FindByID(_ context.Context, id string) (*book.Book, error) {
	found, ok := f.books[id]
	if !ok {
		return nil, apperr.NotFound("Book")
	}
	return found, nil
}

func newReadingService(progress *fakeProgressRepository, books ...*book.Book) *Service {
	catalog := &fakeCatalog{books: make(map[string]*book.Book)}
	for _, b := range books {
		catalog.books[b.ID] = b
	}
	return NewService(progress, catalog, NewManager())
}

func publishedBook(id string, pages int) *book.Book {
	return &book.Book{ID: id, Title: "Book " + id, Status: book.StatusPublished, PageCount: pages, DocumentURL: "http://blobs.test/books/" + id + ".pdf"}
}

/*
TestService_OpenRestoresAndClampsProgress verifies that opening a book
restores the stored page, clamped to the document's current page count.
*/
func TestService_OpenRestoresAndClampsProgress(t *testing.T) {
	progress := newFakeProgressRepository()
	progress.rows["u1/b1"] = &Progress{UserID: "u1", BookID: "b1", CurrentPage: 250, TotalPages: 300}
	service := newReadingService(progress, publishedBook("b1", 100))

	view, err := service.Open(context.Background(), "u1", "b1")

	require.NoError(t, err)
	assert.Equal(t, StateReady, view.State)
	assert.Equal(t, 100, view.Page)
	assert.Equal(t, 100, view.TotalPages)
	assert.Equal(t, "u1", view.ReaderID)
	assert.NotEmpty(t, view.DocumentURL)
}

/*
TestService_OpenRejectsUnpublished verifies that pending books cannot be
opened for reading.
*/
func TestService_OpenRejectsUnpublished(t *testing.T) {
	pending := &book.Book{ID: "b1", Status: book.StatusPending, PageCount: 50}
	service := newReadingService(newFakeProgressRepository(), pending)

	_, err := service.Open(context.Background(), "u1", "b1")

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

/*
TestService_NavigateSavesProgress verifies that every accepted move lands as
exactly one upsert carrying the new page.
*/
func TestService_NavigateSavesProgress(t *testing.T) {
	progress := newFakeProgressRepository()
	service := newReadingService(progress, publishedBook("b1", 10))

	_, err := service.Open(context.Background(), "u1", "b1")
	require.NoError(t, err)

	view, err := service.Navigate(context.Background(), "u1", "b1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 1, progress.upserts)

	view, err = service.JumpTo(context.Background(), "u1", "b1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, view.Page)
	assert.Equal(t, 2, progress.upserts)

	saved := progress.rows["u1/b1"]
	require.NotNil(t, saved)
	assert.Equal(t, 7, saved.CurrentPage)
	assert.Equal(t, 10, saved.TotalPages)
}

/*
TestService_NavigateRejectsOutOfRange verifies that an out-of-range move is
rejected with 422, leaves the page untouched, and writes nothing.
*/
func TestService_NavigateRejectsOutOfRange(t *testing.T) {
	progress := newFakeProgressRepository()
	service := newReadingService(progress, publishedBook("b1", 10))

	_, err := service.Open(context.Background(), "u1", "b1")
	require.NoError(t, err)

	_, err = service.Navigate(context.Background(), "u1", "b1", -5)

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNPROCESSABLE", appErr.Code)
	assert.Equal(t, 0, progress.upserts)
}

/*
TestService_AnonymousSessionNeverPersists verifies the anonymous contract: a
guest gets a generated reader id, navigates freely, and no progress row is
ever written.
*/
func TestService_AnonymousSessionNeverPersists(t *testing.T) {
	progress := newFakeProgressRepository()
	service := newReadingService(progress, publishedBook("b1", 10))

	view, err := service.Open(context.Background(), "", "b1")
	require.NoError(t, err)
	require.NotEmpty(t, view.ReaderID)

	for i := 0; i < 4; i++ {
		view, err = service.Navigate(context.Background(), view.ReaderID, "b1", 1)
		require.NoError(t, err)
	}

	assert.Equal(t, 5, view.Page)
	assert.Equal(t, 0, progress.upserts)
	assert.Empty(t, progress.rows)
}

/*
TestService_SaveFailureDoesNotRollBack verifies that a failing progress write
is swallowed: the page advances anyway and later moves keep trying.
*/
func TestService_SaveFailureDoesNotRollBack(t *testing.T) {
	progress := newFakeProgressRepository()
	progress.failSaves = true
	service := newReadingService(progress, publishedBook("b1", 10))

	_, err := service.Open(context.Background(), "u1", "b1")
	require.NoError(t, err)

	view, err := service.Navigate(context.Background(), "u1", "b1", 1)

	require.NoError(t, err)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 1, progress.upserts)
}

/*
TestService_JumpToInputReverts verifies the free-text jump at the service
boundary: garbage input returns the current view without an error.
*/
func TestService_JumpToInputReverts(t *testing.T) {
	progress := newFakeProgressRepository()
	service := newReadingService(progress, publishedBook("b1", 10))

	_, err := service.Open(context.Background(), "u1", "b1")
	require.NoError(t, err)

	view, err := service.JumpToInput(context.Background(), "u1", "b1", "not-a-page")

	require.NoError(t, err)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 0, progress.upserts)
}

/*
TestService_CloseDropsSession verifies that closing removes the live session
and later navigation reports it missing.
*/
func TestService_CloseDropsSession(t *testing.T) {
	service := newReadingService(newFakeProgressRepository(), publishedBook("b1", 10))

	_, err := service.Open(context.Background(), "u1", "b1")
	require.NoError(t, err)

	service.Close(context.Background(), "u1", "b1")

	_, err = service.Navigate(context.Background(), "u1", "b1", 1)
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
