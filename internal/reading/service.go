// Copyright (c) 2026 Quillshelf. All rights reserved.

// Service layer orchestrating sessions, the catalog, and stored progress.
package reading

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/ctxutil"
	"github.com/quillshelf/quillshelf/pkg/uuidv7"
)

// BookCatalog is the slice of the catalog the reader needs: resolving a book
// to its document and page count.
type BookCatalog interface {
	FindByID(ctx context.Context, id string) (*book.Book, error)
}

// View is the session snapshot returned to clients after every operation.
type View struct {
	ReaderID    string `json:"reader_id"`
	BookID      string `json:"book_id"`
	State       State  `json:"state"`
	Page        int    `json:"page"`
	TotalPages  int    `json:"total_pages"`
	DocumentURL string `json:"document_url,omitempty"`
}

// Service implements the reading use cases.
type Service struct {
	progressRepository ProgressRepository
	catalog            BookCatalog
	manager            *Manager
}

// NewService constructs a reading [Service].
func NewService(progressRepository ProgressRepository, catalog BookCatalog, manager *Manager) *Service {
	return &Service{
		progressRepository: progressRepository,
		catalog:            catalog,
		manager:            manager,
	}
}

/*
Open starts a reading session for a book.

Description: Resolves the book, restores the reader's stored position (page 1
for first-time and anonymous readers), and registers a Ready session with the
manager. Anonymous readers get a server-issued reader id and a session that
never persists; signed-in readers get a persistence hook that saves after
every accepted move, with failures logged and never surfaced.

Parameters:
  - ctx: context.Context
  - userID: the account id, or "" for anonymous reading
  - bookID: the book to open

Returns:
  - *View: the Ready session snapshot (reader id, clamped page, page count)
  - error: NotFound if the book is absent or unpublished
*/
func (service *Service) Open(ctx context.Context, userID, bookID string) (*View, error) {
	found, err := service.catalog.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if found.Status != book.StatusPublished {
		return nil, apperr.NotFound("Book")
	}

	readerID := userID
	initialPage := 1

	var persist PersistFunc
	if userID == "" {
		readerID = uuidv7.New()
	} else {
		if stored, err := service.progressRepository.Find(ctx, userID, bookID); err == nil {
			initialPage = stored.CurrentPage
		}
		persist = service.persistFunc(ctx, userID, bookID)
	}

	session := NewSession(persist)
	session.Open(initialPage)
	session.DocumentReady(found.PageCount)

	service.manager.Put(Key{ReaderID: readerID, BookID: bookID}, session)

	return &View{
		ReaderID:    readerID,
		BookID:      bookID,
		State:       session.State(),
		Page:        session.Page(),
		TotalPages:  session.Total(),
		DocumentURL: found.DocumentURL,
	}, nil
}

// persistFunc builds the save hook for a signed-in session. The write reuses
// a detached copy of the opening context so a finished navigation request
// cannot cancel it mid-flight.
func (service *Service) persistFunc(ctx context.Context, userID, bookID string) PersistFunc {
	saveCtx := context.WithoutCancel(ctx)
	logger := ctxutil.GetLogger(ctx)

	return func(page, total int) {
		err := service.progressRepository.Upsert(saveCtx, &Progress{
			UserID:      userID,
			BookID:      bookID,
			CurrentPage: page,
			TotalPages:  total,
		})
		if err != nil {
			logger.WarnContext(saveCtx, "reading_progress_save_failed",
				slog.String("user_id", userID),
				slog.String("book_id", bookID),
				slog.Int("page", page),
				slog.Any("error", err))
		}
	}
}

// Navigate moves the session by delta pages.
func (service *Service) Navigate(ctx context.Context, readerID, bookID string, delta int) (*View, error) {
	session, err := service.live(readerID, bookID)
	if err != nil {
		return nil, err
	}

	if _, err := session.Navigate(delta); err != nil {
		return nil, mapSessionErr(err)
	}

	return service.snapshot(readerID, bookID, session), nil
}

// JumpTo moves the session to an absolute page.
func (service *Service) JumpTo(ctx context.Context, readerID, bookID string, page int) (*View, error) {
	session, err := service.live(readerID, bookID)
	if err != nil {
		return nil, err
	}

	if _, err := session.JumpTo(page); err != nil {
		return nil, mapSessionErr(err)
	}

	return service.snapshot(readerID, bookID, session), nil
}

// JumpToInput moves the session using free text from a page input box.
// Invalid input reverts to the current page and is never an error.
func (service *Service) JumpToInput(ctx context.Context, readerID, bookID, text string) (*View, error) {
	session, err := service.live(readerID, bookID)
	if err != nil {
		return nil, err
	}

	session.JumpToInput(text)
	return service.snapshot(readerID, bookID, session), nil
}

// Close ends the session. Closing an unknown session is a no-op.
func (service *Service) Close(ctx context.Context, readerID, bookID string) {
	service.manager.Remove(Key{ReaderID: readerID, BookID: bookID})
}

// Progress returns the stored position for a signed-in reader.
func (service *Service) Progress(ctx context.Context, userID, bookID string) (*Progress, error) {
	return service.progressRepository.Find(ctx, userID, bookID)
}

// live resolves the session for (reader, book) or fails with 404.
func (service *Service) live(readerID, bookID string) (*Session, error) {
	session := service.manager.Get(Key{ReaderID: readerID, BookID: bookID})
	if session == nil {
		return nil, apperr.NotFound("Reading session")
	}
	return session, nil
}

// snapshot captures the session into a client view.
func (service *Service) snapshot(readerID, bookID string, session *Session) *View {
	return &View{
		ReaderID:   readerID,
		BookID:     bookID,
		State:      session.State(),
		Page:       session.Page(),
		TotalPages: session.Total(),
	}
}

// mapSessionErr translates state machine errors into API errors.
func mapSessionErr(err error) error {
	switch {
	case errors.Is(err, ErrPageOutOfRange):
		return apperr.Unprocessable("Requested page is out of range")
	case errors.Is(err, ErrNotReady):
		return apperr.Conflict("Reading session is not ready")
	}
	return err
}
