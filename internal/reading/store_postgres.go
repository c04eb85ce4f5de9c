// Copyright (c) 2026 Quillshelf. All rights reserved.

package reading

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/database/schema"
	"github.com/quillshelf/quillshelf/pkg/uuidv7"
)

// # PostgreSQL Repository

// postgresProgressRepository implements [ProgressRepository] using pgx.
type postgresProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository constructs a PostgreSQL backed progress store.
func NewProgressRepository(pool *pgxpool.Pool) ProgressRepository {
	return &postgresProgressRepository{pool: pool}
}

/*
Upsert writes the position for (user, book).

Description: Uses ON CONFLICT on the (userid, bookid) unique key so the first
save inserts and every later save updates in place. LastReadAt is stamped
server-side on every write, which is what orders the Continue Reading shelf.

Parameters:
  - context: context.Context
  - progress: *Progress (UserID, BookID, CurrentPage, TotalPages set)

Returns:
  - error: Database execution errors
*/
func (repository *postgresProgressRepository) Upsert(context context.Context, progress *Progress) error {
	p := schema.LibraryReadingProgress
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()`,
		p.Table, p.ID, p.UserID, p.BookID, p.CurrentPage, p.TotalPages, p.LastReadAt,
		p.UserID, p.BookID,
		p.CurrentPage, p.CurrentPage,
		p.TotalPages, p.TotalPages,
		p.LastReadAt,
	)

	if progress.ID == "" {
		progress.ID = uuidv7.New()
	}

	_, err := repository.pool.Exec(context, query,
		progress.ID,
		progress.UserID,
		progress.BookID,
		progress.CurrentPage,
		progress.TotalPages,
	)
	if err != nil {
		return fmt.Errorf("postgres_progress_repo_upsert_failed: %w", err)
	}

	return nil
}

// Find returns the stored position for (user, book).
func (repository *postgresProgressRepository) Find(context context.Context, userID, bookID string) (*Progress, error) {
	p := schema.LibraryReadingProgress
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2`,
		p.ID, p.UserID, p.BookID, p.CurrentPage, p.TotalPages, p.LastReadAt,
		p.Table, p.UserID, p.BookID,
	)

	progress := &Progress{}
	err := repository.pool.QueryRow(context, query, userID, bookID).Scan(
		&progress.ID,
		&progress.UserID,
		&progress.BookID,
		&progress.CurrentPage,
		&progress.TotalPages,
		&progress.LastReadAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Reading progress")
		}
		return nil, fmt.Errorf("postgres_progress_repo_find_failed: %w", err)
	}

	return progress, nil
}

// Delete removes the stored position for (user, book).
func (repository *postgresProgressRepository) Delete(context context.Context, userID, bookID string) error {
	p := schema.LibraryReadingProgress
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", p.Table, p.UserID, p.BookID)

	if _, err := repository.pool.Exec(context, query, userID, bookID); err != nil {
		return fmt.Errorf("postgres_progress_repo_delete_failed: %w", err)
	}

	return nil
}
