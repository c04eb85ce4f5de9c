// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
PostgreSQL implementation of the personal shelf data access.

The bookmark toggle leans on the (userid, bookid) unique pair: inserts are
ON CONFLICT DO NOTHING and both mutations report their row count, so the
service can derive the resulting membership without a read-modify-write.
*/
package library

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
	"github.com/quillshelf/quillshelf/internal/platform/database/schema"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed shelf store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Add bookmarks the book, reporting whether a new row landed.
func (repository *postgresRepository) Add(context context.Context, userID, bookID string) (bool, error) {
	m := schema.LibraryBookmark
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, NOW())
		ON CONFLICT (%s, %s) DO NOTHING`,
		m.Table, m.UserID, m.BookID, m.CreatedAt,
		m.UserID, m.BookID,
	)

	tag, err := repository.pool.Exec(context, query, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("postgres_bookmark_repo_add_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Remove deletes the bookmark, reporting whether a row existed.
func (repository *postgresRepository) Remove(context context.Context, userID, bookID string) (bool, error) {
	m := schema.LibraryBookmark
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", m.Table, m.UserID, m.BookID)

	tag, err := repository.pool.Exec(context, query, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("postgres_bookmark_repo_remove_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListIDs returns every bookmarked book id for the user.
func (repository *postgresRepository) ListIDs(context context.Context, userID string) ([]string, error) {
	m := schema.LibraryBookmark
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", m.BookID, m.Table, m.UserID)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_bookmark_repo_list_ids_failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres_bookmark_repo_scan_id_failed: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// bookSelect is the shared aggregate head joining books to their review
// average, mirroring the catalog shape so shelf entries render identically.
func bookSelect() string {
	b := schema.CoreBook
	r := schema.SocialReview
	return fmt.Sprintf(`
		SELECT
			b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			b.%s, b.%s, b.%s,
			AVG(r.%s)::float8 AS avgrating,
			COUNT(r.%s)::int  AS reviewcount`,
		b.ID, b.Title, b.Author, b.Slug, b.Description, b.Genre, b.CoverURL,
		b.DocumentURL, b.PageCount, b.SeriesName, b.SeriesOrder, b.Status, b.UploaderID,
		b.PublishedAt, b.CreatedAt, b.UpdatedAt,
		r.Rating, r.ID,
	)
}

// groupByBook closes the aggregate over the book columns.
func groupByBook(prefix string) string {
	b := schema.CoreBook
	columns := []string{
		b.ID, b.Title, b.Author, b.Slug, b.Description, b.Genre, b.CoverURL,
		b.DocumentURL, b.PageCount, b.SeriesName, b.SeriesOrder, b.Status, b.UploaderID,
		b.PublishedAt, b.CreatedAt, b.UpdatedAt,
	}

	clause := " GROUP BY "
	for i, column := range columns {
		if i > 0 {
			clause += ", "
		}
		clause += "b." + column
	}
	return clause + prefix
}

// scanBook maps one aggregate row into a [*book.Book].
func scanBook(rows pgx.Rows, extra ...any) (*book.Book, error) {
	entry := &book.Book{}
	targets := []any{
		&entry.ID, &entry.Title, &entry.Author, &entry.Slug, &entry.Description,
		&entry.Genre, &entry.CoverURL, &entry.DocumentURL, &entry.PageCount,
		&entry.SeriesName, &entry.SeriesOrder, &entry.Status, &entry.UploaderID,
		&entry.PublishedAt, &entry.CreatedAt, &entry.UpdatedAt,
		&entry.AvgRating, &entry.ReviewCount,
	}
	targets = append(targets, extra...)

	if err := rows.Scan(targets...); err != nil {
		return nil, err
	}
	return entry, nil
}

/*
ListBooks returns the user's bookmarked books, newest bookmark first.

Description: Joins the bookmark table to the catalog with the review
aggregate attached, restricted to published, non-deleted books. A book that
got unpublished after bookmarking silently drops off the shelf.

Parameters:
  - context: context.Context
  - userID: the shelf owner

Returns:
  - []*book.Book: Hydrated books in bookmark order
  - error: Database execution errors
*/
func (repository *postgresRepository) ListBooks(context context.Context, userID string) ([]*book.Book, error) {
	b := schema.CoreBook
	r := schema.SocialReview
	m := schema.LibraryBookmark

	query := bookSelect() + fmt.Sprintf(`
		FROM %s m
		JOIN %s b ON b.%s = m.%s
		LEFT JOIN %s r ON r.%s = b.%s
		WHERE m.%s = $1 AND b.%s = $2 AND b.%s IS NULL`,
		m.Table,
		b.Table, b.ID, m.BookID,
		r.Table, r.BookID, b.ID,
		m.UserID, b.Status, b.DeletedAt,
	) + groupByBook(fmt.Sprintf(", m.%s", m.CreatedAt)) +
		fmt.Sprintf(" ORDER BY m.%s DESC", m.CreatedAt)

	rows, err := repository.pool.Query(context, query, userID, book.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("postgres_bookmark_repo_list_books_failed: %w", err)
	}
	defer rows.Close()

	var books []*book.Book
	for rows.Next() {
		entry, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_bookmark_repo_scan_book_failed: %w", err)
		}
		books = append(books, entry)
	}

	return books, rows.Err()
}

/*
ListContinueReading returns books the user has read past page 1.

Description: Joins reading progress to the catalog, keeping rows with
currentpage > 1, ordered by lastreadat DESC so the most recently touched
book leads the shelf.

Parameters:
  - context: context.Context
  - userID: the shelf owner

Returns:
  - []*ContinueItem: Books with the reader's position attached
  - error: Database execution errors
*/
func (repository *postgresRepository) ListContinueReading(context context.Context, userID string) ([]*ContinueItem, error) {
	b := schema.CoreBook
	r := schema.SocialReview
	p := schema.LibraryReadingProgress

	query := bookSelect() + fmt.Sprintf(`,
			p.%s, p.%s, p.%s
		FROM %s p
		JOIN %s b ON b.%s = p.%s
		LEFT JOIN %s r ON r.%s = b.%s
		WHERE p.%s = $1 AND p.%s > 1 AND b.%s = $2 AND b.%s IS NULL`,
		p.CurrentPage, p.TotalPages, p.LastReadAt,
		p.Table,
		b.Table, b.ID, p.BookID,
		r.Table, r.BookID, b.ID,
		p.UserID, p.CurrentPage, b.Status, b.DeletedAt,
	) + groupByBook(fmt.Sprintf(", p.%s, p.%s, p.%s", p.CurrentPage, p.TotalPages, p.LastReadAt)) +
		fmt.Sprintf(" ORDER BY p.%s DESC", p.LastReadAt)

	rows, err := repository.pool.Query(context, query, userID, book.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("postgres_bookmark_repo_list_continue_failed: %w", err)
	}
	defer rows.Close()

	var items []*ContinueItem
	for rows.Next() {
		item := &ContinueItem{}
		entry, err := scanBook(rows, &item.CurrentPage, &item.TotalPages, &item.LastReadAt)
		if err != nil {
			return nil, fmt.Errorf("postgres_bookmark_repo_scan_continue_failed: %w", err)
		}
		item.Book = entry
		items = append(items, item)
	}

	return items, rows.Err()
}
