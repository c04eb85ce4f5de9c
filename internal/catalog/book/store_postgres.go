// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
PostgreSQL implementation of the catalog data access.

It utilizes a few Postgres features to deliver the discovery experience:
  - ILIKE matching over title OR author for case-insensitive search.
  - A LEFT JOIN aggregate over reviews so the average rating and review
    count arrive with the book row (no N+1), with NULL preserved as the
    "no rating yet" sentinel.
  - NULLS LAST ordering so unrated books sink to the bottom of the
    top-rated sort instead of beating low-rated ones.
*/
package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/database/schema"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed catalog store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// selectWithRating is the shared SELECT head joining the review aggregate.
//
// AVG over zero rows is NULL; scanning it into *float64 yields nil, which is
// exactly the "no rating yet" sentinel the catalog contract requires.
func selectWithRating() string {
	b := schema.CoreBook
	r := schema.SocialReview
	return fmt.Sprintf(`
		SELECT
			b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			b.%s, b.%s, b.%s,
			AVG(r.%s)::float8 AS avgrating,
			COUNT(r.%s)::int  AS reviewcount
		FROM %s b
		LEFT JOIN %s r ON r.%s = b.%s
		WHERE b.%s IS NULL`,
		b.ID, b.Title, b.Author, b.Slug, b.Description, b.Genre, b.CoverURL,
		b.DocumentURL, b.PageCount, b.SeriesName, b.SeriesOrder, b.Status, b.UploaderID,
		b.PublishedAt, b.CreatedAt, b.UpdatedAt,
		r.Rating,
		r.ID,
		b.Table,
		r.Table, r.BookID, b.ID,
		b.DeletedAt,
	)
}

// groupByBook closes the aggregate over the book columns.
func groupByBook() string {
	b := schema.CoreBook
	return fmt.Sprintf(` GROUP BY b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s`,
		b.ID, b.Title, b.Author, b.Slug, b.Description, b.Genre, b.CoverURL,
		b.DocumentURL, b.PageCount, b.SeriesName, b.SeriesOrder, b.Status, b.UploaderID,
		b.PublishedAt, b.CreatedAt, b.UpdatedAt,
	)
}

// scanBook maps one aggregate row into a [*Book].
func scanBook(row pgx.Row) (*Book, error) {
	book := &Book{}
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Slug,
		&book.Description,
		&book.Genre,
		&book.CoverURL,
		&book.DocumentURL,
		&book.PageCount,
		&book.SeriesName,
		&book.SeriesOrder,
		&book.Status,
		&book.UploaderID,
		&book.PublishedAt,
		&book.CreatedAt,
		&book.UpdatedAt,
		&book.AvgRating,
		&book.ReviewCount,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// collectBooks drains a row set into a slice of books.
func collectBooks(rows pgx.Rows) ([]*Book, error) {
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

/*
List returns one window of published books matching the descriptor.

Description: Builds a dynamic WHERE clause from the [Query] descriptor:
  - Search: ILIKE over title OR author (case-insensitive substring).
  - Genre: exact equality, skipped for "" and "All".
  - Sort: one of the four supported orderings; top_rated orders the review
    aggregate DESC with NULLS LAST so unrated books never outrank rated ones.

Parameters:
  - context: context.Context
  - query: Query (the complete fetch descriptor)

Returns:
  - []*Book: At most query.Limit hydrated books
  - error: Database execution errors
*/
func (repository *postgresRepository) List(context context.Context, query Query) ([]*Book, error) {
	b := schema.CoreBook

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectWithRating())
	queryBuilder.WriteString(fmt.Sprintf(" AND b.%s = $%d", b.Status, argID))
	args = append(args, StatusPublished)
	argID++

	// Search Filtering (title OR author, case-insensitive substring)
	if query.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (b.%s ILIKE $%d OR b.%s ILIKE $%d)", b.Title, argID, b.Author, argID))
		args = append(args, "%"+query.Search+"%")
		argID++
	}

	// Genre Filtering ("All" is the catalog's no-filter token)
	if query.Genre != "" && query.Genre != "All" {
		queryBuilder.WriteString(fmt.Sprintf(" AND b.%s = $%d", b.Genre, argID))
		args = append(args, query.Genre)
		argID++
	}

	queryBuilder.WriteString(groupByBook())

	// Apply Sorting Logic
	switch query.Sort {
	case SortOldest:
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.%s ASC", b.CreatedAt))
	case SortTopRated:
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY avgrating DESC NULLS LAST, b.%s DESC", b.CreatedAt))
	case SortAlphabetical:
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.%s ASC", b.Title))
	default: // SortNewest
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.%s DESC", b.CreatedAt))
	}

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, query.Limit, query.Offset())

	// Query Execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list books: %w", err)
	}

	return collectBooks(rows)
}

// FindByID retrieves a book by its primary key, any status.
func (repository *postgresRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := selectWithRating() +
		fmt.Sprintf(" AND b.%s = $1", schema.CoreBook.ID) +
		groupByBook()

	book, err := scanBook(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book not found")
		}
		return nil, fmt.Errorf("postgres: failed to find book by id: %w", err)
	}

	return book, nil
}

// FindBySlug retrieves a published book by its URL slug.
func (repository *postgresRepository) FindBySlug(context context.Context, slug string) (*Book, error) {
	b := schema.CoreBook
	query := selectWithRating() +
		fmt.Sprintf(" AND b.%s = $1 AND b.%s = $2", b.Slug, b.Status) +
		groupByBook()

	book, err := scanBook(repository.pool.QueryRow(context, query, slug, StatusPublished))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book not found")
		}
		return nil, fmt.Errorf("postgres: failed to find book by slug: %w", err)
	}

	return book, nil
}

// ListSeries returns every published volume of a series in reading order.
func (repository *postgresRepository) ListSeries(context context.Context, seriesName string) ([]*Book, error) {
	b := schema.CoreBook
	query := selectWithRating() +
		fmt.Sprintf(" AND b.%s = $1 AND b.%s = $2", b.SeriesName, b.Status) +
		groupByBook() +
		fmt.Sprintf(" ORDER BY b.%s ASC NULLS LAST, b.%s ASC", b.SeriesOrder, b.Title)

	rows, err := repository.pool.Query(context, query, seriesName, StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list series: %w", err)
	}

	return collectBooks(rows)
}

// ListRelated returns same-genre recommendations, excluding the book itself.
func (repository *postgresRepository) ListRelated(context context.Context, genre, excludeID string, limit int) ([]*Book, error) {
	b := schema.CoreBook
	query := selectWithRating() +
		fmt.Sprintf(" AND b.%s = $1 AND b.%s <> $2 AND b.%s = $3", b.Genre, b.ID, b.Status) +
		groupByBook() +
		fmt.Sprintf(" ORDER BY b.%s DESC LIMIT $4", b.CreatedAt)

	rows, err := repository.pool.Query(context, query, genre, excludeID, StatusPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list related books: %w", err)
	}

	return collectBooks(rows)
}

// ListByStatus returns the publishing queue for admins, newest first.
func (repository *postgresRepository) ListByStatus(context context.Context, status Status, limit, offset int) ([]*Book, error) {
	b := schema.CoreBook
	query := selectWithRating() +
		fmt.Sprintf(" AND b.%s = $1", b.Status) +
		groupByBook() +
		fmt.Sprintf(" ORDER BY b.%s DESC LIMIT $2 OFFSET $3", b.CreatedAt)

	rows, err := repository.pool.Query(context, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list books by status: %w", err)
	}

	return collectBooks(rows)
}

// ListByUploader returns every non-deleted book uploaded by the user.
func (repository *postgresRepository) ListByUploader(context context.Context, uploaderID string) ([]*Book, error) {
	b := schema.CoreBook
	query := selectWithRating() +
		fmt.Sprintf(" AND b.%s = $1", b.UploaderID) +
		groupByBook() +
		fmt.Sprintf(" ORDER BY b.%s DESC", b.CreatedAt)

	rows, err := repository.pool.Query(context, query, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list books by uploader: %w", err)
	}

	return collectBooks(rows)
}

// Genres returns the distinct genres of published books, sorted.
func (repository *postgresRepository) Genres(context context.Context) ([]string, error) {
	b := schema.CoreBook
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM %s
		WHERE %s = $1 AND %s IS NULL
		ORDER BY %s ASC`,
		b.Genre, b.Table, b.Status, b.DeletedAt, b.Genre)

	rows, err := repository.pool.Query(context, query, StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	return genres, rows.Err()
}

// Create persists a new catalog entry.
func (repository *postgresRepository) Create(context context.Context, book *Book) error {
	const query = `
		INSERT INTO core.book (
			id, title, author, slug, description, genre, coverurl, documenturl,
			pagecount, seriesname, seriesorder, status, uploaderid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		book.ID,
		book.Title,
		book.Author,
		book.Slug,
		book.Description,
		book.Genre,
		book.CoverURL,
		book.DocumentURL,
		book.PageCount,
		book.SeriesName,
		book.SeriesOrder,
		book.Status,
		book.UploaderID,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_book_repo_create_failed: %w", err)
	}

	return nil
}

// Update persists changes to the mutable catalog fields.
func (repository *postgresRepository) Update(context context.Context, book *Book) error {
	const query = `
		UPDATE core.book
		SET title = $2, author = $3, description = $4, genre = $5,
			coverurl = $6, seriesname = $7, seriesorder = $8, updatedat = $9
		WHERE id = $1 AND deletedat IS NULL`

	book.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.Genre,
		book.CoverURL,
		book.SeriesName,
		book.SeriesOrder,
		book.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_book_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Book not found")
	}

	return nil
}

// UpdateStatus moves a book through the publishing workflow.
func (repository *postgresRepository) UpdateStatus(context context.Context, id string, status Status) error {
	const query = `
		UPDATE core.book
		SET status = $2,
			publishedat = CASE WHEN $2 = 'published' THEN NOW() ELSE publishedat END,
			updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id, status)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_update_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Book not found")
	}

	return nil
}

// SoftDelete hides the book from every listing.
func (repository *postgresRepository) SoftDelete(context context.Context, id string) error {
	const query = "UPDATE core.book SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_book_repo_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Book not found")
	}

	return nil
}

// Count returns the published/pending counters for the dashboard.
func (repository *postgresRepository) Count(context context.Context) (Stats, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'published')::int,
			COUNT(*) FILTER (WHERE status = 'pending')::int
		FROM core.book
		WHERE deletedat IS NULL`

	var stats Stats
	if err := repository.pool.QueryRow(context, query).Scan(&stats.Published, &stats.Pending); err != nil {
		return Stats{}, fmt.Errorf("postgres_book_repo_count_failed: %w", err)
	}

	return stats, nil
}
