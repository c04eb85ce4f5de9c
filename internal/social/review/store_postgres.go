// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
PostgreSQL implementation of the review data access.

List queries hydrate the like count and the reviewer's public profile in one
round trip. Like toggles and flag inserts lean on the composite unique pairs
so concurrent duplicates collapse at the constraint instead of racing in
application code.
*/
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/database/schema"
)

// # Review Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed review store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Create persists a new review.
func (repository *postgresRepository) Create(context context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.Table, r.ID, r.BookID, r.UserID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
	)

	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		review.ID,
		review.BookID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID returns the bare review row.
func (repository *postgresRepository) FindByID(context context.Context, id string) (*Review, error) {
	r := schema.SocialReview
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s WHERE %s = $1`,
		r.ID, r.BookID, r.UserID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
		r.Table, r.ID,
	)

	review := &Review{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("postgres_review_repo_find_failed: %w", err)
	}

	return review, nil
}

// Delete removes the review; likes and flags go with it via cascade.
func (repository *postgresRepository) Delete(context context.Context, id string) error {
	r := schema.SocialReview
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.Table, r.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_review_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	return nil
}

/*
ListByBook returns one page of a book's reviews, newest first.

Description: Joins the like aggregate and the reviewer's public profile in
one query. The profile join is LEFT so a review survives its author's
profile being absent.

Parameters:
  - context: context.Context
  - bookID: the reviewed book
  - limit, offset: page window

Returns:
  - []*Review: Hydrated reviews (like count, reviewer)
  - error: Database execution errors
*/
func (repository *postgresRepository) ListByBook(context context.Context, bookID string, limit, offset int) ([]*Review, error) {
	r := schema.SocialReview
	l := schema.SocialReviewLike
	p := schema.UserProfile

	query := fmt.Sprintf(`
		SELECT
			r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s,
			COUNT(l.%s)::int AS likecount,
			p.%s, p.%s
		FROM %s r
		LEFT JOIN %s l ON l.%s = r.%s
		LEFT JOIN %s p ON p.%s = r.%s
		WHERE r.%s = $1
		GROUP BY r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, p.%s, p.%s
		ORDER BY r.%s DESC
		LIMIT $2 OFFSET $3`,
		r.ID, r.BookID, r.UserID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
		l.UserID,
		p.Nickname, p.AvatarURL,
		r.Table,
		l.Table, l.ReviewID, r.ID,
		p.Table, p.UserID, r.UserID,
		r.BookID,
		r.ID, r.BookID, r.UserID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt, p.Nickname, p.AvatarURL,
		r.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, bookID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_review_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		review := &Review{}
		var nickname, avatarURL *string
		err := rows.Scan(
			&review.ID,
			&review.BookID,
			&review.UserID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.LikeCount,
			&nickname,
			&avatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_review_repo_scan_failed: %w", err)
		}

		if nickname != nil {
			review.Reviewer = &Reviewer{UserID: review.UserID, Nickname: *nickname}
			if avatarURL != nil {
				review.Reviewer.AvatarURL = *avatarURL
			}
		}

		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

// Count returns the total review count for the dashboard.
func (repository *postgresRepository) Count(context context.Context) (int, error) {
	r := schema.SocialReview
	query := fmt.Sprintf("SELECT COUNT(*)::int FROM %s", r.Table)

	var count int
	if err := repository.pool.QueryRow(context, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_review_repo_count_failed: %w", err)
	}

	return count, nil
}

// # Like Repository

// postgresLikeRepository implements [LikeRepository] using pgx.
type postgresLikeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository constructs a PostgreSQL backed like store.
func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &postgresLikeRepository{pool: pool}
}

// Add likes the review, reporting whether a new row landed.
func (repository *postgresLikeRepository) Add(context context.Context, reviewID, userID string) (bool, error) {
	l := schema.SocialReviewLike
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, NOW())
		ON CONFLICT (%s, %s) DO NOTHING`,
		l.Table, l.ReviewID, l.UserID, l.CreatedAt,
		l.ReviewID, l.UserID,
	)

	tag, err := repository.pool.Exec(context, query, reviewID, userID)
	if err != nil {
		return false, fmt.Errorf("postgres_like_repo_add_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Remove unlikes the review, reporting whether a row existed.
func (repository *postgresLikeRepository) Remove(context context.Context, reviewID, userID string) (bool, error) {
	l := schema.SocialReviewLike
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", l.Table, l.ReviewID, l.UserID)

	tag, err := repository.pool.Exec(context, query, reviewID, userID)
	if err != nil {
		return false, fmt.Errorf("postgres_like_repo_remove_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Count returns the review's current like count.
func (repository *postgresLikeRepository) Count(context context.Context, reviewID string) (int, error) {
	l := schema.SocialReviewLike
	query := fmt.Sprintf("SELECT COUNT(*)::int FROM %s WHERE %s = $1", l.Table, l.ReviewID)

	var count int
	if err := repository.pool.QueryRow(context, query, reviewID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_like_repo_count_failed: %w", err)
	}

	return count, nil
}

// LikedIDs returns which of the book's reviews the user has liked.
func (repository *postgresLikeRepository) LikedIDs(context context.Context, userID, bookID string) ([]string, error) {
	l := schema.SocialReviewLike
	r := schema.SocialReview
	query := fmt.Sprintf(`
		SELECT l.%s
		FROM %s l
		JOIN %s r ON r.%s = l.%s
		WHERE l.%s = $1 AND r.%s = $2`,
		l.ReviewID,
		l.Table,
		r.Table, r.ID, l.ReviewID,
		l.UserID, r.BookID,
	)

	rows, err := repository.pool.Query(context, query, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("postgres_like_repo_liked_ids_failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres_like_repo_scan_id_failed: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// # Flag Repository

// postgresFlagRepository implements [FlagRepository] using pgx.
type postgresFlagRepository struct {
	pool *pgxpool.Pool
}

// NewFlagRepository constructs a PostgreSQL backed flag store.
func NewFlagRepository(pool *pgxpool.Pool) FlagRepository {
	return &postgresFlagRepository{pool: pool}
}

// Create persists a flag. The (reviewid, userid) unique pair is left to the
// database; the raw error surfaces for the service to classify.
func (repository *postgresFlagRepository) Create(context context.Context, flag *Flag) error {
	f := schema.SocialReviewFlag
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())`,
		f.Table, f.ID, f.ReviewID, f.UserID, f.Reason, f.Status, f.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		flag.ID,
		flag.ReviewID,
		flag.UserID,
		flag.Reason,
		flag.Status,
	)
	return err
}

/*
ListFlagged returns reviews with open flags, most-flagged first.

Description: Aggregates the open flags per review, collecting the distinct
reasons for the moderation panel, and joins the review body.

Parameters:
  - context: context.Context
  - limit, offset: page window

Returns:
  - []*Flagged: Reviews with flag counts and reasons
  - error: Database execution errors
*/
func (repository *postgresFlagRepository) ListFlagged(context context.Context, limit, offset int) ([]*Flagged, error) {
	f := schema.SocialReviewFlag
	r := schema.SocialReview

	query := fmt.Sprintf(`
		SELECT
			r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s,
			COUNT(f.%s)::int AS flagcount,
			ARRAY_AGG(DISTINCT f.%s) AS reasons
		FROM %s f
		JOIN %s r ON r.%s = f.%s
		WHERE f.%s = $1
		GROUP BY r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s
		ORDER BY flagcount DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		r.ID, r.BookID, r.UserID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
		f.ID,
		f.Reason,
		f.Table,
		r.Table, r.ID, f.ReviewID,
		f.Status,
		r.ID, r.BookID, r.UserID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
		r.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, FlagOpen, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_flag_repo_list_flagged_failed: %w", err)
	}
	defer rows.Close()

	var flagged []*Flagged
	for rows.Next() {
		entry := &Flagged{Review: &Review{}}
		err := rows.Scan(
			&entry.Review.ID,
			&entry.Review.BookID,
			&entry.Review.UserID,
			&entry.Review.Rating,
			&entry.Review.Comment,
			&entry.Review.CreatedAt,
			&entry.Review.UpdatedAt,
			&entry.FlagCount,
			&entry.Reasons,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_flag_repo_scan_flagged_failed: %w", err)
		}
		flagged = append(flagged, entry)
	}

	return flagged, rows.Err()
}

// Dismiss closes every open flag on the review.
func (repository *postgresFlagRepository) Dismiss(context context.Context, reviewID string) error {
	f := schema.SocialReviewFlag
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1 AND %s = $3",
		f.Table, f.Status, f.ReviewID, f.Status)

	if _, err := repository.pool.Exec(context, query, reviewID, FlagDismissed, FlagOpen); err != nil {
		return fmt.Errorf("postgres_flag_repo_dismiss_failed: %w", err)
	}

	return nil
}
