// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
PostgreSQL implementation of the admin data access.

The one-pending-request-per-user rule is a partial unique index on
admin.accessrequest (userid WHERE status = 'pending'); the insert lets a
violation surface so the service can turn it into a Conflict.
*/
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/database/schema"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed admin store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// selectAccessRequest is the shared SELECT head.
func selectAccessRequest() string {
	a := schema.AdminAccessRequest
	return fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s, %s FROM %s",
		a.ID, a.UserID, a.Message, a.Status, a.DecidedBy, a.DecidedAt, a.CreatedAt, a.Table)
}

// scanAccessRequest maps one row into a [*AccessRequest].
func scanAccessRequest(row pgx.Row) (*AccessRequest, error) {
	request := &AccessRequest{}
	err := row.Scan(
		&request.ID,
		&request.UserID,
		&request.Message,
		&request.Status,
		&request.DecidedBy,
		&request.DecidedAt,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return request, nil
}

// CreateAccessRequest persists a pending request.
func (repository *postgresRepository) CreateAccessRequest(context context.Context, request *AccessRequest) error {
	a := schema.AdminAccessRequest
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())`,
		a.Table, a.ID, a.UserID, a.Message, a.Status, a.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		request.ID,
		request.UserID,
		request.Message,
		request.Status,
	)
	return err
}

// FindAccessRequest returns the request by primary key.
func (repository *postgresRepository) FindAccessRequest(context context.Context, id string) (*AccessRequest, error) {
	a := schema.AdminAccessRequest
	query := selectAccessRequest() + fmt.Sprintf(" WHERE %s = $1", a.ID)

	request, err := scanAccessRequest(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Access request")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_request_failed: %w", err)
	}

	return request, nil
}

// FindAccessRequestByUser returns the user's most recent request.
func (repository *postgresRepository) FindAccessRequestByUser(context context.Context, userID string) (*AccessRequest, error) {
	a := schema.AdminAccessRequest
	query := selectAccessRequest() +
		fmt.Sprintf(" WHERE %s = $1 ORDER BY %s DESC LIMIT 1", a.UserID, a.CreatedAt)

	request, err := scanAccessRequest(repository.pool.QueryRow(context, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Access request")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_user_failed: %w", err)
	}

	return request, nil
}

// ListAccessRequests returns the queue in arrival order.
func (repository *postgresRepository) ListAccessRequests(context context.Context, status AccessStatus, limit, offset int) ([]*AccessRequest, error) {
	a := schema.AdminAccessRequest
	query := selectAccessRequest() +
		fmt.Sprintf(" WHERE %s = $1 ORDER BY %s ASC LIMIT $2 OFFSET $3", a.Status, a.CreatedAt)

	rows, err := repository.pool.Query(context, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_admin_repo_list_requests_failed: %w", err)
	}
	defer rows.Close()

	var requests []*AccessRequest
	for rows.Next() {
		request, err := scanAccessRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_admin_repo_scan_request_failed: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// DecideAccessRequest stamps the decision onto the request.
func (repository *postgresRepository) DecideAccessRequest(context context.Context, id string, status AccessStatus, decidedBy string) error {
	a := schema.AdminAccessRequest
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1",
		a.Table, a.Status, a.DecidedBy, a.DecidedAt, a.ID)

	tag, err := repository.pool.Exec(context, query, id, status, decidedBy)
	if err != nil {
		return fmt.Errorf("postgres_admin_repo_decide_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Access request")
	}

	return nil
}

// ListAuthors returns every active account holding the author role.
func (repository *postgresRepository) ListAuthors(context context.Context) ([]*Author, error) {
	u := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = TRUE AND %s IS NULL
		ORDER BY %s ASC`,
		u.ID, u.Username, u.Email, u.CreatedAt,
		u.Table,
		u.Role, u.IsActive, u.DeletedAt,
		u.Username,
	)

	rows, err := repository.pool.Query(context, query, sec.RoleAuthor)
	if err != nil {
		return nil, fmt.Errorf("postgres_admin_repo_list_authors_failed: %w", err)
	}
	defer rows.Close()

	var authors []*Author
	for rows.Next() {
		author := &Author{}
		if err := rows.Scan(&author.ID, &author.Username, &author.Email, &author.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_admin_repo_scan_author_failed: %w", err)
		}
		authors = append(authors, author)
	}

	return authors, rows.Err()
}

// CountUsers returns the number of active accounts.
func (repository *postgresRepository) CountUsers(context context.Context) (int, error) {
	u := schema.UserAccount
	query := fmt.Sprintf("SELECT COUNT(*)::int FROM %s WHERE %s = TRUE AND %s IS NULL",
		u.Table, u.IsActive, u.DeletedAt)

	var count int
	if err := repository.pool.QueryRow(context, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_admin_repo_count_users_failed: %w", err)
	}

	return count, nil
}
