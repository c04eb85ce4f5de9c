// Copyright (c) 2026 Quillshelf. All rights reserved.

// PostgreSQL implementation of the book request data access.
package request

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

// NewRepository constructs a PostgreSQL backed request store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// selectColumns is the shared SELECT head.
func selectColumns() string {
	q := schema.SocialBookRequest
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(q.Columns(), ", "), q.Table)
}

// scanRequest maps one row into a [*BookRequest].
func scanRequest(row pgx.Row) (*BookRequest, error) {
	request := &BookRequest{}
	err := row.Scan(
		&request.ID,
		&request.UserID,
		&request.Title,
		&request.Author,
		&request.Note,
		&request.Status,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return request, nil
}

// collectRequests drains a row set.
func collectRequests(rows pgx.Rows) ([]*BookRequest, error) {
	defer rows.Close()

	var requests []*BookRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_request_repo_scan_failed: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// Create persists a new request.
func (repository *postgresRepository) Create(context context.Context, request *BookRequest) error {
	q := schema.SocialBookRequest
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.Table, strings.Join(q.Columns(), ", "),
	)

	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		request.ID,
		request.UserID,
		request.Title,
		request.Author,
		request.Note,
		request.Status,
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_request_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID returns the request by primary key.
func (repository *postgresRepository) FindByID(context context.Context, id string) (*BookRequest, error) {
	q := schema.SocialBookRequest
	query := selectColumns() + fmt.Sprintf(" WHERE %s = $1", q.ID)

	request, err := scanRequest(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Book request")
		}
		return nil, fmt.Errorf("postgres_request_repo_find_failed: %w", err)
	}

	return request, nil
}

// ListByUser returns the user's requests, newest first.
func (repository *postgresRepository) ListByUser(context context.Context, userID string) ([]*BookRequest, error) {
	q := schema.SocialBookRequest
	query := selectColumns() + fmt.Sprintf(" WHERE %s = $1 ORDER BY %s DESC", q.UserID, q.CreatedAt)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_request_repo_list_by_user_failed: %w", err)
	}

	return collectRequests(rows)
}

// List returns one page of requests for the admin panel.
func (repository *postgresRepository) List(context context.Context, status Status, limit, offset int) ([]*BookRequest, error) {
	q := schema.SocialBookRequest

	var query string
	var args []any
	if status == "" {
		query = selectColumns() + fmt.Sprintf(" ORDER BY %s DESC LIMIT $1 OFFSET $2", q.CreatedAt)
		args = []any{limit, offset}
	} else {
		query = selectColumns() + fmt.Sprintf(" WHERE %s = $1 ORDER BY %s DESC LIMIT $2 OFFSET $3", q.Status, q.CreatedAt)
		args = []any{status, limit, offset}
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_request_repo_list_failed: %w", err)
	}

	return collectRequests(rows)
}

// UpdateStatus moves a request through the workflow.
func (repository *postgresRepository) UpdateStatus(context context.Context, id string, status Status) error {
	q := schema.SocialBookRequest
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1",
		q.Table, q.Status, q.UpdatedAt, q.ID)

	tag, err := repository.pool.Exec(context, query, id, status)
	if err != nil {
		return fmt.Errorf("postgres_request_repo_update_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Book request")
	}

	return nil
}
