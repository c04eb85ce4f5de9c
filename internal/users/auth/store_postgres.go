// Copyright (c) 2026 Quillshelf. All rights reserved.

// PostgreSQL implementations of the auth repositories.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
	"github.com/quillshelf/quillshelf/internal/platform/database/schema"
	"github.com/quillshelf/quillshelf/internal/platform/sec"
)

// accountSelect is the SELECT head shared by every account lookup, so the
// column order stays in lockstep with scanUser.
func accountSelect() string {
	u := schema.UserAccount
	return fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s FROM %s",
		u.ID, u.Username, u.Email, u.Password, u.Role, u.IsVerified,
		u.IsActive, u.LastLoginAt, u.CreatedAt, u.UpdatedAt, u.Table)
}

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record into the users.account table.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - user: The user entity to persist.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	u := schema.UserAccount
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		u.Table, u.ID, u.Username, u.Email, u.Password, u.Role,
		u.IsVerified, u.IsActive, u.CreatedAt, u.UpdatedAt)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByEmail retrieves a user record by their unique email address.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u := schema.UserAccount
	query := accountSelect() + fmt.Sprintf(" WHERE %s = $1 AND %s IS NULL", u.Email, u.DeletedAt)
	return repository.scanUser(repository.pool.QueryRow(ctx, query, email), "User not found with this email", "find_by_email")
}

// FindByUsername retrieves a user record by their unique username.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	u := schema.UserAccount
	query := accountSelect() + fmt.Sprintf(" WHERE %s = $1 AND %s IS NULL", u.Username, u.DeletedAt)
	return repository.scanUser(repository.pool.QueryRow(ctx, query, username), "User not found with this username", "find_by_username")
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	u := schema.UserAccount
	query := accountSelect() + fmt.Sprintf(" WHERE %s = $1 AND %s IS NULL", u.ID, u.DeletedAt)
	return repository.scanUser(repository.pool.QueryRow(ctx, query, id), "User not found", "find_by_id")
}

// scanUser maps a single account row into a [*User].
func (repository *PostgresUserRepository) scanUser(row pgx.Row, notFoundMsg, op string) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsVerified,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(notFoundMsg)
		}
		return nil, fmt.Errorf("postgres_user_repo_%s_failed: %w", op, err)
	}

	return user, nil
}

// UpdatePassword updates only the password hash for a specific user.
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, newHash string) error {
	u := schema.UserAccount
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s IS NULL",
		u.Table, u.Password, u.UpdatedAt, u.ID, u.DeletedAt)

	_, err := repository.pool.Exec(ctx, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

// UpdateRole replaces the account's authorization role.
func (repository *PostgresUserRepository) UpdateRole(ctx context.Context, userID string, role sec.UserRole) error {
	u := schema.UserAccount
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s IS NULL",
		u.Table, u.Role, u.UpdatedAt, u.ID, u.DeletedAt)

	tag, err := repository.pool.Exec(ctx, query, userID, role, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_role_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}

// TouchLogin records the last successful login timestamp.
func (repository *PostgresUserRepository) TouchLogin(ctx context.Context, userID string) error {
	u := schema.UserAccount
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1", u.Table, u.LastLoginAt, u.ID)

	_, err := repository.pool.Exec(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_touch_login_failed: %w", err)
	}
	return nil
}

// SoftDelete marks a user account as deleted using their ID.
func (repository *PostgresUserRepository) SoftDelete(ctx context.Context, id string) error {
	u := schema.UserAccount
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1", u.Table, u.DeletedAt, u.ID)

	_, err := repository.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_soft_delete_failed: %w", err)
	}
	return nil
}

// ── Session Repository ───────────────────────────────────────────────────────

// sessionColumns lists every column the Session entity round-trips. RevokedAt
// stays out: it is write-only bookkeeping set by Revoke.
func sessionColumns() string {
	s := schema.UserSession
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		s.ID, s.UserID, s.TokenHash, s.UserAgent, s.IPAddress,
		s.ExpiresAt, s.IsRevoked, s.CreatedAt)
}

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// Create persists a new session record into the users.session table.
func (repository *PostgresSessionRepository) Create(ctx context.Context, session *Session) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		schema.UserSession.Table, sessionColumns())

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

// FindByTokenHash retrieves an active session by its unique token hash.
func (repository *PostgresSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	s := schema.UserSession
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = FALSE AND %s > NOW()",
		sessionColumns(), s.Table, s.TokenHash, s.IsRevoked, s.ExpiresAt)

	session := &Session{}
	err := repository.pool.QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session not found or expired")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

// Revoke marks a specific session as revoked.
func (repository *PostgresSessionRepository) Revoke(ctx context.Context, sessionID string) error {
	s := schema.UserSession
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1",
		s.Table, s.IsRevoked, s.RevokedAt, s.ID)

	_, err := repository.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}
	return nil
}

// RevokeAll marks all active sessions for a user as revoked.
func (repository *PostgresSessionRepository) RevokeAll(ctx context.Context, userID string) error {
	s := schema.UserSession
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1 AND %s = FALSE",
		s.Table, s.IsRevoked, s.RevokedAt, s.UserID, s.IsRevoked)

	_, err := repository.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}

// DeleteExpired permanently removes all sessions that have passed their expiration date.
func (repository *PostgresSessionRepository) DeleteExpired(ctx context.Context) error {
	s := schema.UserSession
	query := fmt.Sprintf("DELETE FROM %s WHERE %s <= NOW()", s.Table, s.ExpiresAt)

	_, err := repository.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return nil
}
