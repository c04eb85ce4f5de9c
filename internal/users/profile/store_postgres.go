// Copyright (c) 2026 Quillshelf. All rights reserved.

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillshelf/quillshelf/internal/platform/apperr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the profile Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByUserID retrieves a profile row by its owning account id.
func (repository *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*Profile, error) {
	const query = `
		SELECT userid, nickname, realname, avatarurl, dateofbirth, createdat, updatedat
		FROM users.profile
		WHERE userid = $1`

	profile := &Profile{}
	err := repository.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Nickname,
		&profile.RealName,
		&profile.AvatarURL,
		&profile.DateOfBirth,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Profile not found")
		}
		return nil, fmt.Errorf("postgres_profile_repo_find_failed: %w", err)
	}

	return profile, nil
}

// Upsert creates or replaces the profile row keyed by user id.
func (repository *PostgresRepository) Upsert(ctx context.Context, profile *Profile) error {
	const query = `
		INSERT INTO users.profile (userid, nickname, realname, avatarurl, dateofbirth, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (userid) DO UPDATE SET
			nickname    = EXCLUDED.nickname,
			realname    = EXCLUDED.realname,
			avatarurl   = EXCLUDED.avatarurl,
			dateofbirth = EXCLUDED.dateofbirth,
			updatedat   = EXCLUDED.updatedat`

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		profile.UserID,
		profile.Nickname,
		profile.RealName,
		profile.AvatarURL,
		profile.DateOfBirth,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_profile_repo_upsert_failed: %w", err)
	}

	return nil
}

// UpdateAvatar replaces only the avatar URL of an existing profile.
func (repository *PostgresRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	const query = `
		UPDATE users.profile
		SET avatarurl = $2, updatedat = $3
		WHERE userid = $1`

	tag, err := repository.pool.Exec(ctx, query, userID, avatarURL, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_profile_repo_update_avatar_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Profile not found")
	}

	return nil
}
