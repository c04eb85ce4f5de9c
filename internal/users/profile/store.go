// Copyright (c) 2026 Quillshelf. All rights reserved.

package profile

import "context"

// Repository defines the data access contract for reader profiles.
type Repository interface {
	// FindByUserID returns the profile belonging to the given account.
	//
	// Returns [apperr.NotFound] if no profile row exists.
	FindByUserID(ctx context.Context, userID string) (*Profile, error)

	// Upsert creates or replaces the profile row keyed by user id.
	//
	// Upsert rather than insert so a profile lost to a partial registration
	// can heal on the next update.
	Upsert(ctx context.Context, profile *Profile) error

	// UpdateAvatar replaces only the avatar URL.
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
}
