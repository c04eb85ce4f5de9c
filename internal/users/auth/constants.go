// Copyright (c) 2026 Quillshelf. All rights reserved.

package auth

import "time"

// Token lifetimes for the authentication flows.
const (
	// AccessTokenTTL keeps the leak window of a stolen JWT short.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh-token session.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// ResetTokenTTL bounds the validity of a password-reset token in Redis.
	ResetTokenTTL = 30 * time.Minute

	// refreshTokenBytes is the entropy of a freshly issued refresh token.
	refreshTokenBytes = 32
)
