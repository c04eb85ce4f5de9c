// Copyright (c) 2026 Quillshelf. All rights reserved.

// Package profile manages the reader-facing identity attached to an account.
//
// The account row (users.account) owns credentials and authorization; the
// profile row (users.profile) owns everything a reader shows to other
// readers: nickname, real name, avatar, date of birth.
package profile

import (
	"time"
)

// Profile represents the public identity of a reader.
type Profile struct {
	UserID      string     `json:"user_id"`
	Nickname    string     `json:"nickname"`
	RealName    string     `json:"real_name,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
