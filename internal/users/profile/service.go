// Copyright (c) 2026 Quillshelf. All rights reserved.

package profile

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/quillshelf/quillshelf/internal/platform/constants"
	"github.com/quillshelf/quillshelf/internal/platform/storage"
)

// Service implements the profile use cases.
type Service struct {
	repository Repository
	blobs      storage.Store
}

// NewService constructs a profile [Service].
func NewService(repository Repository, blobs storage.Store) *Service {
	return &Service{repository: repository, blobs: blobs}
}

// InitProfile creates the minimal profile row for a freshly registered
// account. Satisfies the auth domain's ProfileInitializer contract.
func (service *Service) InitProfile(ctx context.Context, userID, nickname string) error {
	return service.repository.Upsert(ctx, &Profile{
		UserID:   userID,
		Nickname: nickname,
	})
}

// Get returns the profile for the given account id.
func (service *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	return service.repository.FindByUserID(ctx, userID)
}

// UpdateInput holds the mutable profile fields.
type UpdateInput struct {
	Nickname    string
	RealName    string
	DateOfBirth *time.Time
}

// Update replaces the mutable profile fields, preserving the avatar.
func (service *Service) Update(ctx context.Context, userID string, input UpdateInput) (*Profile, error) {
	// Preserve the existing avatar across the upsert. A missing row is fine;
	// the upsert heals profiles lost to a partial registration.
	avatarURL := ""
	if existing, err := service.repository.FindByUserID(ctx, userID); err == nil {
		avatarURL = existing.AvatarURL
	}

	profile := &Profile{
		UserID:      userID,
		Nickname:    input.Nickname,
		RealName:    input.RealName,
		AvatarURL:   avatarURL,
		DateOfBirth: input.DateOfBirth,
	}

	if err := service.repository.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// UploadAvatar stores the avatar blob and records its public URL.
//
// The object name is keyed by user id so re-uploads replace the old avatar
// instead of accumulating blobs.
func (service *Service) UploadAvatar(ctx context.Context, userID, fileExt string, content io.Reader) (string, error) {
	objectName := fmt.Sprintf("%s%s", userID, fileExt)

	url, err := service.blobs.Save(ctx, constants.BucketAvatars, objectName, content)
	if err != nil {
		return "", err
	}

	if err := service.repository.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}

	return url, nil
}
