// Copyright (c) 2026 Quillshelf. All rights reserved.

// Service layer implementing the book request use cases.
package request

import (
	"context"

	"github.com/quillshelf/quillshelf/pkg/uuidv7"
)

// Service implements the book request use cases.
type Service struct {
	repository Repository
}

// NewService constructs a request [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// SubmitInput holds the fields a reader fills in when asking for a title.
type SubmitInput struct {
	Title  string
	Author string
	Note   string
}

// Submit files a new request, entering the workflow as pending.
func (service *Service) Submit(ctx context.Context, userID string, input SubmitInput) (*BookRequest, error) {
	entry := &BookRequest{
		ID:     uuidv7.New(),
		UserID: userID,
		Title:  input.Title,
		Author: input.Author,
		Note:   input.Note,
		Status: StatusPending,
	}

	if err := service.repository.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// Mine returns the caller's requests, newest first.
func (service *Service) Mine(ctx context.Context, userID string) ([]*BookRequest, error) {
	return service.repository.ListByUser(ctx, userID)
}

// List returns one page of requests for the admin panel, optionally
// filtered by status.
func (service *Service) List(ctx context.Context, status Status, limit, offset int) ([]*BookRequest, error) {
	return service.repository.List(ctx, status, limit, offset)
}

// Resolve moves a request into the given state. Status validity is checked
// at the delivery layer.
func (service *Service) Resolve(ctx context.Context, id string, status Status) (*BookRequest, error) {
	if err := service.repository.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return service.repository.FindByID(ctx, id)
}
