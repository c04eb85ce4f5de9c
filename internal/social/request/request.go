// Copyright (c) 2026 Quillshelf. All rights reserved.

// Package request implements book requests: readers asking for titles the
// catalog lacks, with an admin workflow resolving them.
package request

import "time"

// Status is the lifecycle state of a book request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDone      Status = "done" // the book was added to the catalog
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed" // resolved without a catalog entry
)

// IsValid reports whether the status is a known request state.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDone, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// BookRequest is one reader's ask for a missing title.
type BookRequest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	Note      string    `json:"note,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
