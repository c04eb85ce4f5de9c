// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package admin implements the platform administration surface: author-access
requests, the author roster, and the dashboard counters.

# Access Requests

A reader asks once to become an author. The pending-per-user uniqueness
lives in the database, so a repeat submit surfaces as a distinct Conflict.
Approval grants the author role; revocation demotes it back.
*/
package admin

import "time"

// AccessStatus is the lifecycle state of an author-access request.
type AccessStatus string

const (
	AccessPending  AccessStatus = "pending"
	AccessApproved AccessStatus = "approved"
	AccessRejected AccessStatus = "rejected"
	AccessRevoked  AccessStatus = "revoked"
)

// AccessRequest is one user's ask for author privileges.
type AccessRequest struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Message   string       `json:"message,omitempty"`
	Status    AccessStatus `json:"status"`
	DecidedBy *string      `json:"decided_by,omitempty"`
	DecidedAt *time.Time   `json:"decided_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Author is one roster entry on the admin's author list.
type Author struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardStats holds the count-only queries behind the admin dashboard.
type DashboardStats struct {
	Users          int `json:"users"`
	BooksPublished int `json:"books_published"`
	BooksPending   int `json:"books_pending"`
	Reviews        int `json:"reviews"`
}
