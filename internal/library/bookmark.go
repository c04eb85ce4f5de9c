// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package library implements the reader's personal shelf: bookmarked books and
the Continue Reading list.

# Toggle Semantics

Bookmarking is a toggle keyed (user, book). The store relies on the unique
pair constraint, so concurrent double-taps collapse into one membership flip
and the response always reports the resulting membership for the client to
reconcile against its optimistic state.
*/
package library

import (
	"time"

	"github.com/quillshelf/quillshelf/internal/catalog/book"
)

// Bookmark marks one book as saved by one user.
type Bookmark struct {
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleResult reports the membership after a toggle.
type ToggleResult struct {
	BookID     string `json:"book_id"`
	Bookmarked bool   `json:"bookmarked"`
}

// ContinueItem is one entry on the Continue Reading shelf: a book the user
// has read past the first page, with their position.
type ContinueItem struct {
	Book        *book.Book `json:"book"`
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"`
	LastReadAt  time.Time  `json:"last_read_at"`
}
