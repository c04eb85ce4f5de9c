// Copyright (c) 2026 Quillshelf. All rights reserved.

package reading

import "time"

// Progress is one reader's persisted position inside one book.
//
// # Identity
//
// One row per (user, book); saves upsert in place. TotalPages is stored
// alongside the page so the Continue Reading shelf can render a completion
// bar without joining the catalog.
type Progress struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	BookID      string    `json:"book_id"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	LastReadAt  time.Time `json:"last_read_at"`
}
