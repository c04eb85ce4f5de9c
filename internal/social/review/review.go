// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package review implements book reviews and their social layer: likes, flags,
and admin moderation.

# Like Semantics

Likes toggle on the (review, user) unique pair. The response carries the
membership and a count re-derived from the store, so an optimistic client
flip reconciles to the truth even after races.

# Flag Semantics

Flags are one-shot: the second flag from the same user trips the unique pair
and surfaces as a distinct Conflict outcome rather than a generic failure.
*/
package review

import "time"

// FlagStatus is the moderation state of a flag.
type FlagStatus string

const (
	FlagOpen      FlagStatus = "open"
	FlagDismissed FlagStatus = "dismissed"
)

// Review is one user's rating and comment on a book.
type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"` // 1 to 5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// LikeCount and Reviewer are hydrated by list queries.
	LikeCount int       `json:"like_count"`
	Reviewer  *Reviewer `json:"reviewer,omitempty"`
}

// Reviewer is the public slice of the author's profile joined onto a review.
type Reviewer struct {
	UserID    string `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Flag is one user's report against a review.
type Flag struct {
	ID        string     `json:"id"`
	ReviewID  string     `json:"review_id"`
	UserID    string     `json:"user_id"`
	Reason    string     `json:"reason"`
	Status    FlagStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// LikeResult reports a like toggle: the membership plus a count re-derived
// from the store.
type LikeResult struct {
	ReviewID string `json:"review_id"`
	Liked    bool   `json:"liked"`
	Count    int    `json:"count"`
}

// BookReviews is one page of a book's reviews plus the viewer's liked id
// set, fetched together so the client can rebuild its like state.
type BookReviews struct {
	Reviews  []*Review `json:"reviews"`
	LikedIDs []string  `json:"liked_ids"`
}

// Flagged is one entry in the moderation queue: a review with its open flag
// count and the distinct reasons reported.
type Flagged struct {
	Review    *Review  `json:"review"`
	FlagCount int      `json:"flag_count"`
	Reasons   []string `json:"reasons"`
}
