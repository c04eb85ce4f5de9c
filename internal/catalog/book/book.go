// Copyright (c) 2026 Quillshelf. All rights reserved.

// Package book defines the catalog entities and discovery rules of the
// Quillshelf platform.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
package book

import (
	"time"
)

// Status represents the publishing state of a book in the catalog.
//
// # Lifecycle
//
// Uploads enter as Pending; an admin decision moves them to Published
// (visible in the public catalog) or Rejected.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
)

// IsValid reports whether the status is a known catalog state.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// Sort enumerates the catalog orderings.
type Sort string

const (
	SortNewest       Sort = "newest"       // created_at descending
	SortOldest       Sort = "oldest"       // created_at ascending
	SortTopRated     Sort = "top_rated"    // average rating descending, unrated last
	SortAlphabetical Sort = "alphabetical" // title ascending
)

// IsValid reports whether the sort key is one of the supported orderings.
func (s Sort) IsValid() bool {
	switch s {
	case SortNewest, SortOldest, SortTopRated, SortAlphabetical:
		return true
	}
	return false
}

// Query is the complete descriptor of one catalog fetch.
//
// # Design
//
// Every field that influences the result set lives here, so two equal
// descriptors always describe the same list. Handlers build it from query
// parameters; the repository consumes it verbatim.
type Query struct {
	Search string // case-insensitive substring over title OR author; empty = no filter
	Genre  string // exact match; empty or "All" = no filter
	Sort   Sort
	Page   int
	Limit  int
}

// Offset returns the SQL OFFSET derived from Page and Limit.
func (q Query) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Book represents one catalog entry.
//
// # Rating Sentinel
//
// AvgRating is a pointer: nil means "no reviews yet" and is rendered as null,
// never as 0. This keeps an unrated book distinguishable from a book whose
// reviews average to a low score.
type Book struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Genre       string     `json:"genre"`
	CoverURL    string     `json:"cover_url,omitempty"`
	DocumentURL string     `json:"document_url,omitempty"`
	PageCount   int        `json:"page_count"`
	SeriesName  string     `json:"series_name,omitempty"`
	SeriesOrder *int       `json:"series_order,omitempty"` // meaningful only with SeriesName
	Status      Status     `json:"status"`
	UploaderID  string     `json:"uploader_id"`
	AvgRating   *float64   `json:"avg_rating"`
	ReviewCount int        `json:"review_count"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Detail is the full book view for the detail page: the book plus its
// series shelf and same-genre recommendations.
type Detail struct {
	Book    *Book   `json:"book"`
	Series  []*Book `json:"series,omitempty"`
	Related []*Book `json:"related,omitempty"`
}

// Stats holds the catalog-wide counters shown on the admin dashboard.
type Stats struct {
	Published int `json:"published"`
	Pending   int `json:"pending"`
}
