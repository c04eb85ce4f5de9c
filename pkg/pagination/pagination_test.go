// Copyright (c) 2026 Quillshelf. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillshelf/quillshelf/pkg/pagination"
)

/*
TestParams_Offset verifies the page-to-offset arithmetic.
*/
func TestParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		page   int
		limit  int
		offset int
	}{
		{"first_page", 1, 10, 0},
		{"second_page", 2, 10, 10},
		{"fifth_page_small_limit", 5, 5, 20},
		{"zero_page_clamps", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagination.Params{Page: tt.page, Limit: tt.limit}
			assert.Equal(t, tt.offset, p.Offset())
		})
	}
}

/*
TestNewMeta verifies total page calculation and the derived has_more flag.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(1, 10, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasMore)

	last := pagination.NewMeta(3, 10, 25)
	assert.False(t, last.HasMore)
}

/*
TestNewPageMeta verifies exhaustion detection without a COUNT query: a short
page means no more data.
*/
func TestNewPageMeta(t *testing.T) {
	full := pagination.NewPageMeta(1, 10, 10)
	assert.True(t, full.HasMore)

	short := pagination.NewPageMeta(2, 10, 3)
	assert.False(t, short.HasMore)

	empty := pagination.NewPageMeta(3, 10, 0)
	assert.False(t, empty.HasMore)
}

/*
TestFromRequest verifies query parsing and clamping of hostile values.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, pagination.DefaultLimit},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"negative_page", "?page=-2", 1, pagination.DefaultLimit},
		{"excessive_limit", "?limit=9999", 1, pagination.DefaultLimit},
		{"garbage_input", "?page=abc&limit=xyz", 1, pagination.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/books"+tt.query, nil)
			p := pagination.FromRequest(r)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}
