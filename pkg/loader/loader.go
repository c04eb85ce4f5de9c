// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package loader implements the incremental "load more" list pattern shared by
the catalog, review, book-request, and library views.

It wraps a paged fetch function and maintains the held item list, the
exhaustion flag, and the guards that the naive effect-driven pattern lacks:

  - In-flight guard: a second "load more" issued before the first resolves is
    ignored rather than producing a duplicate append.
  - Request token: every reset-load takes a monotonically increasing token; a
    response belonging to a superseded load is discarded, so rapid filter
    changes can never apply out of order (latest wins).
  - Exhaustion: a fetch returning fewer than the page size marks the list as
    complete; further "load more" calls are no-ops until the next reset.
*/
package loader

import (
	"context"
	"sync"
)

// FetchFunc retrieves one window of items: `limit` items starting at `offset`.
//
// A result shorter than limit signals that the underlying list is exhausted.
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Loader drives incremental loading over a [FetchFunc].
//
// # Concurrency
//
// All methods are safe for concurrent use. The fetch itself runs outside the
// internal lock so slow responses never block state inspection.
type Loader[T any] struct {
	fetch    FetchFunc[T]
	pageSize int

	mu        sync.Mutex
	items     []T
	exhausted bool
	inFlight  bool
	token     uint64 // bumped on every reset-load; stale responses are discarded
}

// New constructs a Loader with the given fetch function and page size.
func New[T any](fetch FetchFunc[T], pageSize int) *Loader[T] {
	return &Loader[T]{fetch: fetch, pageSize: pageSize}
}

// Load performs a reset-load: offset 0, replacing the held list.
//
// Call it on initial mount and on every filter/sort descriptor change. A Load
// issued while another request is in flight supersedes it; the earlier
// response is discarded when it eventually arrives.
func (l *Loader[T]) Load(ctx context.Context) error {
	l.mu.Lock()
	l.token++
	requestToken := l.token
	l.exhausted = false
	l.inFlight = true
	l.mu.Unlock()

	fetched, err := l.fetch(ctx, 0, l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()

	// A newer Load has superseded this request: its response is stale and
	// must not be applied, regardless of success or failure.
	if requestToken != l.token {
		return nil
	}
	l.inFlight = false

	if err != nil {
		return err
	}

	l.items = fetched
	l.exhausted = len(fetched) < l.pageSize
	return nil
}

// LoadMore appends the next window to the held list.
//
// It reports whether a fetch was actually issued: false means the call was
// ignored because the list is exhausted or another request is in flight.
func (l *Loader[T]) LoadMore(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.exhausted || l.inFlight {
		l.mu.Unlock()
		return false, nil
	}
	requestToken := l.token
	offset := len(l.items)
	l.inFlight = true
	l.mu.Unlock()

	fetched, err := l.fetch(ctx, offset, l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()

	if requestToken != l.token {
		// Filters changed mid-flight; discard the append.
		return false, nil
	}
	l.inFlight = false

	if err != nil {
		return true, err
	}

	l.items = append(l.items, fetched...)
	if len(fetched) < l.pageSize {
		l.exhausted = true
	}
	return true, nil
}

// Items returns a copy of the currently held list.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of currently held items.
func (l *Loader[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// HasMore reports whether further "load more" fetches may yield data.
func (l *Loader[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.exhausted
}

// Reset clears the held list and the exhaustion flag without fetching.
//
// Any in-flight response is invalidated via the token bump.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.token++
	l.items = nil
	l.exhausted = false
	l.inFlight = false
}
