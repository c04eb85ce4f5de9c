// Copyright (c) 2026 Quillshelf. All rights reserved.

package loader_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillshelf/quillshelf/pkg/loader"
)

// sliceFetcher serves windows of a fixed backing slice and counts calls.
type sliceFetcher struct {
	mu    sync.Mutex
	data  []int
	calls int
}

func (f *sliceFetcher) fetch(_ context.Context, offset, limit int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if offset >= len(f.data) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.data) {
		end = len(f.data)
	}
	out := make([]int, end-offset)
	copy(out, f.data[offset:end])
	return out, nil
}

func (f *sliceFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func intRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

/*
TestLoader_LoadThenLoadMore walks a 25-item list in pages of 10 and verifies
append order and exhaustion after the short final page.
*/
func TestLoader_LoadThenLoadMore(t *testing.T) {
	ctx := context.Background()
	f := &sliceFetcher{data: intRange(25)}
	l := loader.New(f.fetch, 10)

	require.NoError(t, l.Load(ctx))
	assert.Equal(t, 10, l.Len())
	assert.True(t, l.HasMore())

	issued, err := l.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, 20, l.Len())
	assert.True(t, l.HasMore())

	issued, err = l.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, 25, l.Len())
	assert.False(t, l.HasMore())

	// Items arrive in backing order with no duplicates.
	assert.Equal(t, intRange(25), l.Items())
}

/*
TestLoader_ExhaustedLoadMoreIsNoOp verifies that once a short page marks the
list exhausted, further load-more calls issue no fetch.
*/
func TestLoader_ExhaustedLoadMoreIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := &sliceFetcher{data: intRange(4)}
	l := loader.New(f.fetch, 10)

	require.NoError(t, l.Load(ctx))
	assert.False(t, l.HasMore())
	before := f.callCount()

	issued, err := l.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Equal(t, before, f.callCount())
	assert.Equal(t, 4, l.Len())
}

/*
TestLoader_InFlightGuard verifies that a load-more issued while another fetch
is pending is dropped instead of producing a duplicate append.
*/
func TestLoader_InFlightGuard(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	l := loader.New(func(_ context.Context, offset, limit int) ([]int, error) {
		if offset > 0 {
			close(started)
			<-release
		}
		return intRange(limit), nil
	}, 10)

	require.NoError(t, l.Load(ctx))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		issued, err := l.LoadMore(ctx)
		assert.True(t, issued)
		assert.NoError(t, err)
	}()

	<-started
	issued, err := l.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, issued, "second load-more must be ignored while the first is pending")

	close(release)
	wg.Wait()
	assert.Equal(t, 20, l.Len())
}

/*
TestLoader_StaleResponseDiscarded verifies the latest-wins rule: a reset-load
issued while an earlier load is pending wins, and the earlier response is
discarded when it finally arrives.
*/
func TestLoader_StaleResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	var mu sync.Mutex
	call := 0

	l := loader.New(func(_ context.Context, _, limit int) ([]int, error) {
		mu.Lock()
		call++
		n := call
		mu.Unlock()

		if n == 1 {
			close(firstStarted)
			<-releaseFirst
			return []int{-1, -2, -3}, nil
		}
		return intRange(limit), nil
	}, 10)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, l.Load(ctx))
	}()

	<-firstStarted
	require.NoError(t, l.Load(ctx))
	assert.Equal(t, intRange(10), l.Items())

	close(releaseFirst)
	wg.Wait()

	// The slow first response must not overwrite the newer result.
	assert.Equal(t, intRange(10), l.Items())
}

/*
TestLoader_LoadMoreError surfaces the fetch error but keeps the held list and
allows a retry.
*/
func TestLoader_LoadMoreError(t *testing.T) {
	ctx := context.Background()
	fail := true
	boom := errors.New("connection reset")

	l := loader.New(func(_ context.Context, offset, limit int) ([]int, error) {
		if offset > 0 && fail {
			return nil, boom
		}
		if offset >= 15 {
			return nil, nil
		}
		end := offset + limit
		if end > 15 {
			end = 15
		}
		return intRange(15)[offset:end], nil
	}, 10)

	require.NoError(t, l.Load(ctx))

	issued, err := l.LoadMore(ctx)
	assert.True(t, issued)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, l.Len())
	assert.True(t, l.HasMore())

	fail = false
	issued, err = l.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, issued)
	assert.Equal(t, 15, l.Len())
	assert.False(t, l.HasMore())
}

/*
TestLoader_Reset clears held items and re-arms exhaustion.
*/
func TestLoader_Reset(t *testing.T) {
	ctx := context.Background()
	f := &sliceFetcher{data: intRange(3)}
	l := loader.New(f.fetch, 10)

	require.NoError(t, l.Load(ctx))
	assert.False(t, l.HasMore())

	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.HasMore())

	require.NoError(t, l.Load(ctx))
	assert.Equal(t, 3, l.Len())
}
