// Copyright (c) 2026 Quillshelf. All rights reserved.

package reading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveRecorder counts persistence callbacks and remembers the last save.
type saveRecorder struct {
	calls int
	page  int
	total int
}

func (r *saveRecorder) persist(page, total int) {
	r.calls++
	r.page = page
	r.total = total
}

// openReady opens a session straight into Ready at the given position.
func openReady(persist PersistFunc, initialPage, total int) *Session {
	session := NewSession(persist)
	session.Open(initialPage)
	session.DocumentReady(total)
	return session
}

/*
TestSession_Lifecycle verifies the state transitions: Closed -> Loading on
open, Ready once the document reports its size, Failed on load error, and
Closed again on close.
*/
func TestSession_Lifecycle(t *testing.T) {
	session := NewSession(nil)
	assert.Equal(t, StateClosed, session.State())

	session.Open(1)
	assert.Equal(t, StateLoading, session.State())

	session.DocumentReady(100)
	assert.Equal(t, StateReady, session.State())
	assert.Equal(t, 100, session.Total())

	session.Close()
	assert.Equal(t, StateClosed, session.State())

	failed := NewSession(nil)
	failed.Open(1)
	failed.DocumentFailed()
	assert.Equal(t, StateFailed, failed.State())
}

/*
TestSession_OpenClampsStoredPage verifies that an opening hint beyond the
document end is clamped to the last page, and a sub-1 hint to the first.
*/
func TestSession_OpenClampsStoredPage(t *testing.T) {
	tests := []struct {
		name     string
		hint     int
		total    int
		wantPage int
	}{
		{name: "hint within range is kept", hint: 42, total: 100, wantPage: 42},
		{name: "hint past the end lands on the last page", hint: 250, total: 100, wantPage: 100},
		{name: "zero hint lands on the first page", hint: 0, total: 100, wantPage: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := openReady(nil, tt.hint, tt.total)
			assert.Equal(t, tt.wantPage, session.Page())
		})
	}
}

/*
TestSession_NavigatePersistsOncePerMove verifies the core contract: every
accepted move fires exactly one persistence callback, and rejected moves
fire none.
*/
func TestSession_NavigatePersistsOncePerMove(t *testing.T) {
	recorder := &saveRecorder{}
	session := openReady(recorder.persist, 1, 10)

	page, err := session.Navigate(1)
	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, 1, recorder.calls)

	page, err = session.Navigate(3)
	require.NoError(t, err)
	assert.Equal(t, 5, page)
	assert.Equal(t, 2, recorder.calls)
	assert.Equal(t, 5, recorder.page)
	assert.Equal(t, 10, recorder.total)

	// Rejected move: no state change, no save.
	page, err = session.Navigate(100)
	require.ErrorIs(t, err, ErrPageOutOfRange)
	assert.Equal(t, 5, page)
	assert.Equal(t, 5, session.Page())
	assert.Equal(t, 2, recorder.calls)
}

/*
TestSession_NavigateRejectsOutOfRange verifies both boundaries: backing off
page 1 and stepping past the last page leave the session untouched.
*/
func TestSession_NavigateRejectsOutOfRange(t *testing.T) {
	session := openReady(nil, 1, 3)

	_, err := session.Navigate(-1)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	assert.Equal(t, 1, session.Page())

	_, err = session.JumpTo(4)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	assert.Equal(t, 1, session.Page())

	_, err = session.JumpTo(0)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	assert.Equal(t, 1, session.Page())
}

/*
TestSession_JumpToInputReverts verifies free-text jumping: garbage and
out-of-range input revert to the current page without error, valid input
moves and persists.
*/
func TestSession_JumpToInputReverts(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantPage  int
		wantSaves int
	}{
		{name: "valid page moves", input: "7", wantPage: 7, wantSaves: 1},
		{name: "padded input is accepted", input: "  3 ", wantPage: 3, wantSaves: 1},
		{name: "non-integer reverts", input: "banana", wantPage: 5, wantSaves: 0},
		{name: "empty reverts", input: "", wantPage: 5, wantSaves: 0},
		{name: "past the end reverts", input: "999", wantPage: 5, wantSaves: 0},
		{name: "zero reverts", input: "0", wantPage: 5, wantSaves: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &saveRecorder{}
			session := openReady(recorder.persist, 5, 10)

			got := session.JumpToInput(tt.input)

			assert.Equal(t, tt.wantPage, got)
			assert.Equal(t, tt.wantPage, session.Page())
			assert.Equal(t, tt.wantSaves, recorder.calls)
		})
	}
}

/*
TestSession_AnonymousNeverPersists verifies that a session without a
persistence callback navigates freely but writes nothing.
*/
func TestSession_AnonymousNeverPersists(t *testing.T) {
	session := openReady(nil, 1, 20)

	for i := 0; i < 5; i++ {
		_, err := session.Navigate(1)
		require.NoError(t, err)
	}

	assert.Equal(t, 6, session.Page())
}

/*
TestSession_NavigationRequiresReady verifies that Loading, Failed, and Closed
sessions reject navigation.
*/
func TestSession_NavigationRequiresReady(t *testing.T) {
	session := NewSession(nil)

	_, err := session.Navigate(1)
	assert.ErrorIs(t, err, ErrNotReady)

	session.Open(1)
	_, err = session.JumpTo(2)
	assert.ErrorIs(t, err, ErrNotReady)

	session.DocumentFailed()
	_, err = session.Navigate(1)
	assert.ErrorIs(t, err, ErrNotReady)
}
