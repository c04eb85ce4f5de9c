// Copyright (c) 2026 Quillshelf. All rights reserved.

/*
Package reading implements the page-level reading experience: an in-memory
session state machine per open book, a manager holding the live sessions,
and persisted reading progress for the Continue Reading shelf.

# State Machine

A session moves Closed -> Loading -> Ready or Failed. Only a Ready session
accepts navigation; every accepted move lands inside [1, total] and triggers
exactly one persistence callback. Rejected moves leave the session untouched.
*/
package reading

import (
	"errors"
	"strconv"
	"strings"
	"sync"
)

// State is the lifecycle phase of a reading session.
type State string

const (
	StateClosed  State = "closed"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

var (
	// ErrPageOutOfRange rejects a move landing outside [1, total].
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrNotReady rejects navigation before the document is ready.
	ErrNotReady = errors.New("session is not ready")
)

// PersistFunc receives every accepted page move. The session fires it once
// per successful navigation and never inspects its outcome; the wiring layer
// owns the write and its error handling.
type PersistFunc func(page, total int)

// Session is one user's position inside one open book.
//
// # Concurrency
//
// All methods are safe for concurrent use. The persistence callback is
// invoked outside the lock.
//
// # Anonymity
//
// A session built with a nil [PersistFunc] is anonymous: navigation mutates
// local state only and no progress is ever written.
type Session struct {
	mu      sync.Mutex
	state   State
	page    int
	total   int
	persist PersistFunc
}

// NewSession returns a closed session. Pass a nil persist for anonymous
// reading.
func NewSession(persist PersistFunc) *Session {
	return &Session{state: StateClosed, persist: persist}
}

// Open moves the session to Loading and records the page hint. The hint is
// clamped once the document reports its page count.
func (s *Session) Open(initialPage int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if initialPage < 1 {
		initialPage = 1
	}
	s.state = StateLoading
	s.page = initialPage
	s.total = 0
}

// DocumentReady transitions Loading -> Ready with the final page count.
//
// The opening hint is clamped to [1, total], so a stored position past the
// end of a re-uploaded shorter document lands on the last page.
func (s *Session) DocumentReady(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if total < 1 {
		total = 1
	}
	s.state = StateReady
	s.total = total
	if s.page < 1 {
		s.page = 1
	}
	if s.page > total {
		s.page = total
	}
}

// DocumentFailed transitions the session to Failed. Navigation is rejected
// until the document is reopened.
func (s *Session) DocumentFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFailed
}

// Close transitions the session to Closed. The last accepted page stays
// persisted; nothing further is written.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClosed
}

// Navigate moves by delta pages (negative for backwards).
//
// A move landing outside [1, total] is rejected with [ErrPageOutOfRange] and
// the current page is unchanged. An accepted move fires the persistence
// callback exactly once.
func (s *Session) Navigate(delta int) (int, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return s.page, ErrNotReady
	}

	target := s.page + delta
	if target < 1 || target > s.total {
		page := s.page
		s.mu.Unlock()
		return page, ErrPageOutOfRange
	}

	s.page = target
	total := s.total
	persist := s.persist
	s.mu.Unlock()

	if persist != nil {
		persist(target, total)
	}
	return target, nil
}

// JumpTo moves directly to an absolute page, same acceptance rule as
// [Navigate].
func (s *Session) JumpTo(page int) (int, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return s.page, ErrNotReady
	}

	if page < 1 || page > s.total {
		current := s.page
		s.mu.Unlock()
		return current, ErrPageOutOfRange
	}

	s.page = page
	total := s.total
	persist := s.persist
	s.mu.Unlock()

	if persist != nil {
		persist(page, total)
	}
	return page, nil
}

// JumpToInput accepts free text from a page input box.
//
// Non-integer or out-of-range input reverts: the current page is returned,
// no state changes, and no error escalates. Valid input behaves like
// [JumpTo].
func (s *Session) JumpToInput(text string) int {
	target, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return s.Page()
	}

	page, err := s.JumpTo(target)
	if err != nil {
		return s.Page()
	}
	return page
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Page returns the current page (the opening hint while Loading).
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Total returns the document page count, 0 until Ready.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}
