// Copyright (c) 2026 Quillshelf. All rights reserved.

package reading

import "sync"

// Key identifies one live session: one reader inside one book.
//
// ReaderID is the account id for signed-in readers, or a server-issued
// anonymous token for guests.
type Key struct {
	ReaderID string
	BookID   string
}

// Manager holds the live reading sessions behind a mutex.
//
// Sessions are in-memory only; a restart loses open sessions but never
// persisted progress, and readers simply reopen.
type Manager struct {
	mu       sync.Mutex
	sessions map[Key]*Session
}

// NewManager constructs an empty session [Manager].
func NewManager() *Manager {
	return &Manager{sessions: make(map[Key]*Session)}
}

// Put registers a session under the key, replacing any previous one.
func (m *Manager) Put(key Key, session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = session
}

// Get returns the live session for the key, or nil.
func (m *Manager) Get(key Key) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[key]
}

// Remove closes and drops the session for the key. Removing an unknown key
// is a no-op.
func (m *Manager) Remove(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[key]; ok {
		session.Close()
		delete(m.sessions, key)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
