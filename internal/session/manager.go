// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a session ID is unknown to the manager.
var ErrNotFound = errors.New("session not found")

// Manager tracks live sessions by ID. The TUI runs a single session through
// the manager; the REPL and any future multi-conversation surface share the
// same registry.
type Manager struct {
	mu            sync.RWMutex
	sessions      map[string]*Session
	welcome       string
	historyWindow int
}

// NewManager creates a session manager. Welcome and historyWindow apply to
// every session it creates; zero values fall back to the session defaults.
func NewManager(welcome string, historyWindow int) *Manager {
	return &Manager{
		sessions:      make(map[string]*Session),
		welcome:       welcome,
		historyWindow: historyWindow,
	}
}

// Create starts a new session and registers it.
func (m *Manager) Create() *Session {
	s := New(m.welcome, m.historyWindow)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove closes and unregisters a session. Removing an unknown ID is a
// no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// List returns all live sessions ordered by creation time.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
