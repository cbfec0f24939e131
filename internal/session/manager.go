// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/curioquest/internal/metrics"
)

// Manager maps session ids to their State.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*State
	now      func() time.Time
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{sessions: map[string]*State{}, now: time.Now}
}

// Get returns the session with id. An empty or unknown id starts a new
// session under a fresh id; created reports that case.
func (m *Manager) Get(id string) (*State, bool) {
	if id != "" {
		if existing, ok := m.Lookup(id); ok {
			return existing, false
		}
	}

	s := newState(uuid.NewString(), m.now())
	m.mu.Lock()
	m.sessions[s.id] = s
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
	return s, true
}

// Lookup returns an existing session without creating one.
func (m *Manager) Lookup(id string) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
