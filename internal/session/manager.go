package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/recipe-collection-be/internal/metrics"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Manager owns the live sessions of the process. Sessions are never persisted.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a new session with a random ID.
func (m *Manager) Create() *Session {
	s := New(uuid.New().String(), m.now())

	m.mu.Lock()
	m.sessions[s.ID()] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()
	return s
}

// Get returns the session with id and records activity on it.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.Touch(m.now())
	return s, nil
}

// Delete discards a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep discards sessions idle for longer than idle and returns how many were removed.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	metrics.SessionsSweptTotal.Add(float64(removed))
	return removed
}
