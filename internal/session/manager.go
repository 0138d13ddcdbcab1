package session

import (
	"sync"

	"github.com/google/uuid"
)

// Manager owns the live sessions, keyed by id. Callers that do not care
// about multiple documents use the default session by passing an empty id.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	defaultID string
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session with the given id. An empty id means the
// default session, which may not exist yet.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		id = m.defaultID
	}
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with the given id, creating it if
// needed. An empty id selects the default session.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		if m.defaultID == "" {
			m.defaultID = uuid.NewString()
		}
		id = m.defaultID
	}
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := New(id)
	m.sessions[id] = s
	return s
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	if id == m.defaultID {
		m.defaultID = ""
	}
}
