package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"focusd/internal/logging"
)

// Session binds a task context and its domain to an opaque session id for
// one browsing/focus period.
type Session struct {
	ID      string
	Domain  string
	Context *TaskContext
	Created time.Time
	Updated time.Time
}

// Manager keeps per-session task contexts isolated so concurrent sessions
// never observe each other's context.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   logging.Logger
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logging.NewComponentLogger("session"),
	}
}

// NewSessionID generates a fresh opaque session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Bind replaces the task context for a session, creating the session when it
// does not exist yet. An empty id gets a generated one. Returns the
// effective session id.
func (m *Manager) Bind(id, domain string, tc *TaskContext) string {
	if id == "" {
		id = NewSessionID()
	}
	if tc == nil {
		tc = NewTaskContext()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if existing, ok := m.sessions[id]; ok {
		existing.Domain = domain
		existing.Context = tc
		existing.Updated = now
	} else {
		m.sessions[id] = &Session{
			ID:      id,
			Domain:  domain,
			Context: tc,
			Created: now,
			Updated: now,
		}
	}
	m.logger.Debug("bound context with %d pairs to session %s (domain=%s)", tc.Len(), id, domain)
	return id
}

// Context returns the task context bound to a session, or an empty context
// when the session is unknown.
func (m *Manager) Context(id string) *TaskContext {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[id]; ok && s.Context != nil {
		return s.Context
	}
	return NewTaskContext()
}

// Get returns the session for an id and whether it exists.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
