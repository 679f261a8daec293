package httpapi

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kokorolab/exposure-chat/exposure"
)

// managedSession pairs a session with a lock so two in-flight requests for
// the same token cannot interleave a turn.
type managedSession struct {
	mu   sync.Mutex
	sess *exposure.Session
}

// SessionManager holds the logged-in sessions, keyed by opaque token.
// Sessions live only in memory; a restart logs everyone out, and the plan
// store plus conversation log carry the durable state.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*managedSession)}
}

// Create mints a token for a fresh session.
func (m *SessionManager) Create(participantID string, day int) string {
	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = &managedSession{sess: exposure.NewSession(participantID, day)}
	m.mu.Unlock()
	return token
}

func (m *SessionManager) Get(token string) (*managedSession, bool) {
	m.mu.Lock()
	ms, ok := m.sessions[token]
	m.mu.Unlock()
	return ms, ok
}

func (m *SessionManager) Delete(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}
