package memory

import (
	"sync"

	"assessment-service/internal/domain"
	"assessment-service/internal/wizard"
)

// SessionStore is an in-memory implementation of wizard.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*wizard.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*wizard.Session),
	}
}

func (s *SessionStore) GetOrCreate(key string, def domain.Wizard) *wizard.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[key]; ok {
		return session
	}
	session := wizard.NewSession(key, def)
	s.sessions[key] = session
	return session
}

func (s *SessionStore) Get(key string) (*wizard.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[key]
	return session, ok
}

func (s *SessionStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}
