package redis

import (
	"context"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"assessment-service/internal/wizard"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of wizard.SessionStore.
// Notes:
//   - It still keeps a local in-memory map of sessions because the wizard
//     runtime state is owned by one instance for the duration of a visit.
//   - Redis marks session liveness so operators can observe active wizards
//     and stale keys expire with the visit TTL.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*wizard.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(key), def.ID, s.ttl).Err()
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
	if _, ok := s.sessions[key]; !ok {
		return
	}
	delete(s.sessions, key)
	_ = s.client.Del(context.Background(), s.key(key)).Err()
}

func (s *SessionStore) key(sessionKey string) string {
	return "wizard:session:" + sessionKey
}
