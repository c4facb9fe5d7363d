package memory

import (
	"sync"

	"lecture-quiz/internal/session"
)

// SessionStore is an in-memory implementation of app.SessionRegistry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session.Session),
	}
}

func (s *SessionStore) Register(id string, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *SessionStore) Get(id string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports how many sessions are registered.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
