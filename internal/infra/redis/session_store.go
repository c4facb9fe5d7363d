package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lecture-quiz/internal/session"
)

// SessionStore is a Redis-aware implementation of app.SessionRegistry.
// Sessions live in process; Redis only carries a liveness marker per
// session so operators can see how many quizzes are being taken.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*session.Session),
	}
}

func (s *SessionStore) Register(id string, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(id), sess.Quiz().ID, s.ttl).Err()
}

// Get returns the session and pushes its liveness marker's expiry out by
// another ttl.
func (s *SessionStore) Get(id string) (*session.Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		_ = s.client.Expire(context.Background(), s.key(id), s.ttl).Err()
	}
	return sess, ok
}

func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
