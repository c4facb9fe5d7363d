package memory

import (
	"context"
	"sync"

	"lecture-quiz/internal/domain"
)

// ResultStore keeps scored submissions in memory.
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.StoredResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) Save(_ context.Context, result domain.StoredResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) CompletedQuizIDs(_ context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[string]struct{}, len(s.results))
	for _, r := range s.results {
		ids[r.QuizID] = struct{}{}
	}
	return ids, nil
}

// Results returns a copy of every stored result in save order.
func (s *ResultStore) Results() []domain.StoredResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StoredResult, len(s.results))
	copy(out, s.results)
	return out
}
