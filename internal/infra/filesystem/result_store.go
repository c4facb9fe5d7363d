package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lecture-quiz/internal/domain"
)

const resultSuffix = "_result.json"

// ResultStore writes one pretty-printed JSON file per quiz; a newer
// result for the same quiz replaces the older one.
type ResultStore struct {
	dir string
}

// NewResultStore creates dir if needed.
func NewResultStore(dir string) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("results dir: %w", err)
	}
	return &ResultStore{dir: dir}, nil
}

func (s *ResultStore) Save(_ context.Context, result domain.StoredResult) error {
	if !validID(result.QuizID) {
		return fmt.Errorf("invalid quiz id %q", result.QuizID)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, result.QuizID+resultSuffix)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *ResultStore) CompletedQuizIDs(_ context.Context) (map[string]struct{}, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+resultSuffix))
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		ids[strings.TrimSuffix(filepath.Base(p), resultSuffix)] = struct{}{}
	}
	return ids, nil
}
