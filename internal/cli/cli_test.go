package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lecture-quiz/internal/domain"
)

const validQuizJSON = `{
  "id": "pcv5_dlt",
  "lecture": "pcv5",
  "topic": "Direct Linear Transform",
  "questions": [
    {"id": 1, "type": "multiple_choice", "question": "DOF of a homography?", "options": ["9", "8", "6", "4"], "correct": 1},
    {"id": 2, "type": "true_false", "question": "Four correspondences suffice.", "correct": true},
    {"id": 3, "type": "short_answer", "question": "How is Ah = 0 solved?", "expected_keywords": ["SVD"]},
    {"id": 4, "type": "multiple_choice", "question": "Minimal points?", "options": ["3", "4"], "correct": 1},
    {"id": 5, "type": "true_false", "question": "Normalization helps.", "correct": true}
  ]
}`

func writeQuizFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestValidateDirReportsErrors(t *testing.T) {
	dir := t.TempDir()
	writeQuizFile(t, dir, "pcv5_dlt.json", validQuizJSON)
	writeQuizFile(t, dir, "renamed.json", validQuizJSON)
	writeQuizFile(t, dir, "broken.json", `{"id": `)

	reports, err := validateDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	var out bytes.Buffer
	invalid := writeValidationReport(&out, reports)
	assert.Equal(t, 2, invalid)

	text := out.String()
	assert.Contains(t, text, "✗ 2/3 quizzes have errors")
	assert.Contains(t, text, "Quiz 'renamed': ID in file ('pcv5_dlt') doesn't match filename")
	assert.Contains(t, text, "Quiz 'broken': Invalid JSON")
	assert.Contains(t, text, "Total questions:   10")
	assert.Contains(t, text, "Multiple choice:   4 (40.0%)")
}

func TestValidateReportAllValid(t *testing.T) {
	dir := t.TempDir()
	writeQuizFile(t, dir, "pcv5_dlt.json", validQuizJSON)

	reports, err := validateDir(context.Background(), dir)
	require.NoError(t, err)

	var out bytes.Buffer
	assert.Equal(t, 0, writeValidationReport(&out, reports))
	assert.Contains(t, out.String(), "✓ All 1 quizzes are valid!")
	assert.NotContains(t, out.String(), "Errors:")
}

type fakeUpserter struct {
	mu      sync.Mutex
	quizzes map[string]domain.Quiz
	fail    string
}

func (f *fakeUpserter) Upsert(_ context.Context, quiz domain.Quiz) error {
	if quiz.ID == f.fail {
		return errors.New("connection reset")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quizzes[quiz.ID] = quiz
	return nil
}

func TestImportQuizzesSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeQuizFile(t, dir, "pcv5_dlt.json", validQuizJSON),
		writeQuizFile(t, dir, "empty.json", `{"id": "empty", "lecture": "pcv1", "topic": "x", "questions": []}`),
		writeQuizFile(t, dir, "broken.json", `nope`),
	}
	store := &fakeUpserter{quizzes: map[string]domain.Quiz{}}
	var invalidated []string
	var mu sync.Mutex
	opts := importOptions{invalidate: func(_ context.Context, id string) error {
		mu.Lock()
		invalidated = append(invalidated, id)
		mu.Unlock()
		return nil
	}}

	n, err := importQuizzes(context.Background(), paths, store, opts, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, store.quizzes, "pcv5_dlt")
	sort.Strings(invalidated)
	assert.Equal(t, []string{"pcv5_dlt"}, invalidated)
}

func TestImportQuizzesShuffleKeepsKey(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeQuizFile(t, dir, "pcv5_dlt.json", validQuizJSON)}
	store := &fakeUpserter{quizzes: map[string]domain.Quiz{}}

	_, err := importQuizzes(context.Background(), paths, store, importOptions{shuffle: true, seed: 7}, zerolog.Nop())
	require.NoError(t, err)

	q := store.quizzes["pcv5_dlt"].Questions[0]
	idx, ok := q.Correct.Index()
	require.True(t, ok)
	assert.Equal(t, "8", q.Options[idx])
	assert.ElementsMatch(t, []string{"9", "8", "6", "4"}, q.Options)
}

func TestImportQuizzesPropagatesStoreErrors(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeQuizFile(t, dir, "pcv5_dlt.json", validQuizJSON)}
	store := &fakeUpserter{quizzes: map[string]domain.Quiz{}, fail: "pcv5_dlt"}

	n, err := importQuizzes(context.Background(), paths, store, importOptions{}, zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, 0, n)
}
