package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"lecture-quiz/internal/domain"
)

// QuizLoader reads quiz definitions stored as {dir}/{quizID}.json.
type QuizLoader struct {
	dir string
	log zerolog.Logger
}

func NewQuizLoader(dir string, log zerolog.Logger) *QuizLoader {
	return &QuizLoader{dir: dir, log: log.With().Str("component", "quiz_files").Logger()}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if !validID(quizID) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	quiz, err := ReadQuizFile(filepath.Join(l.dir, quizID+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, err
}

// ListQuizzes parses every *.json file in the directory. Files that fail
// to parse are skipped.
func (l *QuizLoader) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	paths, err := QuizFiles(l.dir)
	if err != nil {
		return nil, err
	}

	quizzes := make([]domain.Quiz, len(paths))
	ok := make([]bool, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			quiz, err := ReadQuizFile(path)
			if err != nil {
				l.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable quiz file")
				return nil
			}
			quizzes[i], ok[i] = quiz, true
			return nil
		})
	}
	_ = g.Wait()

	out := quizzes[:0]
	for i := range quizzes {
		if ok[i] {
			out = append(out, quizzes[i])
		}
	}
	return out, nil
}

// QuizFiles returns the sorted *.json paths in dir.
func QuizFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list quiz files: %w", err)
	}
	return paths, nil
}

// ReadQuizFile parses one quiz file. A missing id defaults to the file name.
func ReadQuizFile(path string) (domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Quiz{}, err
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if quiz.ID == "" {
		quiz.ID = Stem(path)
	}
	return quiz, nil
}

// Stem is the file name without directory and extension.
func Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}
