package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lecture-quiz/internal/domain"
)

// QuizLoader loads quiz JSONB from Postgres.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}

// ListQuizzes returns every stored quiz ordered by id.
func (l *QuizLoader) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		var quiz domain.Quiz
		if err := json.Unmarshal(raw, &quiz); err != nil {
			continue
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

// Upsert stores quiz, replacing an existing definition with the same id.
func (l *QuizLoader) Upsert(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO quizzes (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		quiz.ID, string(data))
	if err != nil {
		return fmt.Errorf("upsert quiz %s: %w", quiz.ID, err)
	}
	return nil
}
