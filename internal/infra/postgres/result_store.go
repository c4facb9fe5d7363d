package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"lecture-quiz/internal/domain"
)

type resultRow struct {
	bun.BaseModel `bun:"table:quiz_results"`

	ID           string                `bun:"id,pk"`
	QuizID       string                `bun:"quiz_id,notnull"`
	CompletedAt  time.Time             `bun:"completed_at,notnull"`
	Score        int                   `bun:"score,notnull"`
	Total        int                   `bun:"total,notnull"`
	Percentage   int                   `bun:"percentage,notnull"`
	TotalTimeSec int                   `bun:"total_time_sec,notnull"`
	Answers      []domain.StoredAnswer `bun:"answers,type:jsonb"`
}

// ResultStore persists scored submissions in the quiz_results table.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Save(ctx context.Context, result domain.StoredResult) error {
	row := &resultRow{
		ID:           result.ID,
		QuizID:       result.QuizID,
		CompletedAt:  result.Completed,
		Score:        result.Score,
		Total:        result.Total,
		Percentage:   result.Percentage,
		TotalTimeSec: result.TotalTimeSec,
		Answers:      result.Answers,
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) CompletedQuizIDs(ctx context.Context) (map[string]struct{}, error) {
	var quizIDs []string
	err := s.db.NewSelect().
		Model((*resultRow)(nil)).
		Distinct().
		Column("quiz_id").
		Scan(ctx, &quizIDs)
	if err != nil {
		return nil, fmt.Errorf("select completed quizzes: %w", err)
	}
	ids := make(map[string]struct{}, len(quizIDs))
	for _, id := range quizIDs {
		ids[id] = struct{}{}
	}
	return ids, nil
}
