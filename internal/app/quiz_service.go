package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/session"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizLister enumerates every available quiz.
type QuizLister interface {
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// ResultStore persists scored submissions.
type ResultStore interface {
	Save(ctx context.Context, result domain.StoredResult) error
	CompletedQuizIDs(ctx context.Context) (map[string]struct{}, error)
}

// SessionRegistry tracks the quiz sessions driven by connected front ends.
type SessionRegistry interface {
	Register(id string, s *session.Session)
	Get(id string) (*session.Session, bool)
	Remove(id string)
}

// QuizService contains the quiz use cases: serving quizzes to takers,
// scoring submissions and running server-side sessions.
type QuizService struct {
	quizzes  QuizRepository
	lister   QuizLister
	results  ResultStore
	sessions SessionRegistry
	now      func() time.Time
	log      zerolog.Logger
}

// ServiceOption customizes a QuizService.
type ServiceOption func(*QuizService)

// WithServiceClock is used by tests for deterministic timestamps.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *QuizService) { s.now = now }
}

// WithServiceLogger attaches a logger.
func WithServiceLogger(log zerolog.Logger) ServiceOption {
	return func(s *QuizService) { s.log = log }
}

func NewQuizService(quizzes QuizRepository, lister QuizLister, results ResultStore, sessions SessionRegistry, opts ...ServiceOption) *QuizService {
	s := &QuizService{
		quizzes:  quizzes,
		lister:   lister,
		results:  results,
		sessions: sessions,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "quiz_service").Logger()
	return s
}

// ClientQuiz returns the quiz without its answer key.
func (s *QuizService) ClientQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz.ClientView(), nil
}

// Submit scores a submission against the quiz key, stores the result and
// returns the reply sent to the taker.
func (s *QuizService) Submit(ctx context.Context, quizID string, submission domain.Submission) (domain.Result, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Result{}, err
	}
	if submission.Answers == nil {
		return domain.Result{}, domain.ErrInvalidSubmission
	}

	stored := scoreSubmission(quiz, submission)
	stored.ID = uuid.NewString()
	stored.Completed = s.now().UTC()
	if err := s.results.Save(ctx, stored); err != nil {
		return domain.Result{}, fmt.Errorf("save result: %w", err)
	}

	s.log.Info().
		Str("quiz_id", quizID).
		Str("result_id", stored.ID).
		Int("score", stored.Score).
		Int("total", stored.Total).
		Msg("submission scored")

	return domain.Result{
		Success:    true,
		Score:      stored.Score,
		Total:      stored.Total,
		Percentage: stored.Percentage,
	}, nil
}

// ListQuizzes returns quiz summaries, newest first.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.Summary, error) {
	quizzes, err := s.lister.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(quizzes), nil
}

// Courses groups every quiz by course and lecture, marking completed ones.
func (s *QuizService) Courses(ctx context.Context) ([]Course, error) {
	summaries, err := s.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.results.CompletedQuizIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("completed quizzes: %w", err)
	}
	return groupByCourse(summaries, completed), nil
}

// StartSession creates a session for quizID whose submissions are scored
// in-process, registers it under a fresh id and starts it.
func (s *QuizService) StartSession(ctx context.Context, quizID string, renderer session.Renderer, opts ...session.Option) (string, *session.Session, error) {
	quiz, err := s.ClientQuiz(ctx, quizID)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	opts = append([]session.Option{session.WithLogger(s.log.With().Str("session_id", id).Logger())}, opts...)
	sess, err := session.New(quiz, renderer, LocalTransport{Service: s}, opts...)
	if err != nil {
		return "", nil, err
	}
	s.sessions.Register(id, sess)
	sess.Start()
	return id, sess, nil
}

// Session looks up a running session.
func (s *QuizService) Session(id string) (*session.Session, bool) {
	return s.sessions.Get(id)
}

// EndSession stops and forgets a session.
func (s *QuizService) EndSession(id string) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	sess.Close()
	s.sessions.Remove(id)
}

// LocalTransport submits through a QuizService in the same process.
type LocalTransport struct {
	Service *QuizService
}

func (t LocalTransport) Submit(ctx context.Context, quizID string, submission domain.Submission) (domain.Result, error) {
	res, err := t.Service.Submit(ctx, quizID, submission)
	if err != nil {
		return domain.Failed(), err
	}
	return res, nil
}
