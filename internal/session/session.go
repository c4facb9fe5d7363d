package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lecture-quiz/internal/domain"
)

// Status is the submission lifecycle state of a Session.
type Status string

const (
	StatusEditable     Status = "editable"
	StatusSubmitting   Status = "submitting"
	StatusSubmitted    Status = "submitted"
	StatusSubmitFailed Status = "submit_failed"
)

const (
	noticeRejected   = "Failed to submit quiz. Please try again."
	noticeConnection = "Failed to submit quiz. Please check your connection."
)

// ErrNoTransport is returned by New when no SubmissionTransport is given.
var ErrNoTransport = errors.New("session: submission transport is required")

// Option customizes a Session.
type Option func(*Session)

// WithClock replaces time.Now; tests use it for deterministic timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithTickInterval sets the display timer cadence (one second by default).
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tickEvery = d }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// Session walks one taker through a quiz: it tracks the current question,
// the answers, the time spent per question and the submission handshake.
//
// Commands, timer ticks and submission responses are handled one at a
// time; Renderer methods run inside that sequence and must not call back
// into the Session.
type Session struct {
	quiz      domain.Quiz
	renderer  Renderer
	transport SubmissionTransport
	log       zerolog.Logger
	now       func() time.Time
	tickEvery time.Duration

	mu        sync.Mutex
	index     int
	answers   map[domain.QuestionID]domain.Answer
	ledger    map[domain.QuestionID]int
	startedAt time.Time
	enteredAt time.Time
	status    Status
	started   bool
	closed    bool
	timer     *periodic
}

// New creates a session for quiz. A nil renderer draws nothing.
func New(quiz domain.Quiz, renderer Renderer, transport SubmissionTransport, opts ...Option) (*Session, error) {
	if len(quiz.Questions) == 0 {
		return nil, domain.ErrEmptyQuiz
	}
	if transport == nil {
		return nil, ErrNoTransport
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	s := &Session{
		quiz:      quiz,
		renderer:  renderer,
		transport: transport,
		log:       zerolog.Nop(),
		now:       time.Now,
		tickEvery: time.Second,
		answers:   make(map[domain.QuestionID]domain.Answer),
		ledger:    make(map[domain.QuestionID]int),
		status:    StatusEditable,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "quiz_session").Str("quiz_id", quiz.ID).Logger()
	now := s.now()
	s.startedAt = now
	s.enteredAt = now
	return s, nil
}

// Start presents the first question and starts the display timer.
// Calling it again has no effect.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true
	now := s.now()
	s.startedAt = now
	s.enteredAt = now
	s.renderLocked()
	s.renderer.UpdateTimer(s.elapsedDisplayLocked())
	if s.tickEvery > 0 {
		s.timer = startPeriodic(s.tickEvery, s.tick)
	}
	s.log.Debug().Int("questions", len(s.quiz.Questions)).Msg("session started")
}

// Close stops the display timer. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	timer := s.timer
	s.timer = nil
	s.mu.Unlock()

	if timer != nil {
		timer.stop()
		timer.wait()
	}
}

// SelectAnswer stores answer for question id, replacing any earlier one.
// Unanswered clears the stored answer.
func (s *Session) SelectAnswer(id domain.QuestionID, answer domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editableLocked() {
		return domain.ErrNotEditable
	}
	q, ok := s.quiz.Question(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, id)
	}
	if !answer.Fits(q.Kind) {
		return fmt.Errorf("%w: %s for %s", domain.ErrAnswerKindMismatch, answer, q.Kind)
	}

	if answer.Answered() {
		s.answers[id] = answer
	} else {
		delete(s.answers, id)
	}
	s.status = StatusEditable
	s.renderer.UpdateSelection(q, answer)
	return nil
}

// Prev moves to the previous question. It reports whether it moved.
func (s *Session) Prev() bool { return s.goTo(-1) }

// Next moves to the next question. It reports whether it moved.
func (s *Session) Next() bool { return s.goTo(1) }

func (s *Session) goTo(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editableLocked() {
		return false
	}
	target := s.index + delta
	if target < 0 || target >= len(s.quiz.Questions) {
		return false
	}

	s.finalizeLocked()
	s.index = target
	s.status = StatusEditable
	s.renderLocked()
	return true
}

// Submit finalizes timing, assembles one record per question in quiz
// order and delivers them through the transport. A failure variant or
// transport error leaves the session in StatusSubmitFailed with every
// answer kept, ready for a retry. Submit returns ErrNotSubmittable while
// a submission is in flight or after a successful one.
func (s *Session) Submit(ctx context.Context) (domain.Result, error) {
	s.mu.Lock()
	if s.status != StatusEditable && s.status != StatusSubmitFailed {
		s.mu.Unlock()
		return domain.Result{}, domain.ErrNotSubmittable
	}
	s.status = StatusSubmitting
	s.finalizeLocked()
	submission := s.assembleLocked()
	s.renderer.SetSubmitBusy(true)
	s.mu.Unlock()

	s.log.Debug().Int("total_time_sec", submission.TotalTimeSec).Msg("submitting answers")
	result, err := s.transport.Submit(ctx, s.quiz.ID, submission)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && result.Success {
		s.status = StatusSubmitted
		if s.timer != nil {
			s.timer.stop()
			s.timer = nil
		}
		s.renderer.SetSubmitBusy(false)
		s.renderer.ShowResult(result.Score, result.Percentage)
		s.log.Info().Int("score", result.Score).Int("percentage", result.Percentage).Msg("quiz submitted")
		return result, nil
	}

	s.status = StatusSubmitFailed
	s.renderer.SetSubmitBusy(false)
	if err != nil && !errors.Is(err, domain.ErrSubmissionRejected) {
		s.log.Warn().Err(err).Msg("submission failed")
		s.renderer.ShowNotice(noticeConnection)
	} else {
		s.log.Warn().Msg("submission rejected")
		s.renderer.ShowNotice(noticeRejected)
	}
	return domain.Failed(), nil
}

// Progress describes the current position.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

// ElapsedDisplay formats the time since the session started as m:ss.
func (s *Session) ElapsedDisplay() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedDisplayLocked()
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Index returns the 0-based position of the current question.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the question being shown.
func (s *Session) Current() domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.Questions[s.index]
}

// Answer returns the stored answer for id, or Unanswered.
func (s *Session) Answer(id domain.QuestionID) domain.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[id]
}

// TimeSpent returns the whole seconds accumulated for id so far. Time on
// the open question is not included until it is left.
func (s *Session) TimeSpent(id domain.QuestionID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger[id]
}

// Quiz returns the quiz definition the session runs.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.status == StatusSubmitted {
		return
	}
	s.renderer.UpdateTimer(s.elapsedDisplayLocked())
}

func (s *Session) editableLocked() bool {
	return s.status == StatusEditable || s.status == StatusSubmitFailed
}

// finalizeLocked adds the time spent on the current question to its
// ledger entry and restarts the entry clock, so each leave event counts
// exactly once.
func (s *Session) finalizeLocked() {
	now := s.now()
	id := s.quiz.Questions[s.index].ID
	s.ledger[id] += wholeSeconds(now.Sub(s.enteredAt))
	s.enteredAt = now
}

func (s *Session) assembleLocked() domain.Submission {
	records := make([]domain.AnswerRecord, 0, len(s.quiz.Questions))
	for _, q := range s.quiz.Questions {
		records = append(records, s.answers[q.ID].Record(q.ID, s.ledger[q.ID]))
	}
	return domain.Submission{
		Answers:      records,
		TotalTimeSec: wholeSeconds(s.now().Sub(s.startedAt)),
	}
}

func (s *Session) renderLocked() {
	q := s.quiz.Questions[s.index]
	s.renderer.Render(q, s.answers[q.ID])
	p := s.progressLocked()
	s.renderer.UpdateProgress(p.Label, p.IsFirst, p.IsLast)
}

func (s *Session) progressLocked() Progress {
	count := len(s.quiz.Questions)
	return Progress{
		Label:   fmt.Sprintf("%d / %d", s.index+1, count),
		Index:   s.index,
		Count:   count,
		IsFirst: s.index == 0,
		IsLast:  s.index == count-1,
	}
}

func (s *Session) elapsedDisplayLocked() string {
	return FormatElapsed(s.now().Sub(s.startedAt))
}
