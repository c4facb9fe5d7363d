package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerKindMismatch is returned when an answer shape does not fit the question kind.
	ErrAnswerKindMismatch = errors.New("answer does not match question kind")
	// ErrNotEditable is returned when answers are changed while a submission is pending or done.
	ErrNotEditable = errors.New("quiz session is not editable")
	// ErrNotSubmittable is returned when submit is called while submitting or after success.
	ErrNotSubmittable = errors.New("quiz session cannot be submitted in its current state")
	// ErrEmptyQuiz is returned when a session is created for a quiz without questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrInvalidSubmission indicates a malformed submission body.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrSubmissionRejected is returned by transports when the endpoint reports no success.
	ErrSubmissionRejected = errors.New("submission rejected")
)
