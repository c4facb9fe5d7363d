package session

import (
	"context"

	"lecture-quiz/internal/domain"
)

// SubmissionTransport delivers a submission and returns the scored result.
// Implementations report connectivity or decoding problems as an error
// together with a non-success Result; the session treats both the same.
type SubmissionTransport interface {
	Submit(ctx context.Context, quizID string, submission domain.Submission) (domain.Result, error)
}

// TransportFunc adapts a function to SubmissionTransport.
type TransportFunc func(ctx context.Context, quizID string, submission domain.Submission) (domain.Result, error)

func (f TransportFunc) Submit(ctx context.Context, quizID string, submission domain.Submission) (domain.Result, error) {
	return f(ctx, quizID, submission)
}
