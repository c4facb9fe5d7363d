package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lecture-quiz/internal/app"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/infra/memory"
	"lecture-quiz/internal/session"
)

var fixedNow = time.Date(2024, 11, 22, 10, 30, 0, 0, time.FixedZone("CET", 3600))

func TestSubmitScoresAndStoresResult(t *testing.T) {
	ctx := context.Background()
	service, results, _ := newTestService()

	res, err := service.Submit(ctx, "pcv5_dlt", domain.Submission{
		Answers: []domain.AnswerRecord{
			{QuestionID: "q1", Selected: sel(domain.IndexSelection(1)), TimeSpentSec: 5},
			{QuestionID: "q2", Selected: sel(domain.BoolSelection(false)), TimeSpentSec: 2},
			{QuestionID: "q3", Text: str("svd"), TimeSpentSec: 11},
		},
		TotalTimeSec: 18,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Result{Success: true, Score: 2, Total: 3, Percentage: 67}, res)

	stored := results.Results()
	require.Len(t, stored, 1)
	assert.NotEmpty(t, stored[0].ID)
	assert.Equal(t, "pcv5_dlt", stored[0].QuizID)
	assert.Equal(t, fixedNow.UTC(), stored[0].Completed)
	assert.Equal(t, 18, stored[0].TotalTimeSec)
	require.Len(t, stored[0].Answers, 3)
	assert.Equal(t, "Homographies", stored[0].Answers[0].Topic)
	assert.True(t, stored[0].Answers[0].IsCorrect)
	assert.False(t, stored[0].Answers[1].IsCorrect)
	assert.False(t, stored[0].Answers[2].IsCorrect, "one of two keywords earns the point but is not fully correct")
	assert.Equal(t, 1, *stored[0].Answers[2].KeywordsFound)
}

func TestSubmitErrors(t *testing.T) {
	ctx := context.Background()
	service, results, _ := newTestService()

	_, err := service.Submit(ctx, "missing", domain.Submission{Answers: []domain.AnswerRecord{}})
	assert.True(t, errors.Is(err, domain.ErrQuizNotFound))

	_, err = service.Submit(ctx, "pcv5_dlt", domain.Submission{})
	assert.True(t, errors.Is(err, domain.ErrInvalidSubmission))

	assert.Empty(t, results.Results())
}

func TestClientQuizHidesKey(t *testing.T) {
	service, _, _ := newTestService()

	quiz, err := service.ClientQuiz(context.Background(), "pcv5_dlt")
	require.NoError(t, err)
	for _, q := range quiz.Questions {
		assert.Nil(t, q.Correct)
		assert.Empty(t, q.ExpectedKeywords)
		assert.Empty(t, q.SlideRef)
	}
}

func TestCoursesMarkCompletedQuizzes(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService()

	_, err := service.Submit(ctx, "pcv5_dlt", domain.Submission{Answers: []domain.AnswerRecord{}})
	require.NoError(t, err)

	courses, err := service.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, "ML", courses[0].Code)
	assert.Equal(t, 0, courses[0].Completed)

	pcv := courses[1]
	assert.Equal(t, "PCV", pcv.Code)
	assert.Equal(t, 2, pcv.Total)
	assert.Equal(t, 1, pcv.Completed)
	require.Len(t, pcv.Lectures, 2)
	assert.Equal(t, "pcv4", pcv.Lectures[0].Name)
	assert.Equal(t, "pcv5", pcv.Lectures[1].Name)
	assert.True(t, pcv.Lectures[1].Quizzes[0].Completed)
}

func TestListQuizzesNewestFirst(t *testing.T) {
	service, _, _ := newTestService()

	summaries, err := service.ListQuizzes(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "pcv5_dlt", summaries[0].ID)
	assert.Equal(t, "ml1_intro", summaries[2].ID)
}

func TestStartSessionSubmitsInProcess(t *testing.T) {
	service, results, registry := newTestService()

	id, sess, err := service.StartSession(context.Background(), "pcv5_dlt", nil, session.WithTickInterval(0))
	require.NoError(t, err)
	_, ok := service.Session(id)
	require.True(t, ok)
	assert.Equal(t, 1, registry.Len())
	assert.Nil(t, sess.Current().Correct, "sessions run on the client view")

	require.NoError(t, sess.SelectAnswer("q1", domain.Choice(1)))
	res, err := sess.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Score)
	assert.Len(t, results.Results(), 1)

	service.EndSession(id)
	_, ok = service.Session(id)
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Len())
}

func TestStartSessionUnknownQuiz(t *testing.T) {
	service, _, registry := newTestService()

	_, _, err := service.StartSession(context.Background(), "missing", nil)
	assert.True(t, errors.Is(err, domain.ErrQuizNotFound))
	assert.Equal(t, 0, registry.Len())
}

func newTestService() (*app.QuizService, *memory.ResultStore, *memory.SessionStore) {
	loader := memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"pcv5_dlt":  sampleQuiz(),
		"pcv4_proj": {ID: "pcv4_proj", Lecture: "pcv4", Topic: "Projective geometry", Created: "2024-11-01T09:00:00", Questions: sampleQuiz().Questions[:1]},
		"ml1_intro": {ID: "ml1_intro", Lecture: "ml1", Topic: "Intro", Created: "2024-10-01T09:00:00", Questions: sampleQuiz().Questions[:1]},
	})
	results := memory.NewResultStore()
	sessions := memory.NewSessionStore()
	service := app.NewQuizService(
		memory.NewQuizRepository(loader, time.Minute),
		loader,
		results,
		sessions,
		app.WithServiceClock(func() time.Time { return fixedNow }),
	)
	return service, results, sessions
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:      "pcv5_dlt",
		Lecture: "pcv5",
		Topic:   "Direct Linear Transform",
		Created: "2024-11-22T10:00:00",
		Questions: []domain.Question{
			{
				ID:       "q1",
				Kind:     domain.KindMultipleChoice,
				Text:     "How many DOF does a 2D homography have?",
				Topic:    "Homographies",
				Options:  []string{"9", "8", "6"},
				Correct:  sel(domain.IndexSelection(1)),
				SlideRef: "slide 12",
			},
			{
				ID:      "q2",
				Kind:    domain.KindTrueFalse,
				Text:    "The DLT needs at least four point correspondences.",
				Correct: sel(domain.BoolSelection(true)),
			},
			{
				ID:               "q3",
				Kind:             domain.KindShortAnswer,
				Text:             "How is the homogeneous system solved?",
				ExpectedKeywords: []string{"SVD", "singular"},
			},
		},
	}
}

func sel(s domain.Selection) *domain.Selection { return &s }

func str(s string) *string { return &s }
