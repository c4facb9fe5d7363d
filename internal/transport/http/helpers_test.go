package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lecture-quiz/internal/app"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/infra/memory"
	"lecture-quiz/internal/session"
)

type testEnv struct {
	server  *httptest.Server
	service *app.QuizService
	results *memory.ResultStore
	sess    *memory.SessionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	loader := memory.NewStaticQuizLoader(map[string]domain.Quiz{"pcv5_dlt": sampleQuiz()})
	results := memory.NewResultStore()
	sessions := memory.NewSessionStore()
	service := app.NewQuizService(memory.NewQuizRepository(loader, time.Minute), loader, results, sessions)

	api := NewAPI(service, zerolog.Nop())
	ws := NewWSHandler(service, zerolog.Nop(), session.WithTickInterval(0))
	server := httptest.NewServer(NewRouter(api, ws, nil))
	t.Cleanup(server.Close)

	return &testEnv{server: server, service: service, results: results, sess: sessions}
}

func sampleQuiz() domain.Quiz {
	first := domain.IndexSelection(1)
	truth := domain.BoolSelection(true)
	return domain.Quiz{
		ID:      "pcv5_dlt",
		Lecture: "pcv5",
		Topic:   "Direct Linear Transform",
		Created: "2024-11-22T10:00:00",
		Questions: []domain.Question{
			{
				ID:      "q1",
				Kind:    domain.KindMultipleChoice,
				Text:    "How many DOF does a 2D homography have?",
				Options: []string{"9", "8", "6"},
				Correct: &first,
			},
			{
				ID:      "q2",
				Kind:    domain.KindTrueFalse,
				Text:    "The DLT needs at least four point correspondences.",
				Correct: &truth,
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
