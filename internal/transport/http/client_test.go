package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lecture-quiz/internal/domain"
)

func TestClientSubmitRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	client := NewClient(env.server.URL+"/", nil)

	choice := domain.IndexSelection(1)
	res, err := client.Submit(context.Background(), "pcv5_dlt", domain.Submission{
		Answers:      []domain.AnswerRecord{{QuestionID: "q1", Selected: &choice, TimeSpentSec: 3}},
		TotalTimeSec: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Result{Success: true, Score: 1, Total: 3, Percentage: 33}, res)
}

func TestClientFetchQuiz(t *testing.T) {
	env := newTestEnv(t)
	client := NewClient(env.server.URL, nil)

	quiz, err := client.FetchQuiz(context.Background(), "pcv5_dlt")
	require.NoError(t, err)
	assert.Equal(t, "pcv5_dlt", quiz.ID)
	assert.Nil(t, quiz.Questions[1].Correct)

	_, err = client.FetchQuiz(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrQuizNotFound))
}

func TestClientSubmitFailures(t *testing.T) {
	cases := []struct {
		name     string
		handler  http.HandlerFunc
		rejected bool
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			},
		},
		{
			name: "rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": false}`))
			},
			rejected: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			res, err := NewClient(server.URL, nil).Submit(context.Background(), "pcv5_dlt", domain.Submission{Answers: []domain.AnswerRecord{}})
			require.Error(t, err)
			assert.Equal(t, domain.Failed(), res)
			assert.Equal(t, tc.rejected, errors.Is(err, domain.ErrSubmissionRejected))
		})
	}
}

func TestClientSubmitUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	res, err := NewClient(url, nil).Submit(context.Background(), "pcv5_dlt", domain.Submission{Answers: []domain.AnswerRecord{}})
	require.Error(t, err)
	assert.False(t, res.Success)
}
