package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/session"
)

func TestParseCommand(t *testing.T) {
	mc := domain.Question{Kind: domain.KindMultipleChoice, Options: []string{"a", "b", "c"}}
	tf := domain.Question{Kind: domain.KindTrueFalse}
	sa := domain.Question{Kind: domain.KindShortAnswer}

	cases := []struct {
		line   string
		q      domain.Question
		act    action
		answer domain.Answer
	}{
		{"", mc, actionNone, domain.Unanswered},
		{" N ", mc, actionNext, domain.Unanswered},
		{"p", tf, actionPrev, domain.Unanswered},
		{"s", sa, actionSubmit, domain.Unanswered},
		{"q", sa, actionQuit, domain.Unanswered},
		{"2", mc, actionAnswer, domain.Choice(1)},
		{"4", mc, actionUnknown, domain.Unanswered},
		{"0", mc, actionUnknown, domain.Unanswered},
		{"t", tf, actionAnswer, domain.Boolean(true)},
		{"False", tf, actionAnswer, domain.Boolean(false)},
		{"maybe", tf, actionUnknown, domain.Unanswered},
		{"singular value decomposition", sa, actionAnswer, domain.Text("singular value decomposition")},
	}
	for _, tc := range cases {
		act, answer := parseCommand(tc.line, tc.q)
		assert.Equal(t, tc.act, act, "line %q", tc.line)
		assert.Equal(t, tc.answer, answer, "line %q", tc.line)
	}
}

func TestRunTakesQuizToSubmission(t *testing.T) {
	var submitted domain.Submission
	transport := session.TransportFunc(func(_ context.Context, _ string, sub domain.Submission) (domain.Result, error) {
		submitted = sub
		return domain.Result{Success: true, Score: 3, Total: 3, Percentage: 100}, nil
	})

	var out bytes.Buffer
	r := NewRenderer(&out)
	sess, err := session.New(sampleQuiz(), r, transport, session.WithTickInterval(0))
	require.NoError(t, err)

	in := strings.NewReader("2\nn\nt\nn\nuse the SVD\ns\nn\n")
	require.NoError(t, Run(context.Background(), sess, r, in))

	assert.Equal(t, session.StatusSubmitted, sess.Status())
	require.Len(t, submitted.Answers, 3)
	assert.Equal(t, "use the SVD", *submitted.Answers[2].Text)

	text := out.String()
	assert.NotContains(t, text, clearScreen)
	assert.Contains(t, text, "1 / 3")
	assert.Contains(t, text, "answer: option 2")
	assert.Contains(t, text, "   3) 6")
	assert.Contains(t, text, "Score: 3 (100%)")
}

func TestRunReportsBadInputAndBounds(t *testing.T) {
	transport := session.TransportFunc(func(context.Context, string, domain.Submission) (domain.Result, error) {
		return domain.Failed(), nil
	})

	var out bytes.Buffer
	r := NewRenderer(&out)
	sess, err := session.New(sampleQuiz(), r, transport, session.WithTickInterval(0))
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), sess, r, strings.NewReader("p\n9\ns\nq\n")))

	text := out.String()
	assert.Contains(t, text, "already at the first question")
	assert.Contains(t, text, "unknown command")
	assert.Contains(t, text, "Failed to submit quiz. Please try again.")
	assert.Equal(t, session.StatusSubmitFailed, sess.Status())
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:      "pcv5_dlt",
		Lecture: "pcv5",
		Topic:   "Direct Linear Transform",
		Questions: []domain.Question{
			{ID: "q1", Kind: domain.KindMultipleChoice, Text: "How many DOF does a 2D homography have?", Options: []string{"9", "8", "6"}},
			{ID: "q2", Kind: domain.KindTrueFalse, Text: "The DLT needs at least four point correspondences."},
			{ID: "q3", Kind: domain.KindShortAnswer, Text: "How is the homogeneous system solved?"},
		},
	}
}
