package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lecture-quiz/internal/domain"
)

func TestCourseCode(t *testing.T) {
	cases := []struct {
		lecture string
		want    string
	}{
		{"pcv5", "PCV"},
		{"ML12", "ML"},
		{"stats", "STATS"},
		{"5pcv", "OTHER"},
		{"", "OTHER"},
		{"über1", "OTHER"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CourseCode(tc.lecture), "lecture %q", tc.lecture)
	}
}

func TestSummarizeSortsNewestFirst(t *testing.T) {
	out := summarize([]domain.Quiz{
		{ID: "old", Created: "2024-01-01T00:00:00"},
		{ID: "new", Created: "2024-12-01T00:00:00"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "new", out[0].ID)
}

func TestGroupByCourseKeepsQuizOrder(t *testing.T) {
	summaries := []domain.Summary{
		{ID: "b", Lecture: "pcv2"},
		{ID: "a", Lecture: "pcv2"},
		{ID: "c", Lecture: "pcv1"},
	}
	courses := groupByCourse(summaries, map[string]struct{}{"a": {}})

	require.Len(t, courses, 1)
	assert.Equal(t, 3, courses[0].Total)
	assert.Equal(t, 1, courses[0].Completed)
	assert.Equal(t, "pcv1", courses[0].Lectures[0].Name)
	lecture := courses[0].Lectures[1]
	assert.Equal(t, []string{"b", "a"}, []string{lecture.Quizzes[0].ID, lecture.Quizzes[1].ID})
	assert.Equal(t, 1, lecture.Completed)
}
