package app

import (
	"math"
	"strings"

	"lecture-quiz/internal/domain"
)

// scoreSubmission grades every quiz question in quiz order. Questions the
// submission does not mention are graded as unanswered.
func scoreSubmission(quiz domain.Quiz, submission domain.Submission) domain.StoredResult {
	byID := make(map[domain.QuestionID]domain.AnswerRecord, len(submission.Answers))
	for _, rec := range submission.Answers {
		byID[rec.QuestionID] = rec
	}

	result := domain.StoredResult{
		QuizID:       quiz.ID,
		Answers:      make([]domain.StoredAnswer, 0, len(quiz.Questions)),
		Total:        len(quiz.Questions),
		TotalTimeSec: submission.TotalTimeSec,
	}

	for _, q := range quiz.Questions {
		rec := byID[q.ID]
		graded := domain.StoredAnswer{
			QuestionID:   q.ID,
			Topic:        q.Topic,
			SlideRef:     q.SlideRef,
			Kind:         q.Kind,
			TimeSpentSec: rec.TimeSpentSec,
		}

		switch q.Kind {
		case domain.KindMultipleChoice, domain.KindTrueFalse:
			graded.Selected = rec.Selected
			graded.Correct = q.Correct
			graded.IsCorrect = rec.Selected != nil && q.Correct != nil && *rec.Selected == *q.Correct
			if graded.IsCorrect {
				result.Score++
			}
		case domain.KindShortAnswer:
			text := ""
			if rec.Text != nil {
				text = *rec.Text
			}
			graded.Text = &text
			found, expected := matchKeywords(text, q.ExpectedKeywords)
			graded.KeywordsFound = &found
			graded.KeywordsExpected = &expected
			// Half the keywords earn the point; all of them mark it correct.
			if expected > 0 && found >= expected/2 {
				result.Score++
				graded.IsCorrect = found == expected
			}
		}
		result.Answers = append(result.Answers, graded)
	}

	if result.Total > 0 {
		result.Percentage = int(math.RoundToEven(float64(result.Score) / float64(result.Total) * 100))
	}
	return result
}

// matchKeywords counts keywords contained in text, ignoring case.
func matchKeywords(text string, keywords []string) (found, expected int) {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found++
		}
	}
	return found, len(keywords)
}
