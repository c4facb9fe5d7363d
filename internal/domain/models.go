package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind is the question type; it decides the shape of an Answer.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindTrueFalse      Kind = "true_false"
	KindShortAnswer    Kind = "short_answer"
)

// Valid reports whether k is one of the known question kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindShortAnswer:
		return true
	}
	return false
}

// QuestionID identifies a question within a quiz. Quiz files use both
// numeric and string ids, so JSON numbers are accepted and canonical
// integers are written back as numbers.
type QuestionID string

func (id QuestionID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	*id = QuestionID(n.String())
	return nil
}

// Question is one quiz item. Correct, ExpectedKeywords and SlideRef are
// answer-key fields that never leave the server.
type Question struct {
	ID               QuestionID `json:"id" validate:"required"`
	Kind             Kind       `json:"type" validate:"required"`
	Text             string     `json:"question" validate:"required"`
	Topic            string     `json:"topic,omitempty"`
	Options          []string   `json:"options,omitempty"`
	Correct          *Selection `json:"correct,omitempty"`
	ExpectedKeywords []string   `json:"expected_keywords,omitempty"`
	SlideRef         string     `json:"slide_ref,omitempty"`
}

// ClientView strips the answer key.
func (q Question) ClientView() Question {
	out := Question{
		ID:    q.ID,
		Kind:  q.Kind,
		Text:  q.Text,
		Topic: q.Topic,
	}
	if q.Kind == KindMultipleChoice {
		out.Options = append([]string(nil), q.Options...)
	}
	return out
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id" validate:"required"`
	Lecture   string     `json:"lecture,omitempty" validate:"required"`
	Topic     string     `json:"topic,omitempty" validate:"required"`
	Created   string     `json:"created,omitempty"`
	SourcePDF string     `json:"source_pdf,omitempty"`
	Questions []Question `json:"questions" validate:"required,dive"`
}

// ClientView returns a copy of the quiz that is safe to send to takers.
func (q Quiz) ClientView() Quiz {
	out := Quiz{
		ID:        q.ID,
		Lecture:   q.Lecture,
		Topic:     q.Topic,
		Created:   q.Created,
		Questions: make([]Question, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		out.Questions = append(out.Questions, question.ClientView())
	}
	return out
}

// Question returns the question with the given id.
func (q Quiz) Question(id QuestionID) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Summary is the listing view of a quiz.
type Summary struct {
	ID           string `json:"id"`
	Lecture      string `json:"lecture"`
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
	Created      string `json:"created"`
	Completed    bool   `json:"completed"`
}

// Summarize builds the listing view, filling unknown fields the way quiz
// indexes have always shown them.
func (q Quiz) Summarize() Summary {
	s := Summary{
		ID:           q.ID,
		Lecture:      q.Lecture,
		Topic:        q.Topic,
		NumQuestions: len(q.Questions),
		Created:      q.Created,
	}
	if s.Lecture == "" {
		s.Lecture = "Unknown"
	}
	if s.Topic == "" {
		s.Topic = "Unknown"
	}
	if s.Created == "" {
		s.Created = "Unknown"
	}
	return s
}

// StoredAnswer is the graded view of one answer kept with a result.
type StoredAnswer struct {
	QuestionID       QuestionID `json:"question_id"`
	Topic            string     `json:"topic"`
	SlideRef         string     `json:"slide_ref"`
	Kind             Kind       `json:"type"`
	Selected         *Selection `json:"selected,omitempty"`
	Text             *string    `json:"text,omitempty"`
	Correct          *Selection `json:"correct,omitempty"`
	KeywordsFound    *int       `json:"keywords_found,omitempty"`
	KeywordsExpected *int       `json:"keywords_expected,omitempty"`
	IsCorrect        bool       `json:"is_correct"`
	TimeSpentSec     int        `json:"time_spent_sec"`
}

// StoredResult is a scored submission as persisted by a ResultStore.
type StoredResult struct {
	ID           string         `json:"id"`
	QuizID       string         `json:"quiz_id"`
	Completed    time.Time      `json:"completed"`
	Answers      []StoredAnswer `json:"answers"`
	Score        int            `json:"score"`
	Total        int            `json:"total"`
	Percentage   int            `json:"percentage"`
	TotalTimeSec int            `json:"total_time_sec"`
}
