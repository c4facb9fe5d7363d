package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Selection is the `selected`/`correct` wire value: an option index for
// multiple choice questions or a boolean for true/false questions.
type Selection struct {
	boolean bool
	index   int
	value   bool
}

// IndexSelection selects the option at index i.
func IndexSelection(i int) Selection { return Selection{index: i} }

// BoolSelection selects true or false.
func BoolSelection(v bool) Selection { return Selection{boolean: true, value: v} }

// Index returns the option index when the selection is an index.
func (s Selection) Index() (int, bool) {
	if s.boolean {
		return 0, false
	}
	return s.index, true
}

// Bool returns the value when the selection is a boolean.
func (s Selection) Bool() (bool, bool) {
	if !s.boolean {
		return false, false
	}
	return s.value, true
}

func (s Selection) String() string {
	if s.boolean {
		return fmt.Sprintf("%t", s.value)
	}
	return fmt.Sprintf("%d", s.index)
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if s.boolean {
		return json.Marshal(s.value)
	}
	return json.Marshal(s.index)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*s = BoolSelection(true)
	case bytes.Equal(data, []byte("false")):
		*s = BoolSelection(false)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("selection must be an integer or boolean: %w", err)
		}
		i, err := n.Int64()
		if err != nil {
			return fmt.Errorf("selection must be an integer or boolean: %w", err)
		}
		*s = IndexSelection(int(i))
	}
	return nil
}

type answerKind uint8

const (
	answerNone answerKind = iota
	answerChoice
	answerBoolean
	answerText
)

// Answer is the taker's response to one question. The zero value is
// Unanswered.
type Answer struct {
	kind   answerKind
	choice int
	value  bool
	text   string
}

// Unanswered is the absence of an answer.
var Unanswered = Answer{}

// Choice answers a multiple choice question with an option index.
func Choice(index int) Answer { return Answer{kind: answerChoice, choice: index} }

// Boolean answers a true/false question.
func Boolean(v bool) Answer { return Answer{kind: answerBoolean, value: v} }

// Text answers a short answer question.
func Text(s string) Answer { return Answer{kind: answerText, text: s} }

// Answered reports whether a is anything other than Unanswered.
func (a Answer) Answered() bool { return a.kind != answerNone }

func (a Answer) Choice() (int, bool)   { return a.choice, a.kind == answerChoice }
func (a Answer) Boolean() (bool, bool) { return a.value, a.kind == answerBoolean }
func (a Answer) Text() (string, bool)  { return a.text, a.kind == answerText }

// Fits reports whether the answer shape belongs to questions of kind k.
// Unanswered fits every kind.
func (a Answer) Fits(k Kind) bool {
	switch a.kind {
	case answerNone:
		return true
	case answerChoice:
		return k == KindMultipleChoice
	case answerBoolean:
		return k == KindTrueFalse
	case answerText:
		return k == KindShortAnswer
	}
	return false
}

func (a Answer) String() string {
	switch a.kind {
	case answerChoice:
		return fmt.Sprintf("choice(%d)", a.choice)
	case answerBoolean:
		return fmt.Sprintf("boolean(%t)", a.value)
	case answerText:
		return fmt.Sprintf("text(%q)", a.text)
	}
	return "unanswered"
}

// Record builds the wire record for question id, leaving selected and
// text absent for Unanswered.
func (a Answer) Record(id QuestionID, timeSpentSec int) AnswerRecord {
	rec := AnswerRecord{QuestionID: id, TimeSpentSec: timeSpentSec}
	switch a.kind {
	case answerChoice:
		sel := IndexSelection(a.choice)
		rec.Selected = &sel
	case answerBoolean:
		sel := BoolSelection(a.value)
		rec.Selected = &sel
	case answerText:
		text := a.text
		rec.Text = &text
	}
	return rec
}

// AnswerRecord is one entry of a submission.
type AnswerRecord struct {
	QuestionID   QuestionID `json:"question_id"`
	Selected     *Selection `json:"selected,omitempty"`
	Text         *string    `json:"text,omitempty"`
	TimeSpentSec int        `json:"time_spent_sec"`
}

// Submission is the body of POST /quiz/{id}/submit.
type Submission struct {
	Answers      []AnswerRecord `json:"answers"`
	TotalTimeSec int            `json:"total_time_sec"`
}

// Result is the scoring endpoint's reply. Success false carries no detail
// and means the taker may retry.
type Result struct {
	Success    bool `json:"success"`
	Score      int  `json:"score"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
}

// MarshalJSON writes a success with all of its fields, including a zero
// score, and a failure as the bare {"success":false}.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return []byte(`{"success":false}`), nil
	}
	type wire Result
	return json.Marshal(wire(r))
}

// Failed is the retryable failure variant.
func Failed() Result { return Result{} }
