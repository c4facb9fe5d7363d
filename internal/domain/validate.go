package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	minOptions           = 2
	maxOptions           = 6
	recommendedQuestions = 5
)

// Issue is one finding of ValidateQuiz. Warnings do not make a quiz invalid.
type Issue struct {
	Message string
	Warning bool
}

func (i Issue) String() string { return i.Message }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateQuiz checks a quiz definition for the format the quiz runner
// expects. It never fails: every problem is reported as an Issue.
func ValidateQuiz(quiz Quiz) []Issue {
	var issues []Issue
	name := quiz.ID
	if name == "" {
		name = "?"
	}
	errorf := func(format string, args ...any) {
		issues = append(issues, Issue{Message: fmt.Sprintf(format, args...)})
	}

	var verrs validator.ValidationErrors
	if err := validate.Struct(quiz); errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() != "required" {
				continue
			}
			if idx := questionIndex(fe.Namespace()); idx >= 0 {
				errorf("Quiz '%s', Question %d: Missing required field '%s'", name, idx+1, fe.Field())
				continue
			}
			errorf("Quiz '%s': Missing required field '%s'", name, fe.Field())
		}
	}

	if quiz.Lecture != "" && !unicode.IsLetter([]rune(quiz.Lecture)[0]) {
		errorf("Quiz '%s': Invalid lecture format '%s'", name, quiz.Lecture)
	}

	switch n := len(quiz.Questions); {
	case n == 0 && quiz.Questions != nil:
		errorf("Quiz '%s': No questions in quiz", name)
	case n > 0 && n < recommendedQuestions:
		issues = append(issues, Issue{
			Message: fmt.Sprintf("Quiz '%s': Only %d questions (recommend 10+)", name, n),
			Warning: true,
		})
	}

	seen := make(map[QuestionID]struct{}, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if q.ID == "" {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			errorf("Quiz '%s': Duplicate question IDs detected", name)
			break
		}
		seen[q.ID] = struct{}{}
	}

	for i, q := range quiz.Questions {
		for _, msg := range validateQuestion(q) {
			errorf("Quiz '%s', Question %d: %s", name, i+1, msg)
		}
	}
	return issues
}

// Valid reports whether issues contains no errors.
func Valid(issues []Issue) bool {
	for _, issue := range issues {
		if !issue.Warning {
			return false
		}
	}
	return true
}

func validateQuestion(q Question) []string {
	var msgs []string
	if q.Kind == "" {
		return nil
	}
	if !q.Kind.Valid() {
		return []string{fmt.Sprintf("Invalid question type '%s'", q.Kind)}
	}

	switch q.Kind {
	case KindMultipleChoice:
		switch n := len(q.Options); {
		case q.Options == nil:
			msgs = append(msgs, "Multiple choice question missing 'options' array")
		case n < minOptions:
			msgs = append(msgs, fmt.Sprintf("Multiple choice needs at least %d options, has %d", minOptions, n))
		case n > maxOptions:
			msgs = append(msgs, fmt.Sprintf("Multiple choice has %d options (recommend 4)", n))
		}
		if q.Correct == nil {
			msgs = append(msgs, "Multiple choice question missing 'correct' index")
		} else if idx, ok := q.Correct.Index(); !ok {
			msgs = append(msgs, "'correct' must be an integer index, got bool")
		} else if q.Options != nil && (idx < 0 || idx >= len(q.Options)) {
			msgs = append(msgs, fmt.Sprintf("'correct' index %d out of range for %d options", idx, len(q.Options)))
		}
	case KindTrueFalse:
		if q.Correct == nil {
			msgs = append(msgs, "True/false question missing 'correct' value")
		} else if _, ok := q.Correct.Bool(); !ok {
			msgs = append(msgs, "True/false 'correct' must be boolean, got int")
		}
	case KindShortAnswer:
		if q.ExpectedKeywords == nil {
			msgs = append(msgs, "Short answer question missing 'expected_keywords' array")
		} else if len(q.ExpectedKeywords) == 0 {
			msgs = append(msgs, "'expected_keywords' is empty")
		}
	}

	if q.Text != "" && strings.TrimSpace(q.Text) == "" {
		msgs = append(msgs, "Question text is empty")
	}
	return msgs
}

// questionIndex extracts N from a namespace like "Quiz.questions[N].id".
func questionIndex(ns string) int {
	start := strings.Index(ns, "questions[")
	if start < 0 {
		return -1
	}
	rest := ns[start+len("questions["):]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return -1
	}
	idx := 0
	for _, r := range rest[:end] {
		if r < '0' || r > '9' {
			return -1
		}
		idx = idx*10 + int(r-'0')
	}
	return idx
}
