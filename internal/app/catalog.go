package app

import (
	"sort"
	"strings"
	"unicode"

	"lecture-quiz/internal/domain"
)

const otherCourse = "OTHER"

// Course groups the lectures that share a course code.
type Course struct {
	Code      string    `json:"code"`
	Lectures  []Lecture `json:"lectures"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
}

// Lecture groups the quizzes generated from one lecture.
type Lecture struct {
	Name      string           `json:"name"`
	Quizzes   []domain.Summary `json:"quizzes"`
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
}

// CourseCode extracts the leading letters of a lecture name, upper-cased
// ("pcv5" -> "PCV").
func CourseCode(lecture string) string {
	end := strings.IndexFunc(lecture, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsLetter(r)
	})
	if end < 0 {
		end = len(lecture)
	}
	if end == 0 {
		return otherCourse
	}
	return strings.ToUpper(lecture[:end])
}

func summarize(quizzes []domain.Quiz) []domain.Summary {
	out := make([]domain.Summary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, q.Summarize())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Created > out[j].Created })
	return out
}

// groupByCourse keeps the incoming quiz order inside a lecture and sorts
// courses and lectures by name.
func groupByCourse(summaries []domain.Summary, completed map[string]struct{}) []Course {
	courses := make(map[string]*Course)
	lectures := make(map[string]map[string]*Lecture)

	for _, summary := range summaries {
		_, summary.Completed = completed[summary.ID]
		code := CourseCode(summary.Lecture)

		course, ok := courses[code]
		if !ok {
			course = &Course{Code: code}
			courses[code] = course
			lectures[code] = make(map[string]*Lecture)
		}
		lecture, ok := lectures[code][summary.Lecture]
		if !ok {
			lecture = &Lecture{Name: summary.Lecture}
			lectures[code][summary.Lecture] = lecture
		}

		lecture.Quizzes = append(lecture.Quizzes, summary)
		lecture.Total++
		course.Total++
		if summary.Completed {
			lecture.Completed++
			course.Completed++
		}
	}

	out := make([]Course, 0, len(courses))
	for code, course := range courses {
		for _, lecture := range lectures[code] {
			course.Lectures = append(course.Lectures, *lecture)
		}
		sort.Slice(course.Lectures, func(i, j int) bool {
			return course.Lectures[i].Name < course.Lectures[j].Name
		})
		out = append(out, *course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
