package session

import "lecture-quiz/internal/domain"

// Renderer draws the session. It is write-only from the session's point of
// view: the front end reports input back through the session commands.
type Renderer interface {
	// Render draws q with its kind-specific input, pre-filled with current.
	Render(q domain.Question, current domain.Answer)
	// UpdateSelection reflects a new answer for q.
	UpdateSelection(q domain.Question, current domain.Answer)
	// UpdateProgress shows label; Previous is disabled on the first
	// question, Next is replaced by Submit on the last one.
	UpdateProgress(label string, isFirst, isLast bool)
	UpdateTimer(display string)
	ShowResult(score, percentage int)
	ShowNotice(message string)
	SetSubmitBusy(busy bool)
}

// Progress is the derived position view.
type Progress struct {
	Label   string
	Index   int
	Count   int
	IsFirst bool
	IsLast  bool
}

// NopRenderer discards every call.
type NopRenderer struct{}

func (NopRenderer) Render(domain.Question, domain.Answer)          {}
func (NopRenderer) UpdateSelection(domain.Question, domain.Answer) {}
func (NopRenderer) UpdateProgress(string, bool, bool)              {}
func (NopRenderer) UpdateTimer(string)                             {}
func (NopRenderer) ShowResult(int, int)                            {}
func (NopRenderer) ShowNotice(string)                              {}
func (NopRenderer) SetSubmitBusy(bool)                             {}
