package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"lecture-quiz/internal/domain"
)

const clearScreen = "\033[H\033[2J"

// Renderer draws a quiz session as plain text.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	clear   bool
	elapsed string
}

// NewRenderer writes to out. The screen is cleared between questions only
// when out is an interactive terminal.
func NewRenderer(out io.Writer) *Renderer {
	r := &Renderer{out: out, elapsed: "0:00"}
	if f, ok := out.(*os.File); ok {
		r.clear = term.IsTerminal(int(f.Fd()))
	}
	return r
}

func (r *Renderer) Render(q domain.Question, current domain.Answer) {
	var b strings.Builder
	if r.clear {
		b.WriteString(clearScreen)
	}
	if q.Topic != "" {
		fmt.Fprintf(&b, "[%s]\n", q.Topic)
	}
	fmt.Fprintf(&b, "%s\n\n", q.Text)

	switch q.Kind {
	case domain.KindMultipleChoice:
		chosen, isChoice := current.Choice()
		for i, opt := range q.Options {
			mark := " "
			if isChoice && chosen == i {
				mark = "*"
			}
			fmt.Fprintf(&b, " %s %d) %s\n", mark, i+1, opt)
		}
		if len(q.Options) == 0 {
			b.WriteString("   (no options)\n")
		}
	case domain.KindTrueFalse:
		b.WriteString("   (t)rue / (f)alse\n")
	case domain.KindShortAnswer:
		b.WriteString("   type your answer and press enter\n")
	}
	if current.Answered() {
		fmt.Fprintf(&b, "\n   current answer: %s\n", describe(current))
	}
	r.write(b.String())
}

func (r *Renderer) UpdateSelection(_ domain.Question, current domain.Answer) {
	if !current.Answered() {
		r.write("   answer cleared\n")
		return
	}
	r.write(fmt.Sprintf("   answer: %s\n", describe(current)))
}

func (r *Renderer) UpdateProgress(label string, isFirst, isLast bool) {
	cmds := []string{}
	if !isFirst {
		cmds = append(cmds, "(p)rev")
	}
	if isLast {
		cmds = append(cmds, "(s)ubmit")
	} else {
		cmds = append(cmds, "(n)ext")
	}
	cmds = append(cmds, "(q)uit")

	r.mu.Lock()
	elapsed := r.elapsed
	r.mu.Unlock()
	r.write(fmt.Sprintf("\n%s   %s   %s\n", label, elapsed, strings.Join(cmds, " ")))
}

// UpdateTimer only records the display; it is printed with the progress
// line so ticks do not scroll the screen.
func (r *Renderer) UpdateTimer(display string) {
	r.mu.Lock()
	r.elapsed = display
	r.mu.Unlock()
}

func (r *Renderer) ShowResult(score, percentage int) {
	r.write(fmt.Sprintf("\nQuiz submitted. Score: %d (%d%%)\n", score, percentage))
}

func (r *Renderer) ShowNotice(message string) {
	r.write("! " + message + "\n")
}

func (r *Renderer) SetSubmitBusy(busy bool) {
	if busy {
		r.write("Submitting...\n")
	}
}

// Printf writes a line outside of session rendering, e.g. command hints.
func (r *Renderer) Printf(format string, args ...any) {
	r.write(fmt.Sprintf(format, args...))
}

func (r *Renderer) write(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.out, s)
}

func describe(a domain.Answer) string {
	if i, ok := a.Choice(); ok {
		return fmt.Sprintf("option %d", i+1)
	}
	if v, ok := a.Boolean(); ok {
		if v {
			return "true"
		}
		return "false"
	}
	if t, ok := a.Text(); ok {
		return fmt.Sprintf("%q", t)
	}
	return "none"
}
