package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/session"
)

type action int

const (
	actionNone action = iota
	actionNext
	actionPrev
	actionSubmit
	actionQuit
	actionAnswer
	actionUnknown
)

// parseCommand interprets one input line against the question on screen.
// Digits pick a multiple choice option, t/f answer true/false questions
// and any other text answers a short answer question.
func parseCommand(line string, q domain.Question) (action, domain.Answer) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return actionNone, domain.Unanswered
	case "n":
		return actionNext, domain.Unanswered
	case "p":
		return actionPrev, domain.Unanswered
	case "s":
		return actionSubmit, domain.Unanswered
	case "q":
		return actionQuit, domain.Unanswered
	}

	switch q.Kind {
	case domain.KindMultipleChoice:
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(q.Options) {
			return actionUnknown, domain.Unanswered
		}
		return actionAnswer, domain.Choice(n - 1)
	case domain.KindTrueFalse:
		switch strings.ToLower(line) {
		case "t", "true":
			return actionAnswer, domain.Boolean(true)
		case "f", "false":
			return actionAnswer, domain.Boolean(false)
		}
		return actionUnknown, domain.Unanswered
	case domain.KindShortAnswer:
		return actionAnswer, domain.Text(line)
	}
	return actionUnknown, domain.Unanswered
}

// Run reads commands from in and applies them to sess until the quiz is
// submitted, the taker quits or the input ends.
func Run(ctx context.Context, sess *session.Session, r *Renderer, in io.Reader) error {
	sess.Start()
	defer sess.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		act, answer := parseCommand(scanner.Text(), sess.Current())
		switch act {
		case actionNone:
		case actionNext:
			if !sess.Next() {
				r.Printf("   no next question, (s)ubmit when ready\n")
			}
		case actionPrev:
			if !sess.Prev() {
				r.Printf("   already at the first question\n")
			}
		case actionSubmit:
			if _, err := sess.Submit(ctx); err != nil && !errors.Is(err, domain.ErrNotSubmittable) {
				return err
			}
			if sess.Status() == session.StatusSubmitted {
				return nil
			}
		case actionQuit:
			return nil
		case actionAnswer:
			if err := sess.SelectAnswer(sess.Current().ID, answer); err != nil {
				r.Printf("   %v\n", err)
			}
		default:
			r.Printf("   unknown command\n")
		}
	}
	return scanner.Err()
}
