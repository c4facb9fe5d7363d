package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lecture-quiz/internal/app"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/session"
)

// writeWait bounds a single outbound write to a peer that stopped reading.
const writeWait = 10 * time.Second

// WSHandler runs one quiz session per websocket connection.
type WSHandler struct {
	service     *app.QuizService
	upgrader    websocket.Upgrader
	log         zerolog.Logger
	sessionOpts []session.Option
}

func NewWSHandler(service *app.QuizService, log zerolog.Logger, opts ...session.Option) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:         log.With().Str("component", "ws_handler").Logger(),
		sessionOpts: opts,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// selectPayload carries exactly one of Choice, Value or Text; none of them
// clears the answer. An empty QuestionID targets the current question.
type selectPayload struct {
	QuestionID domain.QuestionID `json:"questionId"`
	Choice     *int              `json:"choice,omitempty"`
	Value      *bool             `json:"value,omitempty"`
	Text       *string           `json:"text,omitempty"`
}

func (p selectPayload) answer() domain.Answer {
	switch {
	case p.Choice != nil:
		return domain.Choice(*p.Choice)
	case p.Value != nil:
		return domain.Boolean(*p.Value)
	case p.Text != nil:
		return domain.Text(*p.Text)
	}
	return domain.Unanswered
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and drives a session for ?quizId= until the
// peer disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 32)
	done := make(chan struct{})
	writerDone := make(chan struct{})

	write := func(msg outboundMessage[any]) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteJSON(msg)
	}
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-send:
				if err := write(msg); err != nil {
					h.log.Debug().Err(err).Msg("ws write failed")
					// unblock the read loop
					_ = conn.Close()
					return
				}
			case <-done:
				for {
					select {
					case msg := <-send:
						if err := write(msg); err != nil {
							return
						}
					default:
						return
					}
				}
			}
		}
	}()

	renderer := &wsRenderer{send: send, done: done, stopped: writerDone}
	sessionID, sess, err := h.service.StartSession(r.Context(), quizID, renderer, h.sessionOpts...)
	if err != nil {
		renderer.push("error", errorPayload{Message: err.Error()})
		close(done)
		<-writerDone
		return
	}
	log := h.log.With().Str("session_id", sessionID).Str("quiz_id", quizID).Logger()
	log.Info().Msg("session opened")

	ctx, cancel := context.WithCancel(context.Background())
	var submits sync.WaitGroup

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		// keeps the registry's liveness marker fresh
		h.service.Session(sessionID)
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				renderer.push("error", errorPayload{Message: "invalid select payload"})
				continue
			}
			id := payload.QuestionID
			if id == "" {
				id = sess.Current().ID
			}
			if err := sess.SelectAnswer(id, payload.answer()); err != nil {
				renderer.push("error", errorPayload{Message: err.Error()})
			}
		case "prev":
			sess.Prev()
		case "next":
			sess.Next()
		case "submit":
			submits.Add(1)
			go func() {
				defer submits.Done()
				if _, err := sess.Submit(ctx); err != nil {
					renderer.push("error", errorPayload{Message: err.Error()})
				}
			}()
		default:
			renderer.push("error", errorPayload{Message: "unsupported message type"})
		}
	}

	cancel()
	close(done)
	submits.Wait()
	h.service.EndSession(sessionID)
	<-writerDone
	log.Info().Msg("session closed")
}

// wsRenderer turns renderer calls into outbound messages. Once done is
// closed or the writer has stopped every push is dropped.
type wsRenderer struct {
	send    chan<- outboundMessage[any]
	done    <-chan struct{}
	stopped <-chan struct{}
}

type questionPayload struct {
	Question domain.Question `json:"question"`
	Answer   answerPayload   `json:"answer"`
}

type answerPayload struct {
	Choice *int    `json:"choice,omitempty"`
	Value  *bool   `json:"value,omitempty"`
	Text   *string `json:"text,omitempty"`
}

func newAnswerPayload(a domain.Answer) answerPayload {
	var p answerPayload
	if i, ok := a.Choice(); ok {
		p.Choice = &i
	}
	if v, ok := a.Boolean(); ok {
		p.Value = &v
	}
	if t, ok := a.Text(); ok {
		p.Text = &t
	}
	return p
}

type selectionPayload struct {
	QuestionID domain.QuestionID `json:"questionId"`
	Answer     answerPayload     `json:"answer"`
}

type progressPayload struct {
	Label   string `json:"label"`
	IsFirst bool   `json:"isFirst"`
	IsLast  bool   `json:"isLast"`
}

type timerPayload struct {
	Elapsed string `json:"elapsed"`
}

type resultPayload struct {
	Score      int `json:"score"`
	Percentage int `json:"percentage"`
}

type noticePayload struct {
	Message string `json:"message"`
}

type busyPayload struct {
	Busy bool `json:"busy"`
}

func (r *wsRenderer) push(typ string, payload any) {
	select {
	case r.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-r.done:
	case <-r.stopped:
	}
}

func (r *wsRenderer) Render(q domain.Question, current domain.Answer) {
	r.push("question", questionPayload{Question: q.ClientView(), Answer: newAnswerPayload(current)})
}

func (r *wsRenderer) UpdateSelection(q domain.Question, current domain.Answer) {
	r.push("selection", selectionPayload{QuestionID: q.ID, Answer: newAnswerPayload(current)})
}

func (r *wsRenderer) UpdateProgress(label string, isFirst, isLast bool) {
	r.push("progress", progressPayload{Label: label, IsFirst: isFirst, IsLast: isLast})
}

func (r *wsRenderer) UpdateTimer(display string) {
	r.push("timer", timerPayload{Elapsed: display})
}

func (r *wsRenderer) ShowResult(score, percentage int) {
	r.push("result", resultPayload{Score: score, Percentage: percentage})
}

func (r *wsRenderer) ShowNotice(message string) {
	r.push("notice", noticePayload{Message: message})
}

func (r *wsRenderer) SetSubmitBusy(busy bool) {
	r.push("busy", busyPayload{Busy: busy})
}
