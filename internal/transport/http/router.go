package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"lecture-quiz/internal/app"
	"lecture-quiz/internal/domain"
)

// API exposes the quiz use cases over HTTP.
type API struct {
	service *app.QuizService
	log     zerolog.Logger
}

func NewAPI(service *app.QuizService, log zerolog.Logger) *API {
	return &API{
		service: service,
		log:     log.With().Str("component", "http_api").Logger(),
	}
}

// NewRouter mounts the API and the websocket front end. An empty origins
// list allows any origin.
func NewRouter(api *API, ws *WSHandler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(api.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/quiz/{quizID}/submit", api.SubmitQuiz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/quizzes", api.ListQuizzes)
		r.Get("/quiz/{quizID}", api.GetQuiz)
		r.Get("/courses", api.ListCourses)
	})
	if ws != nil {
		r.Get("/ws", ws.ServeWS)
	}
	return r
}

// SubmitQuiz scores a submission.
func (a *API) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")

	var submission domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid submission")
		return
	}
	result, err := a.service.Submit(r.Context(), quizID, submission)
	if err != nil {
		a.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetQuiz returns a quiz without its answer key.
func (a *API) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := a.service.ClientQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (a *API) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.service.ListQuizzes(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (a *API) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := a.service.Courses(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (a *API) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		writeErr(w, http.StatusNotFound, "quiz not found")
	case errors.Is(err, domain.ErrInvalidSubmission):
		writeErr(w, http.StatusBadRequest, "invalid submission")
	default:
		a.log.Error().Err(err).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
