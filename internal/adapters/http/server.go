// Package http exposes the engine and session manager as a JSON API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fablegraph/fable"
	"github.com/fablegraph/fable/internal/logging"
	"github.com/fablegraph/fable/pkg/session"
	"github.com/fablegraph/fable/pkg/story"
)

// Server wires the engine and the session manager into HTTP handlers.
type Server struct {
	engine   *fable.Engine
	sessions *session.Manager
	logger   *slog.Logger
	metrics  *Metrics
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics collectors. Defaults to a fresh registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a Server over the given engine and session manager.
func NewServer(engine *fable.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	return s
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Route("/playthroughs", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleList)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Get("/choices", s.handleChoices)
				r.Post("/advance", s.handleAdvance)
			})
		})
	})
	return r
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.metrics.requestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		s.logger.Debug("request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration_ms", time.Since(start).Milliseconds())
	})
}

type validateResponse struct {
	Valid    bool              `json:"valid"`
	Findings []findingResponse `json:"findings"`
}

type findingResponse struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	NodeID   string `json:"node_id,omitempty"`
	ChoiceID string `json:"choice_id,omitempty"`
	Detail   string `json:"detail"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	report := s.engine.Validate()
	s.metrics.validations.Inc()

	resp := validateResponse{
		Valid:    !report.Blocking(),
		Findings: []findingResponse{},
	}
	for _, f := range report.Findings {
		resp.Findings = append(resp.Findings, findingResponse{
			Kind:     string(f.Kind),
			Severity: string(f.Severity),
			NodeID:   f.NodeID,
			ChoiceID: f.ChoiceID,
			Detail:   f.Detail,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type createRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if body.SessionID == "" {
		body.SessionID = uuid.NewString()
	}

	state, err := s.sessions.LoadOrStart(r.Context(), body.SessionID, func() (*story.GameState, error) {
		return s.engine.NewPlaythrough(body.SessionID)
	})
	if err != nil {
		s.logger.Error("failed to create playthrough", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create playthrough")
		return
	}
	s.metrics.playthroughsStarted.Inc()
	writeJSON(w, http.StatusCreated, s.stateView(state))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list playthroughs")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"playthroughs": ids})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		if errors.Is(err, story.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "playthrough not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load playthrough")
		return
	}
	writeJSON(w, http.StatusOK, s.stateView(state))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete playthrough")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type choiceView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (s *Server) handleChoices(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		if errors.Is(err, story.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "playthrough not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load playthrough")
		return
	}

	choices := []choiceView{}
	for _, c := range s.engine.AvailableChoices(state) {
		choices = append(choices, choiceView{ID: c.ID, Text: c.Text})
	}
	writeJSON(w, http.StatusOK, map[string][]choiceView{"choices": choices})
}

type advanceRequest struct {
	ChoiceID string `json:"choice_id"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ChoiceID == "" {
		writeError(w, http.StatusBadRequest, "choice_id is required")
		return
	}

	next, err := s.sessions.Mutate(r.Context(), sessionID, func(state *story.GameState) (*story.GameState, error) {
		return s.engine.Advance(state, body.ChoiceID)
	})
	if err != nil {
		var illegal *fable.IllegalChoiceError
		switch {
		case errors.Is(err, story.ErrSessionNotFound):
			s.metrics.advances.WithLabelValues("not_found").Inc()
			writeError(w, http.StatusNotFound, "playthrough not found")
		case errors.As(err, &illegal):
			s.metrics.advances.WithLabelValues("rejected").Inc()
			writeError(w, http.StatusConflict, illegal.Error())
		default:
			s.metrics.advances.WithLabelValues("error").Inc()
			s.logger.Error("advance failed", "session_id", sessionID, "error", err)
			writeError(w, http.StatusInternalServerError, "advance failed")
		}
		return
	}

	s.metrics.advances.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, s.stateView(next))
}

type stateView struct {
	SessionID     string         `json:"session_id"`
	CurrentNodeID string         `json:"current_node_id"`
	Status        string         `json:"status"`
	Title         string         `json:"title,omitempty"`
	Content       string         `json:"content,omitempty"`
	Variables     map[string]any `json:"variables"`
	ChoiceHistory []string       `json:"choice_history"`
}

func (s *Server) stateView(state *story.GameState) stateView {
	view := stateView{
		SessionID:     state.SessionID,
		CurrentNodeID: state.CurrentNodeID,
		Status:        string(state.Status),
		Variables:     map[string]any{},
		ChoiceHistory: append([]string{}, state.ChoiceHistory...),
	}
	if node, ok := s.engine.CurrentNode(state); ok {
		view.Title = node.Title
		view.Content = node.Content
	}
	for name, v := range state.Variables {
		view.Variables[name] = v.Interface()
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
