package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/peplab"
	"github.com/aretw0/peplab/pkg/catalog"
	"github.com/aretw0/peplab/pkg/domain"
)

// Engine defines the navigation core served over HTTP.
type Engine interface {
	Navigate(ctx context.Context, sessionID, target string) (peplab.Result, error)
	Initialize(ctx context.Context, sessionID string) (peplab.Result, error)
	Context(ctx context.Context, sessionID string) (peplab.Result, error)
	Reset(ctx context.Context, sessionID string) error
}

// Server serves JSON page views, the navigation API and per-session event streams.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	cookie  string
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.cookie = name
		}
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		cookie: DefaultCookieName,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}
	r.Get("/api/catalog", server.GetCatalog)

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware(server.cookie))

		r.Route("/api", func(r chi.Router) {
			r.Post("/navigate", server.Navigate)
			r.Post("/initialize", server.Initialize)
			r.Get("/context", server.GetContext)
			r.Get("/history", server.GetHistory)
			r.Delete("/session", server.DeleteSession)
			r.Get("/events", server.SubscribeEvents)
		})

		r.Get("/", server.page(func(*http.Request) (string, int) { return domain.KindHome.Name(), 0 }))
		r.Get("/dashboard", server.page(func(*http.Request) (string, int) { return domain.KindDashboard.Name(), 0 }))
		r.Get("/{hub}", server.page(hubTarget))
		r.Get("/{hub}/{method}", server.page(methodTarget))
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NavigateRequest is the body of POST /api/navigate.
type NavigateRequest struct {
	Target string `json:"target"`
}

// OutcomeResponse is the wire form of a domain.Outcome.
type OutcomeResponse struct {
	Target string               `json:"target"`
	Status domain.OutcomeStatus `json:"status"`
	Routes []string             `json:"routes,omitempty"`
	Reason string               `json:"reason,omitempty"`
}

// ContextResponse is returned by every session endpoint.
type ContextResponse struct {
	SessionID string                   `json:"session_id"`
	Context   domain.NavigationContext `json:"context"`
	History   []string                 `json:"history,omitempty"`
	Outcome   *OutcomeResponse         `json:"outcome,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// PageResponse is returned by the page routes.
type PageResponse struct {
	ContextResponse
	Page PageView `json:"page"`
}

// PageView describes what a renderer should show for the current state.
type PageView struct {
	Title     string             `json:"title"`
	State     string             `json:"state"`
	Route     string             `json:"route"`
	BackLink  string             `json:"back_link,omitempty"`
	Method    *catalog.Method    `json:"method,omitempty"`
	Methods   []catalog.Method   `json:"methods,omitempty"`
	Workflows []catalog.Workflow `json:"workflows,omitempty"`
}

func toOutcome(o domain.Outcome) *OutcomeResponse {
	return &OutcomeResponse{Target: o.Target, Status: o.Status, Routes: o.Routes, Reason: o.ReasonText()}
}

func outcomeStatus(o domain.Outcome) int {
	switch o.Status {
	case domain.OutcomeBlocked:
		return http.StatusServiceUnavailable
	case domain.OutcomeRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}

// Navigate handles POST /api/navigate.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var body NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Navigate: Invalid request body", "error", err)
		return
	}

	id := SessionID(r.Context())
	res, err := s.Engine.Navigate(r.Context(), id, body.Target)
	if err != nil {
		http.Error(w, fmt.Sprintf("Navigate error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Navigate failed", "error", err, "session_id", id)
		return
	}
	s.broadcast(id, res.Diff)

	s.writeJSON(w, outcomeStatus(res.Outcome), ContextResponse{
		SessionID: id,
		Context:   res.Context,
		History:   res.History,
		Outcome:   toOutcome(res.Outcome),
	})
}

// Initialize handles POST /api/initialize.
func (s *Server) Initialize(w http.ResponseWriter, r *http.Request) {
	id := SessionID(r.Context())
	res, err := s.Engine.Initialize(r.Context(), id)
	s.broadcast(id, res.Diff)

	resp := ContextResponse{SessionID: id, Context: res.Context, History: res.History}
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, domain.ErrInitialization):
		resp.Error = err.Error()
		s.writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		http.Error(w, fmt.Sprintf("Initialize error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Initialize failed", "error", err, "session_id", id)
	}
}

// GetContext handles GET /api/context.
func (s *Server) GetContext(w http.ResponseWriter, r *http.Request) {
	id := SessionID(r.Context())
	res, err := s.Engine.Context(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Context error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Context failed", "error", err, "session_id", id)
		return
	}
	s.writeJSON(w, http.StatusOK, ContextResponse{SessionID: id, Context: res.Context})
}

// GetHistory handles GET /api/history.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := SessionID(r.Context())
	res, err := s.Engine.Context(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("History error: %v", err), http.StatusInternalServerError)
		s.logger.Error("History failed", "error", err, "session_id", id)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "history": res.History})
}

// DeleteSession handles DELETE /api/session.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := SessionID(r.Context())
	if err := s.Engine.Reset(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Reset error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Reset failed", "error", err, "session_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCatalog handles GET /api/catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, catalog.Workflows())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(peplab.Version),
	})
}

// targetFunc maps a page request to a navigation target. A non-zero status aborts.
type targetFunc func(r *http.Request) (string, int)

func hubTarget(r *http.Request) (string, int) {
	hub := chi.URLParam(r, "hub")
	if k, ok := domain.KindByName(hub); !ok || !k.IsWorkflow() {
		return "", http.StatusNotFound
	}
	return hub, 0
}

func methodTarget(r *http.Request) (string, int) {
	hub, method := chi.URLParam(r, "hub"), chi.URLParam(r, "method")
	k, ok := domain.KindByName(hub)
	if !ok || !k.IsWorkflow() {
		return "", http.StatusNotFound
	}
	if _, known := catalog.Lookup(k, method); !known {
		return "", http.StatusNotFound
	}
	return hub + "/" + method, 0
}

// page drives the navigation target of a page route and renders its view.
func (s *Server) page(target targetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, status := target(r)
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}

		id := SessionID(r.Context())
		res, err := s.Engine.Navigate(r.Context(), id, t)
		if err != nil {
			http.Error(w, fmt.Sprintf("Navigate error: %v", err), http.StatusInternalServerError)
			s.logger.Error("Page navigation failed", "error", err, "session_id", id, "target", t)
			return
		}
		s.broadcast(id, res.Diff)

		s.writeJSON(w, outcomeStatus(res.Outcome), PageResponse{
			ContextResponse: ContextResponse{
				SessionID: id,
				Context:   res.Context,
				Outcome:   toOutcome(res.Outcome),
			},
			Page: buildPage(res.Context),
		})
	}
}

func buildPage(nc domain.NavigationContext) PageView {
	view := PageView{
		State:    nc.CurrentState,
		Route:    nc.CurrentRoute,
		BackLink: nc.ParentRoute,
	}
	k, ok := domain.KindByName(nc.CurrentState)
	if !ok {
		return view
	}
	view.Title = catalog.Title(k)

	switch {
	case k == domain.KindDashboard:
		view.Workflows = catalog.Workflows()
	case k.IsWorkflow():
		if m, found := catalog.Lookup(k, nc.Substate); found {
			view.Title = m.Name
			view.Method = &m
		} else {
			view.Methods = catalog.Methods(k)
		}
	}
	return view
}

func (s *Server) broadcast(sessionID string, diff *domain.ContextDiff) {
	if diff == nil {
		return
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("Diff encode failed", "error", err)
		return
	}
	s.Streams.Broadcast(sessionID, string(bytes))
}

// SubscribeEvents handles GET /api/events (SSE). The stream carries one
// ContextDiff per change of the caller's session. The optional "watch" query
// (route,state,substate,backend,history) filters which diffs are sent.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := SessionID(r.Context())
	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matchesWatch(msg string, watchList []string) bool {
	var diff domain.ContextDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "route":
			if diff.CurrentRoute != nil {
				return true
			}
		case "state":
			if diff.CurrentState != nil {
				return true
			}
		case "substate":
			if diff.Substate != nil {
				return true
			}
		case "backend":
			if diff.BackendStatus != nil {
				return true
			}
		case "history":
			if diff.HistoryParams != nil {
				return true
			}
		}
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}
