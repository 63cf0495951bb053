// Package httpapi exposes the dispatcher over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"nova/internal/dispatch"
	"nova/internal/validate"
)

const MaxBodyBytes = 1 << 16

type ctxKey struct{}

// RequestID returns the id assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type UtteranceRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type RespondResponse struct {
	RequestID string `json:"request_id"`
	Intent    string `json:"intent"`
	Outcome   string `json:"outcome"`
	Param     string `json:"param,omitempty"`
	Text      string `json:"text"`
}

type MatchResponse struct {
	Intent   string `json:"intent"`
	Param    string `json:"param,omitempty"`
	HasParam bool   `json:"has_param"`
}

type IntentInfo struct {
	Name          string   `json:"name"`
	RequiresParam bool     `json:"requires_param"`
	Bound         bool     `json:"bound"`
	Patterns      []string `json:"patterns"`
}

type StatsResponse struct {
	Commands int64     `json:"commands"`
	Started  time.Time `json:"started"`
	Uptime   string    `json:"uptime"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

type Handler struct {
	d   *dispatch.Dispatcher
	log *slog.Logger

	// Skills act on the desktop; answer one utterance at a time.
	mu sync.Mutex
}

func NewHandler(d *dispatch.Dispatcher, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{d: d, log: log}
}

// Router builds the full route tree with middleware.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(h.accessLog)
	r.Get("/healthz", h.Health)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/respond", h.Respond)
		r.Post("/match", h.Match)
		r.Get("/intents", h.Intents)
		r.Get("/intents/{name}", h.Intent)
		r.Get("/stats", h.Stats)
	})
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug("HTTP request",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start))
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	res := h.d.Respond(r.Context(), req.Text)
	h.mu.Unlock()

	id := RequestID(r.Context())
	h.log.Info("Responded", "request_id", id, "intent", res.Intent, "outcome", string(res.Outcome))
	respond(w, http.StatusOK, RespondResponse{
		RequestID: id,
		Intent:    res.Intent,
		Outcome:   string(res.Outcome),
		Param:     res.Param,
		Text:      res.Text,
	})
}

func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	name := h.d.Match(req.Text)
	out := MatchResponse{Intent: name}
	out.Param, out.HasParam = h.d.ExtractParameter(req.Text, name)
	respond(w, http.StatusOK, out)
}

func (h *Handler) Intents(w http.ResponseWriter, _ *http.Request) {
	all := h.d.Catalog().All()
	out := make([]IntentInfo, 0, len(all))
	for _, in := range all {
		out = append(out, h.info(in.Name))
	}
	respond(w, http.StatusOK, map[string]any{"intents": out})
}

func (h *Handler) Intent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := h.d.Catalog().Lookup(name); !ok {
		respondError(w, http.StatusNotFound, "Intent not found", nil)
		return
	}
	respond(w, http.StatusOK, h.info(name))
}

func (h *Handler) info(name string) IntentInfo {
	in, _ := h.d.Catalog().Lookup(name)
	info := IntentInfo{
		Name:          in.Name,
		RequiresParam: in.RequiresParam,
		Bound:         h.d.Bound(in.Name),
		Patterns:      make([]string, 0, len(in.Patterns)),
	}
	for _, p := range in.Patterns {
		info.Patterns = append(info.Patterns, p.String())
	}
	return info
}

func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	s := h.d.Stats()
	respond(w, http.StatusOK, StatsResponse{
		Commands: s.Commands,
		Started:  s.Started.UTC(),
		Uptime:   s.Uptime.Round(time.Second).String(),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (UtteranceRequest, bool) {
	var req UtteranceRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			respondError(w, http.StatusUnprocessableEntity, verr.Error(), verr.Fields)
			return req, false
		}
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return req, false
	}
	return req, true
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string, fields []string) {
	respond(w, status, errorResponse{Error: msg, Fields: fields})
}

// Serve runs the API on addr until ctx is done.
func Serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("HTTP API listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
