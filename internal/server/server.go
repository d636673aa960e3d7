// Package server exposes a property store over HTTP so that panels can
// reach it as a remote entity store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/store"
)

// DefaultPollWait bounds how long a list long-poll is held open.
const DefaultPollWait = 25 * time.Second

// Server routes HTTP requests to a Local gateway.
type Server struct {
	gw       *gateway.Local
	router   chi.Router
	pollWait time.Duration

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// Option customises a Server.
type Option func(*Server)

// WithPollWait overrides DefaultPollWait.
func WithPollWait(d time.Duration) Option { return func(s *Server) { s.pollWait = d } }

// New builds the router. Metrics are registered on reg.
func New(gw *gateway.Local, reg prometheus.Registerer, opts ...Option) *Server {
	s := &Server{
		gw:       gw,
		pollWait: DefaultPollWait,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "propertydesk_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "propertydesk_http_request_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	for _, o := range opts {
		o(s)
	}
	reg.MustRegister(s.requests, s.latency)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	if g, ok := reg.(prometheus.Gatherer); ok {
		r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	}
	r.Route("/api/properties", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/search", s.handleSearch)
		r.Post("/", s.handleSave)
		r.Patch("/", s.handleBatch)
		r.Delete("/{id}", s.handleDelete)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		s.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		slog.Debug("http request", "method", r.Method, "route", route, "status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if wait := r.URL.Query().Get("wait"); wait != "" {
		since, err := strconv.ParseUint(wait, 10, 64)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, gateway.SingleMessage("wait must be a revision number"))
			return
		}
		pollCtx, cancel := context.WithTimeout(ctx, s.pollWait)
		s.gw.WaitForChange(pollCtx, since)
		cancel()
		if ctx.Err() != nil {
			return
		}
	}

	rev := s.gw.Store().Revision()
	rows, err := s.gw.Store().List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.ListResponse{Revision: rev, Properties: rows})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := gateway.SearchRequest{Term: q.Get("q")}

	var problems []string
	for _, label := range q["category"] {
		c, err := model.ParseCategory(label)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		req.Filters = append(req.Filters, c)
	}
	if max := q.Get("max"); max != "" {
		v, err := model.ParsePrice(max)
		if err != nil {
			problems = append(problems, err.Error())
		}
		req.PriceCeiling = &v
	}
	if len(problems) > 0 {
		writeFailure(w, http.StatusBadRequest, gateway.ListOfMessages(problems...))
		return
	}

	rows, err := s.gw.Search(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.ListResponse{Revision: s.gw.Store().Revision(), Properties: rows})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var row gateway.RowUpdate
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		writeFailure(w, http.StatusBadRequest, gateway.SingleMessage("invalid request body"))
		return
	}
	id, err := s.gw.CreateOrUpdate(r.Context(), row)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if row.ID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, gateway.SaveResponse{ID: id})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var rows []gateway.RowUpdate
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeFailure(w, http.StatusBadRequest, gateway.SingleMessage("invalid request body"))
		return
	}
	if err := s.gw.BatchUpdate(r.Context(), rows); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.gw.DeleteByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps store errors to status codes and failure payloads.
func writeError(w http.ResponseWriter, err error) {
	var verr store.ValidationErrors
	switch {
	case errors.As(err, &verr):
		writeFailure(w, http.StatusBadRequest, gateway.ListOfMessages(verr...))
	case errors.Is(err, store.ErrNotFound):
		writeFailure(w, http.StatusNotFound, gateway.SingleMessage("Property not found"))
	default:
		slog.Error("request failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, gateway.SingleMessage(err.Error()))
	}
}

func writeFailure(w http.ResponseWriter, status int, f gateway.Failure) {
	writeJSON(w, status, f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}
