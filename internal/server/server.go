// Package server exposes orbit's views and mutations as a JSON HTTP API.
package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lazypower/orbit/internal/engine"
	"github.com/lazypower/orbit/internal/records"
)

// Options configures a Server. Zero values select defaults.
type Options struct {
	Version     string
	StoragePath string
	Logger      *slog.Logger
}

// Server is the orbit HTTP API server.
type Server struct {
	records     *records.Store
	engine      *engine.Engine
	router      chi.Router
	version     string
	storagePath string
	started     time.Time
	log         *slog.Logger
	metrics     *metrics
}

// New creates a new Server over a record store and engine.
func New(rs *records.Store, eng *engine.Engine, opts Options) *Server {
	s := &Server{
		records:     rs,
		engine:      eng,
		version:     opts.Version,
		storagePath: opts.StoragePath,
		started:     time.Now(),
		log:         opts.Logger,
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.metrics = newMetrics(prometheus.NewRegistry(), rs)
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/items", s.handleListItems)
		r.Post("/items", s.handleUpsertItem)
		r.Get("/items/{id}", s.handleGetItem)
		r.Delete("/items/{id}", s.handleTrashItem)
		r.Post("/items/{id}/toggle", s.handleToggleItem)
		r.Post("/items/{id}/log", s.handleQuickLog)
		r.Post("/undo/{token}", s.handleUndo)
		r.Post("/order", s.handleReorderItems)
		r.Get("/drifting", s.handleDrifting)

		r.Get("/categories", s.handleListCategories)
		r.Post("/categories", s.handleAddCategory)
		r.Post("/categories/order", s.handleReorderCategories)
		r.Patch("/categories/{id}", s.handleRenameCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	s.router = r
}

// requestLogger logs each request through slog and records it in the
// request metrics under its route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(r.Method, route, status, elapsed)
		s.log.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"elapsed", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"items":   s.records.Len(),
		"dropped": s.records.Dropped(),
		"storage": s.storagePath,
	})
}
