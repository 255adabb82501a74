// Package server exposes the host statistics dashboard over HTTP. It is a
// thin consumer of the snapshot cache: every dashboard request goes through
// GetOrRefresh and renders whatever snapshot comes back.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/hostmon/internal/cache"
	"github.com/agbru/hostmon/internal/config"
	"github.com/agbru/hostmon/internal/logging"
)

// Server serves the dashboard, health and metrics endpoints.
type Server struct {
	cfg      config.AppConfig
	cache    *cache.StatsCache
	logger   logging.Logger
	metrics  *Metrics
	security SecurityConfig
}

// New creates a Server over the given snapshot cache.
func New(cfg config.AppConfig, statsCache *cache.StatsCache, logger logging.Logger) *Server {
	return &Server{
		cfg:      cfg,
		cache:    statsCache,
		logger:   logger,
		metrics:  NewMetrics(),
		security: DefaultSecurityConfig(),
	}
}

// Handler assembles the route table with the security and metrics middleware
// applied to every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return SecurityMiddleware(s.security, s.metricsMiddleware(h))
	}
	mux.HandleFunc("/", wrap(s.handleIndex))
	mux.HandleFunc("/health", wrap(s.handleHealth))
	if s.cfg.EnableMetrics {
		mux.HandleFunc("/metrics", wrap(s.handleMetrics))
	}
	return mux
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr(),
		Handler:      s.Handler(),
		ReadTimeout:  config.DefaultReadTimeout,
		WriteTimeout: config.DefaultWriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", logging.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handleIndex serves the dashboard page. Any path other than "/" falls
// through here via the catch-all pattern and is answered with 404.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.logger.Warn("not found", logging.String("path", r.URL.Path))
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := s.cache.Get(); ok {
		s.metrics.RecordCacheHit()
	} else {
		s.metrics.RecordCacheMiss()
	}

	snap, err := s.cache.GetOrRefresh(r.Context())
	if err != nil {
		s.metrics.RecordCollection("error")
		s.logger.Error("collecting host statistics", err)
		http.Error(w, "failed to collect host statistics", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordCollection("success")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", s.cfg.TTLSeconds))
	fmt.Fprint(w, renderPage(snap, s.cfg.TTLSeconds))
}

// handleHealth serves the liveness endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprint(w, "OK")
}

// handleMetrics serves the Prometheus exposition endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Warn("method not allowed on metrics", logging.String("method", r.Method))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// statusRecorder captures the response status for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware tracks in-flight requests, counts and latency.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(r.URL.Path, rec.status, elapsed)
		s.logger.Debug("request handled",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", rec.status),
			logging.Dur("duration", elapsed))
	}
}
