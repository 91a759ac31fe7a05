// Package server exposes poem generation over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/internal/counter"
	"github.com/lamim/poetforge/internal/metrics"
	"github.com/lamim/poetforge/internal/poet"
)

const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API. Poem generation goes through a single engine
// guarded by a mutex.
type Server struct {
	cfg      *config.Config
	engine   *poet.Engine
	engineMu sync.Mutex
	counter  counter.Counter // optional; numbers API poems when set
	limiter  *RateLimiterPool
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// New creates a server. poemCounter and collector may be nil.
func New(cfg *config.Config, engine *poet.Engine, poemCounter counter.Counter, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		engine:  engine,
		counter: poemCounter,
		limiter: NewRateLimiterPool(cfg.Server.RateLimitPerMinute, cfg.Server.BurstPercent, logger),
		metrics: collector,
		logger:  logger,
	}
}

// Handler builds the routed, rate limited, CORS-enabled handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/poems", s.instrument("/api/poems", s.rateLimit(http.HandlerFunc(s.handlePoem))))
	mux.Handle("GET /api/rhymes", s.instrument("/api/rhymes", http.HandlerFunc(s.handleRhymes)))
	mux.Handle("GET /api/rhymes/normalize", s.instrument("/api/rhymes/normalize", http.HandlerFunc(s.handleNormalize)))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	}
}

// rateLimit rejects clients that exceed their per-minute budget
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientID(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument counts requests by route and status code
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(route, strconv.Itoa(rec.status))
		}
		s.logger.Debug("Request served", "route", route, "status", rec.status, "client", clientID(r))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
