package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"FlowState/internal/cache"
	"FlowState/internal/config"
	"FlowState/internal/scheduler"
)

// Server exposes the dashboard API, health probe, and Prometheus metrics.
type Server struct {
	httpServer *http.Server
	sched      *scheduler.Scheduler
	cache      cache.Cache
	cfg        *config.Config
}

// New builds the router and the underlying http.Server.
func New(cfg *config.Config, sched *scheduler.Scheduler, c cache.Cache) *Server {
	s := &Server{sched: sched, cache: c, cfg: cfg}

	r := mux.NewRouter()
	r.HandleFunc("/api/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/api/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.Use(loggingMiddleware)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
