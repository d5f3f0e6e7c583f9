// Package api serves the pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz             liveness
//	GET  /version             build information
//	POST /v1/analyses         run pipeline.Options and store the record
//	GET  /v1/analyses         list stored records, newest first (?limit=n)
//	GET  /v1/analyses/{id}    fetch one record
//
// Errors are JSON bodies {"code", "message", "request_id"} with the status
// derived from the error code.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/pylon/pkg/pipeline"
	"github.com/matzehuels/pylon/pkg/store"
)

const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultTimeout      = 2 * time.Minute

	shutdownTimeout = 15 * time.Second
)

// Config tunes the server. Zero values take defaults; a zero RateLimit
// disables rate limiting.
type Config struct {
	// RateLimit is the sustained requests per second allowed per client IP.
	RateLimit float64
	RateBurst int
	// MaxBodyBytes caps POST bodies.
	MaxBodyBytes int64
	// Timeout bounds each request, including the analysis it runs.
	Timeout time.Duration
}

// Server wires the runner and store into an HTTP handler.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	cfg    Config
	router chi.Router
}

// New creates a server. The runner's cache is shared across requests.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit > 0 && cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	s := &Server{runner: runner, store: st, logger: logger, cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	if s.cfg.RateLimit > 0 {
		r.Use(NewIPRateLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst).Middleware)
	}
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.health)
	r.Get("/version", s.version)
	r.Route("/v1/analyses", func(r chi.Router) {
		r.Post("/", s.createAnalysis)
		r.Get("/", s.listAnalyses)
		r.Get("/{id}", s.getAnalysis)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFoundRoute(r))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
