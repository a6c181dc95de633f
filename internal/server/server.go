// Package server exposes the resolution engine over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and build information
//	POST /v1/resolve       resolve a package list, nothing is stored
//	GET  /v1/runs/latest   latest stored crawl as a JSON report
//	GET  /v1/runs          stored crawl summaries, newest first (?limit=N)
//
// Errors are returned as {"error": {"code": "...", "message": "..."}} with
// the status mapped from the code by errors.HTTPStatus.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tagscout/pkg/pipeline"
)

const (
	// DefaultMaxPackages caps the package list of one resolve request.
	DefaultMaxPackages = 50

	// DefaultRequestTimeout bounds one resolve request.
	DefaultRequestTimeout = 5 * time.Minute

	maxBodyBytes = 1 << 20
)

// Config configures the HTTP handler.
type Config struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Defaults are the engine options requests start from.
	Defaults pipeline.Options

	MaxPackages    int
	RequestTimeout time.Duration
}

type server struct {
	cfg Config
}

// New returns the HTTP handler for cfg.
func New(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.MaxPackages <= 0 {
		cfg.MaxPackages = DefaultMaxPackages
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	s := &server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/latest", s.handleLatestRun)
	})
	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Millisecond),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
