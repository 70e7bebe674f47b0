// Package control exposes the executor's closed Command set and metric
// reads over a small HTTP surface, so a running Simulation can be
// observed and driven from outside the process that ticks it.
package control

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxConcurrent int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:          addr,
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  5 * time.Second,
		MaxConcurrent: runtime.NumCPU() * 2,
	}
}

// NewServer creates an HTTP server exposing handlers over cfg's routes
// and middleware chain. logger defaults to a no-op logger when nil.
func NewServer(cfg ServerConfig, handlers *Handlers, logger *zap.Logger) *http.Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	sem := make(chan struct{}, cfg.MaxConcurrent)

	mux.HandleFunc("POST /api/v1/commands", withMiddleware(handlers.HandleCommand, sem, logger))
	mux.HandleFunc("GET /api/v1/health", withMiddleware(handlers.HandleHealth, sem, logger))

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe starts srv and blocks until a shutdown signal arrives.
func ListenAndServe(srv *http.Server, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("control server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// withMiddleware wraps a handler with security headers, a concurrency
// limiter, panic recovery, a request timeout, and access logging.
func withMiddleware(handler http.HandlerFunc, sem chan struct{}, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"error":"service_unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in control handler", zap.Any("recover", rec))
				http.Error(w, `{"error":"internal_error"}`, http.StatusInternalServerError)
			}
		}()

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		handler(w, r.WithContext(ctx))
		logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start).Round(time.Microsecond)),
		)
	}
}
