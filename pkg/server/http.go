package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/wingscafe/pkg/config"
	"github.com/abgdnv/wingscafe/pkg/web"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// RouterOptions configures the operational endpoints mounted next to the API routes.
type RouterOptions struct {
	// Ready is consulted by /readyz; nil means always ready.
	Ready ReadinessCheck
	// Metrics, when set, is served at MetricsPath.
	Metrics     http.Handler
	MetricsPath string
}

// NewHTTPServer creates the HTTP server listening on cfg.Port. Every request is traced under operation.
func NewHTTPServer(cfg config.HTTPConfig, operation string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(handler, operation),
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// NewRouter creates a chi router with request id, structured logging and recovery middleware,
// JSON 404/405 responses, and the /healthz, /readyz and optional metrics endpoints.
// API routes are registered on the returned router by the caller.
func NewRouter(logger *slog.Logger, opts RouterOptions) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		web.RespondError(w, logger, http.StatusNotFound, fmt.Sprintf("no route for %s", r.URL.Path))
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		web.RespondError(w, logger, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path))
	})

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil {
			if err := opts.Ready(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
				web.RespondError(w, logger, http.StatusServiceUnavailable, "not ready")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, opts.MetricsPath, opts.Metrics)
	}
	return mux
}
