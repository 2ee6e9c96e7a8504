// Package app wires the cafe service together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/wingscafe/internal/config"
	"github.com/abgdnv/wingscafe/internal/service"
	"github.com/abgdnv/wingscafe/internal/store"
	"github.com/abgdnv/wingscafe/internal/transport/rest"
	"github.com/abgdnv/wingscafe/pkg/bootstrap"
	"github.com/abgdnv/wingscafe/pkg/messaging"
	natsclient "github.com/abgdnv/wingscafe/pkg/nats"
	"github.com/abgdnv/wingscafe/pkg/server"
	"github.com/nats-io/nats.go/jetstream"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

type Dependencies struct {
	Services rest.Services
	Logger   *slog.Logger
	// Ready backs /readyz; set for stores that can check their backend.
	Ready server.ReadinessCheck
	// Metrics, when set, is served at MetricsPath.
	Metrics     http.Handler
	MetricsPath string
}

// Messaging holds the event publisher and, when NATS is enabled, the JetStream context it publishes to.
type Messaging struct {
	Publisher messaging.Publisher
	JetStream jetstream.JetStream
	close     func()
}

func (m *Messaging) Close() {
	if m.close != nil {
		m.close()
	}
}

// SetupStore opens the record store selected by the configuration.
// The returned cleanup function releases the database pool, if any.
func SetupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.RecordStore, func(), error) {
	if !cfg.Store.UsesPostgres() {
		logger.Info("Using in-memory record store")
		return store.NewMemoryStore(), func() {}, nil
	}

	if cfg.Store.Migrate {
		if err := store.Migrate(cfg.Database.URL, logger); err != nil {
			return nil, nil, err
		}
	}
	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	logger.Info("Successfully connected to the database!")
	return store.NewPgStore(dbPool), dbPool.Close, nil
}

// SetupMessaging connects to NATS and makes sure the event stream exists.
// With NATS disabled, events are dropped by a no-op publisher.
func SetupMessaging(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Messaging, error) {
	if !cfg.NATS.Enabled {
		logger.Info("NATS disabled, domain events will not be published")
		return &Messaging{Publisher: messaging.NopPublisher{}}, nil
	}
	nc, err := natsclient.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, err
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, err
	}
	if _, err := natsclient.EnsureStream(ctx, js, cfg.NATS.Stream, messaging.StreamSubjects); err != nil {
		nc.Close()
		return nil, err
	}
	logger.Info("Successfully connected to NATS", slog.String("stream", cfg.NATS.Stream))
	return &Messaging{
		Publisher: natsclient.NewNatsPublisher(js),
		JetStream: js,
		close:     nc.Close,
	}, nil
}

func SetupDependencies(st store.RecordStore, publisher messaging.Publisher, logger *slog.Logger, opts ...service.Option) *Dependencies {
	deps := &Dependencies{
		Services: rest.Services{
			Products:  service.NewProductService(st, opts...),
			Customers: service.NewCustomerService(st, opts...),
			Inventory: service.NewInventory(st, publisher, opts...),
			Sales:     service.NewSales(st, publisher, opts...),
			Reports:   service.NewReportService(st),
		},
		Logger: logger,
	}
	if pinger, ok := st.(interface{ Ping(context.Context) error }); ok {
		deps.Ready = pinger.Ping
	}
	return deps
}

// SetupHttpHandler builds the router with all routes and middleware.
// Used by E2E tests to serve the API without a listening server.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewRouter(deps.Logger, server.RouterOptions{
		Ready:       deps.Ready,
		Metrics:     deps.Metrics,
		MetricsPath: deps.MetricsPath,
	})
	rest.NewHandler(deps.Services, deps.Logger).RegisterRoutes(mux)
	return mux
}

// SetupHttpServer creates the HTTP server of the cafe service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, "wingscafe.http", SetupHttpHandler(deps))
}

// SetupGrpcServer creates the gRPC server. It carries the health service only, for orchestrator probes.
func SetupGrpcServer(cfg *config.Config, logger *slog.Logger) (*grpc.Server, *health.Server) {
	return server.NewGRPCServer(logger, cfg.GRPC.ReflectionEnabled)
}
