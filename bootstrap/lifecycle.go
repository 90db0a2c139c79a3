package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feed-refresher/config"
	"feed-refresher/domain"
	"feed-refresher/utils/logger"
	"feed-refresher/utils/otel"
)

const otelShutdownTimeout = 5 * time.Second

// Run starts the HTTP server, the consumer workers and the discovery
// scheduler, then blocks until SIGINT or SIGTERM.
func Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, shutdownTelemetry, err := initRuntime(ctx)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	deps, cleanup, err := BuildDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	httpServer := NewHTTPServer(deps)
	StartHTTPServer(httpServer, cfg.Server.Port)

	deps.Scheduler.Start(ctx)

	consumerDone := make(chan error, 1)
	go func() {
		consumerDone <- deps.Consumer.Run(ctx)
	}()

	logger.Logger.Info("Feed refresher started",
		"workers", cfg.Queue.WorkerCount,
		"discovery_enabled", cfg.Discovery.Enabled,
		"discovery_interval", cfg.Discovery.Interval)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Logger.Info("Shutdown signal received")
	case runErr = <-consumerDone:
		consumerDone = nil
		if runErr != nil {
			logger.Logger.Error("Consumer stopped", "error", runErr)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Error shutting down HTTP server", "error", err)
	}
	deps.Scheduler.Shutdown()

	if consumerDone != nil {
		select {
		case err := <-consumerDone:
			if err != nil {
				logger.Logger.Error("Consumer stopped with error", "error", err)
			}
		case <-shutdownCtx.Done():
			logger.Logger.Warn("Consumer did not stop before shutdown timeout")
		}
	}

	logger.Logger.Info("Feed refresher stopped")
	return runErr
}

// RunDiscovery runs one discovery pass inline and returns how it went. An
// empty userID discovers every due subscription.
func RunDiscovery(ctx context.Context, userID string) (*domain.DiscoveryResult, error) {
	cfg, shutdownTelemetry, err := initRuntime(ctx)
	if err != nil {
		return nil, err
	}
	defer shutdownTelemetry()

	deps, cleanup, err := BuildDependencies(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	kind := domain.RefreshKindAll
	if userID != "" {
		kind = domain.RefreshKindUserAdded
	}
	rc := domain.NewRefreshContext(kind, userID, time.Now())

	return deps.DiscoverFeeds.Execute(ctx, rc)
}

// initRuntime loads the configuration and installs the global logger and
// telemetry providers.
func initRuntime(ctx context.Context) (*config.Config, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	otelShutdown, err := otel.InitProvider(ctx, cfg.OTel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize OpenTelemetry: %v\n", err)
		cfg.OTel.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		ServiceName: cfg.OTel.ServiceName,
		OTelEnabled: cfg.OTel.Enabled,
	})

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown OpenTelemetry", "error", err)
		}
	}

	return cfg, shutdown, nil
}
