// submission-manager runs the job submission manager: it exposes no
// direct API of its own, only liveness/readiness/metrics endpoints,
// while driving submit/stop/status through a pluggable submission
// engine and execution engine pair.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"submitmgr/internal/api"
	"submitmgr/internal/config"
	connectormem "submitmgr/internal/connector/memory"
	"submitmgr/internal/dispatcher"
	_ "submitmgr/internal/engine/fake"
	"submitmgr/internal/health"
	"submitmgr/internal/manager"
	"submitmgr/internal/notify"
	"submitmgr/internal/observability"
	repomem "submitmgr/internal/repository/memory"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	svcCfg := config.LoadServiceConfig()
	dispatcherCfg := dispatcher.LoadConfigFromEnv()

	metrics, metricsHandler, err := observability.NewMetrics(ctx)
	if err != nil {
		return err
	}

	eventDispatcher := dispatcher.NewMemory(dispatcherCfg, metrics)

	// Notification destinations are per-job (model.Job.CallbackURL), not
	// global: the notifier routes each event to the owning job's
	// configured callback and is a no-op for jobs that declare none.
	notifier := notify.NewNotifier(eventDispatcher)

	repo := repomem.New()

	// The connector registry is an external collaborator in a real
	// deployment; the in-memory registry here is empty until a connector
	// is registered through some future administrative path.
	connectors := connectormem.NewMemoryRegistry()

	mgr := manager.New(svcCfg.Manager, repo, connectors, notifier, metrics)
	if err := mgr.Initialize(ctx); err != nil {
		return err
	}
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mgr.Destroy(drainCtx); err != nil {
			slog.Warn("manager destroy error", "error", err)
		}
	}()

	healthChecker := health.NewChecker(mgr, repositoryPinger(repo))

	router := api.NewRouter(api.RouterConfig{
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		HealthChecker:  healthChecker,
	})

	server := &http.Server{
		Addr:         ":" + svcCfg.MetricsPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting submission manager", "port", svcCfg.MetricsPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		slog.Error("server failed to start", "error", err)
		return err
	}

	healthChecker.SetShuttingDown()
	if svcCfg.ShutdownDrainWait > 0 {
		slog.Info("waiting for traffic to drain", "duration", svcCfg.ShutdownDrainWait)
		time.Sleep(svcCfg.ShutdownDrainWait)
	}

	slog.Info("starting graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("draining event dispatcher")
	dispatcherCtx, dispatcherCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dispatcherCancel()
	if err := eventDispatcher.Close(dispatcherCtx); err != nil {
		slog.Warn("dispatcher shutdown error", "error", err)
	}

	stats := eventDispatcher.Stats()
	slog.Info("dispatcher stats", "delivered", stats.Delivered, "failed", stats.Failed, "dropped", stats.Dropped)

	slog.Info("shutdown complete")
	return nil
}

// repositoryPinger adapts repo to health.Pinger if it implements one; the
// in-memory repository doesn't, so health checks simply skip it.
func repositoryPinger(repo any) health.Pinger {
	if p, ok := repo.(health.Pinger); ok {
		return p
	}
	return nil
}
