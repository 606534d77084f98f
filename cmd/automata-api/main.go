// Command automata-api is a standalone REST gateway process: a separately
// scalable frontend that owns its own Facade and the same optional ambient
// adapters as automata-orchestrator (wired to the same Snapshot Store/Event
// Publisher/registry Mirror when configured, so the two processes observe
// consistent durable state), but never runs the background task loop
// itself — task processing stays with automata-orchestrator. Exits
// immediately if ORCHESTRATOR_ENABLE_API_ADAPTER is unset, since serving
// the REST surface is this binary's only reason to run.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/api"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/config"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/events"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/metrics"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/orchestrator"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registrymirror"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/snapshot"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logger := telemetry.SetupLogger(cfg)
	logger.Info("starting automata-api")

	if !cfg.EnableAPIAdapter {
		logger.Info("ORCHESTRATOR_ENABLE_API_ADAPTER is unset, nothing to serve")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.EnableMetrics {
		metrics.New()
	}

	facadeCfg := orchestrator.Config{Name: "automata-api"}

	if cfg.SnapshotDSN != "" {
		pool, err := snapshot.NewPool(ctx, cfg.SnapshotDSN)
		if err != nil {
			logger.Warn("snapshot store unavailable, writes will be dropped", "error", err)
		} else {
			defer pool.Close()
			store := snapshot.New(pool)
			defer store.Close()
			facadeCfg.Snapshots = store
			logger.Info("snapshot store connected")
		}
	}

	if cfg.EventsAMQPURL != "" {
		conn, err := events.NewConnection(cfg.EventsAMQPURL, logger)
		if err != nil {
			logger.Warn("event broker unavailable, events will be dropped", "error", err)
		} else {
			defer conn.Close()
			facadeCfg.Events = events.NewPublisher(conn, logger)
			logger.Info("event publisher connected")
		}
	}

	facade := orchestrator.New(facadeCfg)

	if cfg.RegistryRedisURL != "" {
		mirror, err := registrymirror.New(ctx, cfg.RegistryRedisURL, logger)
		if err != nil {
			logger.Warn("registry mirror unavailable, capability index stays process-local", "error", err)
		} else {
			defer mirror.Close()
			logger.Info("registry mirror connected")
		}
	}

	if err := facade.Start(ctx); err != nil {
		logger.Error("failed to start facade", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(facade, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/api/v1/", api.NewRouter(handler))

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	if err := facade.Shutdown(shutdownCtx); err != nil {
		logger.Error("facade shutdown error", "error", err)
	}

	logger.Info("stopped")
}
