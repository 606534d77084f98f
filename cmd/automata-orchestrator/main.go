// Command automata-orchestrator is the orchestrator's primary process: it
// owns the in-process Facade, runs the background task loop (§4.5), and
// optionally mounts the REST adapter (§6) on the same process when
// ORCHESTRATOR_ENABLE_API_ADAPTER or ORCHESTRATOR_ENABLE_CLI_ADAPTER is set
// (the CLI talks to this same REST surface, so either flag is enough to
// mount it). Every optional ambient adapter — Snapshot Store, Event
// Publisher, capability-index Mirror — is wired only when its DSN/URL is
// present; their absence never prevents the orchestrator from starting.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/api"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/config"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/events"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/llmagent"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/metrics"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/orchestrator"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/registrymirror"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/snapshot"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logger := telemetry.SetupLogger(cfg)
	logger.Info("starting automata-orchestrator", "env", cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.EnableMetrics {
		metrics.New()
	}

	facadeCfg := orchestrator.Config{Name: "automata-orchestrator"}

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
			if err := events.SetupTopology(ctx, conn); err != nil {
				logger.Warn("failed to declare event topology", "error", err)
			}
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

	registerReferenceAgents(facade, cfg)

	if err := facade.Start(ctx); err != nil {
		logger.Error("failed to start orchestrator", "error", err)
		os.Exit(1)
	}

	go runTaskLoop(ctx, facade, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}
	if cfg.EnableAPIAdapter || cfg.EnableCLIAdapter {
		handler := api.NewHandler(facade, logger)
		mux.Handle("/api/v1/", api.NewRouter(handler))
		logger.Info("REST adapter mounted")
	}

	addr := ":8083"
	if v := os.Getenv("ORCH_PORT"); v != "" {
		addr = ":" + v
	}
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	if err := facade.Shutdown(shutdownCtx); err != nil {
		logger.Error("facade shutdown error", "error", err)
	}

	logger.Info("automata-orchestrator stopped")
}

// registerReferenceAgents registers one llmagent.Agent per task-handling
// capability named in §4.2, so a freshly started orchestrator can process
// tasks without any external agent process attaching. Skipped entirely
// when no API key is configured, since the reference agent cannot make
// chat-completion calls without one.
func registerReferenceAgents(facade *orchestrator.Facade, cfg *config.Config) {
	if cfg.LLMAPIKey == "" {
		return
	}

	roles := []struct {
		name, description, prompt string
		capability                domain.Capability
	}{
		{"planner", "Decomposes work into an actionable plan", "You are a meticulous planning assistant.", domain.CapabilityPlanning},
		{"coder", "Implements features and fixes", "You are a careful software engineer.", domain.CapabilityCoding},
		{"tester", "Writes and evaluates tests", "You are a thorough test engineer.", domain.CapabilityTesting},
		{"reviewer", "Reviews code for correctness and style", "You are an exacting code reviewer.", domain.CapabilityCodeReview},
		{"security-reviewer", "Reviews changes for security issues", "You are a security-focused reviewer.", domain.CapabilitySecurityAnalysis},
		{"writer", "Writes documentation", "You are a clear technical writer.", domain.CapabilityDocumentation},
	}

	for _, r := range roles {
		agent := llmagent.New(cfg, r.name, r.description, r.prompt, []domain.Capability{r.capability})
		facade.RegisterAgent(agent)
	}
}

// runTaskLoop drives RunTaskLoop (§4.5) until ctx is cancelled, sleeping
// briefly between drains so an idle orchestrator doesn't spin.
func runTaskLoop(ctx context.Context, facade *orchestrator.Facade, logger *slog.Logger) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			processed, err := facade.RunTaskLoop(ctx)
			if err != nil && err != context.Canceled {
				logger.Error("task loop error", "error", err)
				continue
			}
			if processed > 0 {
				logger.Info("processed tasks", "count", processed)
			}
		}
	}
}
