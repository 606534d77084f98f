// Package telemetry sets up structured logging, kept close to the teacher's
// internal/telemetry/logging.go but keyed off the shared config.Config
// (§6a) instead of raw LOG_LEVEL/LOG_FORMAT environment reads, choosing the
// handler by ORCHESTRATOR_ENV rather than an explicit format flag.
package telemetry

import (
	"context"
	"log/slog"
	"os"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/config"
)

// Level maps a config log level string to a slog.Level, defaulting to Info
// for anything unrecognized.
func Level(cfg *config.Config) slog.Level {
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger builds the process-wide logger: JSON in staging/production,
// text otherwise, per §6a.
func SetupLogger(cfg *config.Config) *slog.Logger {
	level := Level(cfg)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	switch cfg.Env {
	case config.EnvProduction, config.EnvStaging:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ctxKey namespaces context values this package attaches.
type ctxKey string

const ctxLoggerKey ctxKey = "logger"

// WithLogger attaches a logger to ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey, logger)
}

// FromContext returns the logger attached to ctx, or the global default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithTaskID returns a logger with a task_id field attached.
func WithTaskID(logger *slog.Logger, taskID string) *slog.Logger {
	return logger.With("task_id", taskID)
}

// WithWorkflowID returns a logger with a workflow_id field attached.
func WithWorkflowID(logger *slog.Logger, workflowID string) *slog.Logger {
	return logger.With("workflow_id", workflowID)
}
