package api

import (
	"log/slog"
	"net/http"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/orchestrator"
)

// Handler is the REST surface over a single orchestrator.Facade, matching
// the teacher's Handler shape (one struct holding every dependency a route
// needs) generalized from five repo pointers to the one Facade that already
// composes them.
type Handler struct {
	facade *orchestrator.Facade
	logger *slog.Logger
	hub    *StatusHub
}

// NewHandler constructs a Handler. logger defaults to slog.Default() if nil.
func NewHandler(facade *orchestrator.Facade, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{facade: facade, logger: logger, hub: newStatusHub()}
}

// Healthz reports the facade's running status for liveness checks.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	Success(w, h.facade.GetStatus())
}
