package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router for every route this adapter exposes,
// generalized from the teacher's RegisterRoutes (stdlib ServeMux pattern
// strings) into chi's method-scoped route groups.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(recoveryMiddleware(h.logger))
	r.Use(loggingMiddleware(h.logger))

	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Post("/from-template", h.CreateTaskFromTemplate)
		r.Get("/{id}", h.GetTask)
	})

	r.Route("/api/v1/workflows", func(r chi.Router) {
		r.Post("/execute", h.ExecuteWorkflow)
		r.Get("/{id}/status", h.GetWorkflowStatus)
		r.Get("/{id}/result", h.GetWorkflowResult)
		r.Post("/{id}/cancel", h.CancelWorkflow)
		r.Get("/{id}/stream", h.WorkflowStatusStream)
		r.Post("/steps/{id}/approve", h.ResolveApproval)
	})

	r.Get("/healthz", h.Healthz)

	return r
}
