package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/template"
)

// CreateTaskRequest is the request body for POST /api/v1/tasks.
type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        domain.TaskType `json:"type"`
	Priority    domain.Priority `json:"priority"`
}

// CreateTask handles POST /api/v1/tasks.
// POST /api/v1/tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}

	task := domain.NewTask(req.Title, req.Description, req.Type, req.Priority)
	if _, err := h.facade.SubmitTask(task); err != nil {
		if HandleDomainError(w, h.logger, err, "") {
			return
		}
	}

	Created(w, task)
}

// GetTask handles GET /api/v1/tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, "invalid task id")
		return
	}

	task, ok := h.facade.GetTask(id)
	if !ok {
		NotFound(w, "task not found")
		return
	}
	Success(w, task)
}

// ListTasks handles GET /api/v1/tasks?status=pending.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	status := domain.TaskStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.TaskStatusPending
	}

	tasks := h.facade.ListTasksByStatus(status)
	List(w, tasks, len(tasks))
}

// SubmitTaskFromTemplateRequest is the body for POST /api/v1/tasks/from-template.
type SubmitTaskFromTemplateRequest struct {
	TemplateName string         `json:"template_name"`
	Title        string         `json:"title"`
	Variables    map[string]any `json:"variables"`
}

// CreateTaskFromTemplate handles POST /api/v1/tasks/from-template.
func (h *Handler) CreateTaskFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req SubmitTaskFromTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	id, err := h.facade.SubmitTaskFromTemplate(req.TemplateName, req.Title, req.Variables, template.CreateTaskOptions{})
	if err != nil {
		if HandleDomainError(w, h.logger, err, "") {
			return
		}
	}
	Created(w, map[string]any{"id": id})
}
