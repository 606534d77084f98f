package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// workflowFromDict unmarshals a workflow definition posted as JSON. The
// domain.Workflow/WorkflowStep structs carry their own json tags, so no
// intermediate DTO is needed.
func workflowFromDict(raw json.RawMessage) (*domain.Workflow, error) {
	var wf domain.Workflow
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, fmt.Errorf("invalid workflow definition: %w", err)
	}
	return &wf, nil
}

// ExecuteWorkflowRequest is the body for POST /api/v1/workflows/execute.
// The workflow definition itself is sent inline since the facade tracks
// workflows by the id embedded in the definition, not a separate store.
type ExecuteWorkflowRequest struct {
	Workflow json.RawMessage `json:"workflow"`
	Inputs   map[string]any  `json:"inputs"`
}

// ExecuteWorkflow handles POST /api/v1/workflows/execute. It runs
// synchronously and returns once the workflow reaches a terminal or blocked
// state; long-running workflows should be polled via GetWorkflowStatus or
// watched over the websocket stream instead.
func (h *Handler) ExecuteWorkflow(w http.ResponseWriter, r *http.Request) {
	var req ExecuteWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	wf, err := workflowFromDict(req.Workflow)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	go h.hub.watch(h.facade, wf.ID)

	result, err := h.facade.ExecuteWorkflow(r.Context(), wf, req.Inputs)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}
	Success(w, result)
}

// GetWorkflowStatus handles GET /api/v1/workflows/{id}/status.
func (h *Handler) GetWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	status, ok := h.facade.GetWorkflowStatus(id)
	if !ok {
		NotFound(w, "workflow not found")
		return
	}
	Success(w, map[string]any{"id": id, "status": status})
}

// GetWorkflowResult handles GET /api/v1/workflows/{id}/result.
func (h *Handler) GetWorkflowResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	result, ok := h.facade.GetWorkflowResult(id)
	if !ok {
		NotFound(w, "workflow result not available")
		return
	}
	Success(w, result)
}

// CancelWorkflow handles POST /api/v1/workflows/{id}/cancel.
func (h *Handler) CancelWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}
	if !h.facade.CancelWorkflow(id) {
		NotFound(w, "workflow not found")
		return
	}
	Success(w, map[string]any{"id": id, "cancelled": true})
}

// ApprovalDecisionRequest is the body for POST /api/v1/workflows/steps/{id}/approve.
type ApprovalDecisionRequest struct {
	Approved bool   `json:"approved"`
	Approver string `json:"approver"`
	Comment  string `json:"comment"`
}

// ResolveApproval handles POST /api/v1/workflows/steps/{id}/approve.
func (h *Handler) ResolveApproval(w http.ResponseWriter, r *http.Request) {
	stepID := chi.URLParam(r, "id")

	var req ApprovalDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if !h.facade.ResolveApproval(stepID, req.Approved, req.Approver, req.Comment) {
		NotFound(w, "no pending approval for step")
		return
	}
	Success(w, map[string]any{"step_id": stepID, "resolved": true})
}
