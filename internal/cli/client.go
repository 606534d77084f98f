// Package cli implements the optional cobra-based command line client
// behind ORCHESTRATOR_ENABLE_CLI_ADAPTER (§6), generalized from the
// teacher's internal/cli package (client.go/flow.go/run.go/schedule.go/
// output.go) onto this spec's task/workflow surface instead of
// flow/run/schedule.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (duplicated from api/*_handler.go; the CLI talks only
// to the HTTP surface, never imports internal/api or internal/orchestrator) ---

// TaskResponse is a task as returned by the API.
type TaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// WorkflowStatusResponse is the status payload returned by the workflow
// status endpoint; cancel and approve return their own shapes, decoded as
// maps.
type WorkflowStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// --- Request types ---

// CreateTaskRequest is the body for creating a task directly.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority,omitempty"`
}

// SubmitTaskFromTemplateRequest is the body for submitting a task built
// from a registered template.
type SubmitTaskFromTemplateRequest struct {
	TemplateName string         `json:"template_name"`
	Title        string         `json:"title"`
	Variables    map[string]any `json:"variables,omitempty"`
}

// ApprovalDecisionRequest is the body for resolving a parked approval step.
type ApprovalDecisionRequest struct {
	Approved bool   `json:"approved"`
	Approver string `json:"approver"`
	Comment  string `json:"comment,omitempty"`
}

// ListTasksOpts filters ListTasks.
type ListTasksOpts struct {
	Status string
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is an HTTP client for the orchestrator's REST adapter.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client bound to baseURL.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// --- Tasks ---

// ListTasks returns tasks matching opts.
func (c *Client) ListTasks(opts ListTasksOpts) ([]TaskResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}

	var tasks []TaskResponse
	err := c.list("/api/v1/tasks", params, &tasks)
	return tasks, err
}

// CreateTask submits a new task.
func (c *Client) CreateTask(req CreateTaskRequest) (*TaskResponse, error) {
	var task TaskResponse
	err := c.post("/api/v1/tasks", req, &task)
	return &task, err
}

// GetTask fetches a task by id.
func (c *Client) GetTask(id string) (*TaskResponse, error) {
	var task TaskResponse
	err := c.get("/api/v1/tasks/"+id, &task)
	return &task, err
}

// SubmitTaskFromTemplate submits a task built from a registered template.
func (c *Client) SubmitTaskFromTemplate(req SubmitTaskFromTemplateRequest) (map[string]any, error) {
	var result map[string]any
	err := c.post("/api/v1/tasks/from-template", req, &result)
	return result, err
}

// --- Workflows ---

// ExecuteWorkflow runs a workflow definition (read from file by the caller)
// with the given inputs and returns the raw execution result.
func (c *Client) ExecuteWorkflow(workflow json.RawMessage, inputs map[string]any) (map[string]any, error) {
	body := map[string]any{"workflow": workflow, "inputs": inputs}
	var result map[string]any
	err := c.post("/api/v1/workflows/execute", body, &result)
	return result, err
}

// GetWorkflowStatus fetches a workflow's current status.
func (c *Client) GetWorkflowStatus(id string) (*WorkflowStatusResponse, error) {
	var status WorkflowStatusResponse
	err := c.get("/api/v1/workflows/"+id+"/status", &status)
	return &status, err
}

// CancelWorkflow cancels a running workflow.
func (c *Client) CancelWorkflow(id string) (map[string]any, error) {
	var result map[string]any
	err := c.post("/api/v1/workflows/"+id+"/cancel", nil, &result)
	return result, err
}

// ResolveApproval resolves a parked approval step.
func (c *Client) ResolveApproval(stepID string, req ApprovalDecisionRequest) (map[string]any, error) {
	var result map[string]any
	err := c.post("/api/v1/workflows/steps/"+stepID+"/approve", req, &result)
	return result, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
