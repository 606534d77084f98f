package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
	"github.com/nsalvacao/Autogen-Orchestrator/internal/orchestrator"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	facade := orchestrator.New(orchestrator.Config{Name: "test"})
	h := NewHandler(facade, nil)
	return httptest.NewServer(NewRouter(h))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndGetTask(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	body, _ := json.Marshal(CreateTaskRequest{
		Title:       "plan release",
		Description: "decide the steps",
		Type:        domain.TaskTypePlanning,
		Priority:    domain.PriorityHigh,
	})
	resp, err := http.Post(srv.URL+"/api/v1/tasks", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created DataResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	task := created.Data.(map[string]any)
	id := task["id"].(string)

	getResp, err := http.Get(srv.URL + "/api/v1/tasks/" + id)
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestGetTask_NotFound(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/tasks/" + "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
