package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/orchestrator"
)

// pollInterval is how often watch polls the engine for a workflow's status
// while it streams updates to connected clients.
const pollInterval = 500 * time.Millisecond

// StatusHub fans workflow status updates out to connected websocket
// clients, one set of clients per workflow id, mirroring cedricziel-mel-
// agent's per-agent Hub (internal/api/ws.go) keyed by workflow id instead
// of agent id.
type StatusHub struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	clients  map[uuid.UUID]map[*websocket.Conn]bool
}

func newStatusHub() *StatusHub {
	return &StatusHub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[uuid.UUID]map[*websocket.Conn]bool),
	}
}

func (h *StatusHub) addClient(id uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[id] == nil {
		h.clients[id] = make(map[*websocket.Conn]bool)
	}
	h.clients[id][conn] = true
}

func (h *StatusHub) removeClient(id uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[id], conn)
	conn.Close()
}

func (h *StatusHub) broadcast(id uuid.UUID, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[id] {
		_ = conn.WriteMessage(websocket.TextMessage, message)
	}
}

// WorkflowStatusStream handles GET /api/v1/workflows/{id}/stream, upgrading
// to a websocket and pushing the workflow's status every pollInterval until
// it reaches a terminal state or the client disconnects.
func (h *Handler) WorkflowStatusStream(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	conn, err := h.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.hub.addClient(id, conn)
	defer h.hub.removeClient(id, conn)

	h.streamStatus(id, conn)
}

func (h *Handler) streamStatus(id uuid.UUID, conn *websocket.Conn) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for range ticker.C {
		status, ok := h.facade.GetWorkflowStatus(id)
		if !ok {
			return
		}
		body, err := json.Marshal(map[string]any{"id": id, "status": status})
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			return
		}
		if status.IsTerminal() {
			return
		}
	}
}

// watch polls a just-started workflow and broadcasts status changes to any
// clients that connected to its stream before completion; it is spawned as
// a goroutine alongside the synchronous ExecuteWorkflow call.
func (h *StatusHub) watch(facade *orchestrator.Facade, id uuid.UUID) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var last string
	for range ticker.C {
		status, ok := facade.GetWorkflowStatus(id)
		if !ok {
			return
		}
		if string(status) == last {
			continue
		}
		last = string(status)

		body, err := json.Marshal(map[string]any{"id": id, "status": status})
		if err == nil {
			h.broadcast(id, body)
		}
		if status.IsTerminal() {
			return
		}
	}
}
