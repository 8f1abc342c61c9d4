package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/routestate/pkg/middleware"
	"github.com/vango-dev/routestate/pkg/router"
)

// FrameType is the type of a live-state frame.
type FrameType string

const (
	// TypeSnapshot is the first frame a client receives.
	TypeSnapshot FrameType = "snapshot"

	// TypeNavigate is sent after each committed navigation.
	TypeNavigate FrameType = "navigate"

	// TypeReload is sent when the route configuration was replaced.
	TypeReload FrameType = "reload"
)

// Frame is one message of the live-state stream.
type Frame struct {
	Type      FrameType      `json:"type"`
	Template  string         `json:"template"`
	Path      string         `json:"path"`
	State     map[string]any `json:"state"`
	Endpoints []string       `json:"endpoints,omitempty"`
}

func frameFor(t FrameType, rt *router.Router) Frame {
	loc, state := rt.Snapshot()
	f := Frame{Type: t, Template: loc.Template, Path: loc.Path, State: state}
	if t != TypeNavigate {
		f.Endpoints = rt.Endpoints().Templates()
	}
	return f
}

// Hub manages the WebSocket clients of the live-state stream.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *middleware.Metrics
}

func newHub(logger *slog.Logger, m *middleware.Metrics) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:  logger,
		metrics: m,
	}
}

// handler upgrades the request, sends a snapshot of rt and keeps the
// connection registered until the client goes away.
func (h *Hub) handler(rt *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.recordError("upgrade")
			return
		}

		// The snapshot is written and the client registered under the
		// write lock so no navigation frame can overtake the snapshot.
		h.writeMu.Lock()
		data, err := json.Marshal(frameFor(TypeSnapshot, rt))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, data)
		}
		if err != nil {
			h.writeMu.Unlock()
			h.recordError("write")
			conn.Close()
			return
		}
		h.mu.Lock()
		h.clients[conn] = true
		n := len(h.clients)
		h.mu.Unlock()
		h.writeMu.Unlock()

		h.setSubscribers(n)
		h.logger.Debug("live client connected", "clients", n)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		h.remove(conn)
	}
}

// Broadcast sends f to every connected client. Clients that fail to
// receive it are dropped.
func (h *Hub) Broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Warn("live frame not encodable", "error", err)
		return
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.recordError("write")
			h.remove(client)
			continue
		}
		if h.metrics != nil {
			h.metrics.RecordFrame()
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()

	conn.Close()
	if ok {
		h.setSubscribers(n)
		h.logger.Debug("live client disconnected", "clients", n)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
	h.setSubscribers(0)
}

func (h *Hub) setSubscribers(n int) {
	if h.metrics != nil {
		h.metrics.SetSubscribers(n)
	}
}

func (h *Hub) recordError(kind string) {
	if h.metrics != nil {
		h.metrics.RecordWebSocketError(kind)
	}
}
