// Package ws pushes dashboard state transitions to renderer clients so they
// can reflect loading/degraded status without polling.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/seethefuture888888-creator/kangbo/internal/session"
	applogger "github.com/seethefuture888888-creator/kangbo/pkg/logger"
)

const writeTimeout = 5 * time.Second

// Event is one pushed frame.
type Event struct {
	Type     string           `json:"type"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// Hub fans session snapshots out to connected WebSocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *applogger.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	// Serializes writes; snapshots may arrive from concurrent loads.
	writeMu sync.Mutex
}

func NewHub(logger *applogger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Renderer runs on its own origin during development.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/dashboard", h.handle)
}

func (h *Hub) handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	if h.logger != nil {
		h.logger.Debug("ws client connected", applogger.Int("clients", n))
	}

	// Inbound frames are ignored; the read loop only detects closure.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
	return nil
}

// Broadcast sends the snapshot to every client. Slow or dead clients are
// dropped rather than allowed to stall the session's change callbacks.
func (h *Hub) Broadcast(snap session.Snapshot) {
	ev := Event{Type: "snapshot", Snapshot: snap}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteJSON(ev); err != nil {
			if h.logger != nil {
				h.logger.Warn("ws write failed, dropping client", applogger.Error(err))
			}
			h.drop(c)
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}
