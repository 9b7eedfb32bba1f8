package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/seethefuture888888-creator/kangbo/internal/domain/models"
	"github.com/seethefuture888888-creator/kangbo/internal/session"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.Lock()
		got := len(h.conns)
		h.mu.Unlock()
		if got == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d clients", n)
}

func TestBroadcast(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h)
	waitClients(t, h, 1)

	snap := session.Snapshot{
		Status: models.DataStatus{Loading: false, Source: models.SourceLive},
		View:   models.ViewState{CurrentView: models.ViewOverview},
	}
	h.Broadcast(snap)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != "snapshot" {
		t.Fatalf("expected snapshot event, got %q", ev.Type)
	}
	if ev.Snapshot.Status.Source != models.SourceLive {
		t.Fatalf("unexpected snapshot status: %+v", ev.Snapshot.Status)
	}
}

func TestCloseDropsClients(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h)
	waitClients(t, h, 1)

	h.Close()
	waitClients(t, h, 0)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected read to fail after hub close")
	}
}
