package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/brainstress/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || cap(hub.broadcast) != broadcastBuffer {
		t.Error("Hub broadcast channel should be buffered")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
	if hub.logger == nil {
		t.Error("Hub logger is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if hub.ClientCount("test-session") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("test-session"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel to be closed")
	}

	// a second unregister must not close the channel twice
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub(nil)
	sessionID := "multi-client-session"

	client1 := newTestClient(hub, sessionID)
	client2 := newTestClient(hub, sessionID)

	hub.registerClient(client1)
	hub.registerClient(client2)

	if hub.ClientCount(sessionID) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", hub.ClientCount(sessionID))
	}

	hub.unregisterClient(client1)

	if hub.ClientCount(sessionID) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", hub.ClientCount(sessionID))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub(nil)
	sessionID := "broadcast-test"

	client := newTestClient(hub, sessionID)
	other := newTestClient(hub, "other-session")
	hub.registerClient(client)
	hub.registerClient(other)

	hub.BroadcastToSession(sessionID, &engine.Snapshot{
		QuizID:      "math-add-easy",
		ItemNumber:  3,
		SolvedCount: 2,
	})

	// the message waits in the queue until the Run loop picks it up
	if len(hub.broadcast) != 1 {
		t.Fatalf("Expected 1 queued message, got %d", len(hub.broadcast))
	}
	hub.broadcastMessage(<-hub.broadcast)

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.SessionID != sessionID {
			t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %s", EventStateUpdate, message.Event)
		}
		if message.State == nil || message.State.ItemNumber != 3 || message.State.SolvedCount != 2 {
			t.Errorf("Snapshot not correctly transmitted: %+v", message.State)
		}
	default:
		t.Error("No message received")
	}

	if len(other.send) != 0 {
		t.Error("Clients of other sessions should not receive the message")
	}
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := NewHub(nil)

	hub.BroadcastToSession("nobody", &engine.Snapshot{})
	hub.BroadcastEvent("nobody", "ended", nil)

	if len(hub.broadcast) != 0 {
		t.Errorf("Expected no queued messages, got %d", len(hub.broadcast))
	}
}

func TestHubBroadcastDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	hub.registerClient(newTestClient(hub, "busy"))

	done := make(chan struct{})
	go func() {
		// nothing drains the queue
		for range broadcastBuffer + 10 {
			hub.BroadcastEvent("busy", "tick", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastEvent blocked on a full queue")
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected a full queue, got %d", len(hub.broadcast))
	}
}

func TestHubSlowClientDisconnected(t *testing.T) {
	hub := NewHub(nil)
	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: "tick"})

	if hub.ClientCount("slow") != 0 {
		t.Error("Expected the unbuffered client to be dropped")
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, "event-test")
	hub.registerClient(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	hub.BroadcastEvent("event-test", "ended", map[string]bool{"win": true})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != "ended" {
			t.Errorf("Expected event 'ended', got %s", message.Event)
		}
		payload, ok := message.Data.(map[string]interface{})
		if !ok || payload["win"] != true {
			t.Errorf("Expected win payload, got %v", message.Data)
		}
	case <-time.After(time.Second):
		t.Error("No broadcast message received within timeout")
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := NewHub(nil)
	client := newTestClient(hub, "shutdown")
	hub.registerClient(client)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if hub.ClientCount("shutdown") != 0 {
		t.Error("Expected clients to be disconnected on shutdown")
	}
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := newTestServer(t, hub)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitFor(t, func() bool { return hub.ClientCount("ws-test") == 1 })

	conn.Close()

	waitFor(t, func() bool { return hub.ClientCount("ws-test") == 0 })
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := newTestServer(t, hub)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=msg-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return hub.ClientCount("msg-test") == 1 })

	hub.BroadcastToSession("msg-test", &engine.Snapshot{
		QuizID:        "geography-capitals",
		Phase:         engine.PhaseInfo{Name: "playing"},
		ItemRemaining: 4,
		TimeRemaining: "00:04",
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, messageData, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(messageData, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}

	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}
	if message.State.QuizID != "geography-capitals" || message.State.Phase.Name != "playing" {
		t.Errorf("Snapshot not correctly received: %+v", message.State)
	}
	if message.State.TimeRemaining != "00:04" {
		t.Errorf("Expected countdown 00:04, got %s", message.State.TimeRemaining)
	}
}
