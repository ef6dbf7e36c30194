// Package websocket provides WebSocket transport for BrainStress.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - State broadcasting after every tick and player action
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a read pump
// and a write pump goroutine. Only the Hub's Run loop adds or removes
// clients; broadcasts are queued without blocking the game clock.
//
// Message Protocol:
//
// Clients only listen. Each frame is one JSON Message:
//   - {"session_id": "ab12", "event": "state_update", "state": {...}}
//   - {"session_id": "ab12", "event": "ended", "data": {"name": "end", "win": true}}
//
// The state is an engine.Snapshot, which never carries expected answers.
//
// Session Integration:
//
// Clients specify their session ID via query parameter (?session=ab12)
// when establishing the connection. Updates are broadcast only to clients
// connected to the same session.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, catalog, st, service.Options{Notifier: hub})
//	server := api.NewServer(svc, hub, logger)
//
// Concurrency:
//
// BroadcastToSession and BroadcastEvent are safe to call from any
// goroutine. When the broadcast queue is full the message is dropped and
// logged; a slow client whose buffer fills is disconnected.
package websocket
