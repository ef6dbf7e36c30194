// Package service provides the business logic layer for BrainStress.
//
// The service package implements:
//   - Multi-session quiz management
//   - Driving each session with its own tick clock
//   - Answer submission and item completion
//   - Catalog browsing by category
//   - The player profile and per-quiz statistics
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session storage, retrieval, and lifecycle.
// CatalogManager lists quizzes and builds playable copies of them.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Every session owns one engine.Game guarded by the
// session's mutex, so the ticking goroutine and request handlers never
// touch a game at the same time. A session's clock is cancelled as soon as
// its game reaches the end phase or the session is deleted.
//
// Finished games report their outcome through a recorder backed by the
// configured store.Store. Store failures are logged and never surface to
// the player.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	catalogMgr := catalog.NewManager(nil)
//	gameService := service.NewGameService(sessionMgr, catalogMgr, store.NewMemoryStore(), service.Options{})
//
//	// Create and start a session
//	info, err := gameService.CreateSession(ctx, "math-add-easy")
//	if err != nil {
//		log.Fatal(err)
//	}
//	_, _ = gameService.StartSession(ctx, info.ID)
//
//	// Answer the active item
//	result, err := gameService.SubmitAnswer(ctx, info.ID, "7")
//
// State Updates:
//
// When a Notifier is configured every state change is pushed to it as an
// engine.Snapshot, which is how WebSocket clients follow the countdown.
package service
