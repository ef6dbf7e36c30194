// Package session provides session management for BrainStress.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// It stores service.Session values, each wrapping one engine.Game together
// with the clock driving it.
//
// Session Identifiers:
//
// Sessions use 4-character hexadecimal IDs for easy reference. Lookups are
// case-insensitive. Generated IDs come from crypto/rand and are retried on
// collision.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session
//	sess, err := manager.Create("", q.ID, engine.NewGame(q))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//
// Cleanup:
//
// Deleting or expiring a session cancels its clock so no goroutine keeps
// ticking a game nobody can reach. Sessions live in memory only.
package session
