// Package api provides HTTP REST API handlers for BrainStress.
//
// The api package implements:
//   - Catalog browsing by category
//   - Session management endpoints
//   - Game control (start, pause, resume, answers, manual ticks)
//   - Profile and per-quiz statistics
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Catalog:
//   - GET /api/categories - List quiz categories
//   - GET /api/quizzes?category=Math - List quizzes, "All" by default
//
// Session Management:
//   - POST /api/sessions - Create new session for {"quiz_id": "..."}
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session and stop its clock
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/start - Begin the warm-up countdown
//   - POST /api/sessions/{id}/pause - Freeze the countdowns
//   - POST /api/sessions/{id}/resume - Continue after a pause
//   - POST /api/sessions/{id}/answers - Submit {"value": "42"}
//   - POST /api/sessions/{id}/complete - Finalize a multiple choice item
//   - POST /api/sessions/{id}/tick?count=N - Advance the clock by hand
//
// Profile:
//   - GET /api/profile - Nickname and greeting
//   - PUT /api/profile - Change the nickname
//   - GET /api/stats/{quizID} - Wins and fails for one quiz
//
// Snapshots never include the expected answers. The answer result reports
// whether the value was accepted, whether it finalized the item, and if so
// whether it was correct.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the
// service sentinel errors (404 unknown session or quiz, 400 invalid
// request, 409 finished session):
//
//	{
//	  "error": "error message"
//	}
package api
