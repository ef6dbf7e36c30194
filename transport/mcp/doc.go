// Package mcp provides a Model Context Protocol server for BrainStress.
//
// The server is a thin proxy: every tool call becomes a request against the
// REST API, so AI agents and browser players share the same sessions and
// the same server-side clock.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - list_categories, list_quizzes: Browse the catalog
//   - create_session, get_session, list_sessions, delete_session
//   - start_session: Begin the warm-up countdown
//   - game_state: Current item, countdowns and per-item progress
//   - submit_answer: Answer the current item
//   - complete_item: Finalize a multiple choice item
//   - pause, resume: Freeze or continue the countdowns
//   - tick: Advance a session clock by hand
//   - get_profile, set_nickname, quiz_stats
//   - game_instructions: Full rules
//
// Results are rendered as plain text. Expected answers are never part of
// the output since snapshots do not carry them.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
