// Package store keeps the player data that outlives a game session.
//
// The store package implements:
//   - Per-quiz win and fail counters
//   - The player nickname
//   - Named boolean flags such as the one-shot welcome alert
//
// Backends:
//
// MemoryStore keeps everything in process and is used by tests and the
// terminal play command. FileStore writes a single JSON document under a
// data directory. SQLiteStore uses github.com/mattn/go-sqlite3 and
// RedisStore uses github.com/redis/go-redis/v9 so several server instances
// can share statistics.
//
// Missing data is never an error: unknown quizzes report zero counters,
// an unset nickname is the empty string and an unset flag is false.
//
// Usage:
//
//	st, err := store.Open(ctx, store.Config{Backend: "sqlite", Path: "brainstress.db"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	_ = st.IncrementWin(ctx, "math-add-easy")
//	stats, _ := st.Stats(ctx, "math-add-easy")
package store
