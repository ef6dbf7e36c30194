// Package engine provides the quiz session state machine for BrainStress.
//
// The engine package implements:
//   - Tick-driven phases: warm-up, playing, paused, feedback and end
//   - Answer buffering and checking per answer kind
//   - Item advancement and time-outs
//   - Win/lose scoring reported to an injected Recorder
//   - Change notification through subscribed observers
//
// Core Types:
//
// Game owns one quiz attempt. It keeps the immutable original quiz for
// scoring and a working copy whose items are consumed front to back. Phase is
// a sum type with one variant per state; Feedback and End carry their
// payload.
//
// Usage:
//
//	game := engine.NewGame(q, engine.WithRecorder(recorder))
//	unsubscribe := game.Subscribe(func(ev engine.Event) {
//		log.Printf("%s: %s", ev.Type, ev.Phase)
//	})
//	defer unsubscribe()
//
//	// once per second
//	game.Tick()
//
//	// from the presentation layer
//	game.SubmitAnswer("12")
//
// Concurrency:
//
// A Game is not safe for concurrent use. Ticks and answer submissions must
// be serialized by the caller; the service layer does this with a
// per-session mutex.
//
// Missing data is never an error here. Submitting without an active item,
// ticking after the end or removing from an empty queue simply does nothing.
package engine
