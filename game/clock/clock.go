// Package clock delivers periodic ticks to game sessions.
//
// A Subscription wraps a time.Ticker running on its own goroutine. Cancel
// stops it without blocking and may be called any number of times, which
// lets a tick callback cancel its own subscription once a game ends.
//
// Usage:
//
//	sub := clock.Every(ctx, time.Second, func() {
//		game.Tick()
//	})
//	defer sub.Cancel()
package clock

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is one game second
const DefaultInterval = time.Second

// Subscription is a running periodic callback
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every calls fn once per interval until ctx is done or the subscription is
// cancelled. A non-positive interval falls back to DefaultInterval.
func Every(ctx context.Context, interval time.Duration, fn func()) *Subscription {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// a cancel racing with the tick wins
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()

	return sub
}

// Cancel stops future ticks. It does not wait for a callback in flight.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Done is closed once the ticking goroutine has exited
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
