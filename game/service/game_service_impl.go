package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/brainstress/game/clock"
	"github.com/wricardo/brainstress/game/engine"
	"github.com/wricardo/brainstress/game/store"
)

// MaxManualTicks bounds a single Tick call
const MaxManualTicks = 3600

// Options tunes sessions created by the service
type Options struct {
	WarmUpSeconds   int // negative uses engine.DefaultWarmUpSeconds
	FeedbackSeconds int
	TickInterval    time.Duration
	Logger          *slog.Logger
	Notifier        Notifier
	Now             func() time.Time
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	catalog  CatalogManager
	store    store.Store
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	// clocks outlive the requests that start them
	clockCtx   context.Context
	stopClocks context.CancelFunc
	closeOnce  sync.Once
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, catalog CatalogManager, st store.Store, opts Options) GameService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = clock.DefaultInterval
	}
	if st == nil {
		st = store.NewMemoryStore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &gameServiceImpl{
		sessions:   sessions,
		catalog:    catalog,
		store:      st,
		opts:       opts,
		logger:     opts.Logger,
		now:        opts.Now,
		clockCtx:   ctx,
		stopClocks: cancel,
	}
}

// CreateSession builds the quiz and creates a session in warm-up
func (s *gameServiceImpl) CreateSession(ctx context.Context, quizID string) (*SessionInfo, error) {
	if strings.TrimSpace(quizID) == "" {
		return nil, fmt.Errorf("%w: quiz_id is required", ErrInvalidRequest)
	}

	q, err := s.catalog.Build(quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to build quiz %s: %w", quizID, err)
	}

	opts := []engine.Option{
		engine.WithFeedback(s.opts.FeedbackSeconds),
		engine.WithRecorder(storeRecorder{store: s.store, logger: s.logger}),
	}
	if s.opts.WarmUpSeconds >= 0 {
		opts = append(opts, engine.WithWarmUp(s.opts.WarmUpSeconds))
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", q.ID, engine.NewGame(q, opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created", "session_id", sess.ID, "quiz_id", q.ID, "items", len(q.Items))
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	slices.SortFunc(sessions, func(a, b *Session) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession stops the session clock and removes it
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	sess.StopClock()
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("session deleted", "session_id", sess.ID)
	return nil
}

// StartSession begins ticking. Starting a running session is a no-op.
func (s *gameServiceImpl) StartSession(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var over bool
	sess.WithGame(func(g *engine.Game) { over = g.IsOver() })
	if over {
		return nil, fmt.Errorf("%w: %s", ErrSessionOver, sess.ID)
	}

	started := sess.StartClock(func() *clock.Subscription {
		return clock.Every(s.clockCtx, s.opts.TickInterval, func() { s.onTick(sess) })
	})
	if started {
		s.logger.Info("session started", "session_id", sess.ID, "interval", s.opts.TickInterval)
	}

	snap := sess.Snapshot()
	s.notify(sess.ID, snap)
	return snap, nil
}

// onTick runs on the session clock goroutine
func (s *gameServiceImpl) onTick(sess *Session) {
	var snap *engine.Snapshot
	var idle, over bool
	sess.WithGame(func(g *engine.Game) {
		switch g.Phase().(type) {
		case engine.Paused, engine.End:
			idle = true
		}
		g.Tick()
		over = g.IsOver()
		snap = g.Snapshot()
	})

	if over {
		sess.StopClock()
		s.logger.Info("session ended", "session_id", sess.ID, "solved", snap.SolvedCount, "failed", snap.FailedCount)
	}
	if !idle {
		s.notify(sess.ID, snap)
	}
}

// Pause freezes the session countdowns
func (s *gameServiceImpl) Pause(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	return s.apply(sessionID, func(g *engine.Game) { g.Pause() })
}

// Resume continues a paused session
func (s *gameServiceImpl) Resume(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	return s.apply(sessionID, func(g *engine.Game) { g.Resume() })
}

// Tick advances a session by count ticks without waiting for its clock
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string, count int) (*engine.Snapshot, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxManualTicks {
		return nil, fmt.Errorf("%w: at most %d ticks per call", ErrInvalidRequest, MaxManualTicks)
	}
	return s.apply(sessionID, func(g *engine.Game) {
		for range count {
			if g.IsOver() {
				return
			}
			g.Tick()
		}
	})
}

// GetState returns the current snapshot
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// SubmitAnswer hands value to the active item
func (s *gameServiceImpl) SubmitAnswer(ctx context.Context, sessionID, value string) (*AnswerResult, error) {
	return s.answer(sessionID, func(g *engine.Game) { g.SubmitAnswer(value) })
}

// CompleteItem finalizes the active item with the buffered answers
func (s *gameServiceImpl) CompleteItem(ctx context.Context, sessionID string) (*AnswerResult, error) {
	return s.answer(sessionID, func(g *engine.Game) { g.Complete() })
}

// answer runs op while watching the game for the events it causes
func (s *gameServiceImpl) answer(sessionID string, op func(g *engine.Game)) (*AnswerResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{}
	var over bool
	sess.WithGame(func(g *engine.Game) {
		_, playing := g.Phase().(engine.Playing)
		result.Accepted = playing && g.CurrentItem() != nil

		unsubscribe := g.Subscribe(func(ev engine.Event) {
			if ev.Type == engine.EventItemChecked && !result.Checked {
				correct := ev.Correct
				result.Checked = true
				result.Correct = &correct
				if ev.Item != nil {
					result.Item = ev.Item.Text
				}
			}
		})
		op(g)
		unsubscribe()

		over = g.IsOver()
		result.State = g.Snapshot()
	})

	switch {
	case !result.Accepted:
		result.Message = fmt.Sprintf("Not accepting answers during %s", result.State.Phase.Name)
	case result.Checked && *result.Correct:
		result.Message = "Correct!"
	case result.Checked:
		result.Message = "Wrong answer"
	default:
		result.Message = "Answer buffered, complete the item when done"
	}

	if over {
		sess.StopClock()
	}
	s.notify(sess.ID, result.State)
	return result, nil
}

// apply runs op under the session lock and publishes the new state
func (s *gameServiceImpl) apply(sessionID string, op func(g *engine.Game)) (*engine.Snapshot, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var snap *engine.Snapshot
	var over bool
	sess.WithGame(func(g *engine.Game) {
		op(g)
		over = g.IsOver()
		snap = g.Snapshot()
	})
	if over {
		sess.StopClock()
	}
	s.notify(sess.ID, snap)
	return snap, nil
}

// ListCategories returns category names, All first
func (s *gameServiceImpl) ListCategories(ctx context.Context) ([]string, error) {
	categories := s.catalog.Categories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names, nil
}

// ListQuizzes returns the catalog filtered by category
func (s *gameServiceImpl) ListQuizzes(ctx context.Context, category string) ([]*QuizInfo, error) {
	return s.catalog.ListQuizzes(category)
}

// Close stops every session clock. The service must not be used afterwards.
func (s *gameServiceImpl) Close() error {
	s.closeOnce.Do(func() {
		s.stopClocks()
		for _, sess := range s.sessions.List() {
			sess.StopClock()
		}
	})
	return nil
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	snap := sess.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		QuizID:         sess.QuizID,
		QuizTitle:      snap.QuizTitle,
		Category:       s.quizCategory(sess.QuizID),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
		Running:        sess.Running(),
		State:          snap,
	}
}

func (s *gameServiceImpl) quizCategory(quizID string) string {
	info, err := s.catalog.GetInfo(quizID)
	if err != nil {
		return ""
	}
	return info.Category
}

func (s *gameServiceImpl) notify(sessionID string, snap *engine.Snapshot) {
	if s.opts.Notifier == nil || snap == nil {
		return
	}
	s.opts.Notifier.BroadcastToSession(sessionID, snap)
	if snap.Phase.Name == (engine.End{}).Name() {
		s.opts.Notifier.BroadcastEvent(sessionID, "ended", snap.Phase)
	}
}
