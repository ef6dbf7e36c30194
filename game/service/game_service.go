package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/brainstress/game/clock"
	"github.com/wricardo/brainstress/game/engine"
	"github.com/wricardo/brainstress/game/quiz"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrSessionOver     = errors.New("session is over")
	ErrInvalidRequest  = errors.New("invalid request")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, quizID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	StartSession(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	Pause(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	Resume(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	SubmitAnswer(ctx context.Context, sessionID, value string) (*AnswerResult, error)
	CompleteItem(ctx context.Context, sessionID string) (*AnswerResult, error)
	Tick(ctx context.Context, sessionID string, count int) (*engine.Snapshot, error)

	// Game State
	GetState(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Catalog
	ListCategories(ctx context.Context) ([]string, error)
	ListQuizzes(ctx context.Context, category string) ([]*QuizInfo, error)

	// Profile and statistics
	GetProfile(ctx context.Context) (*Profile, error)
	SetNickname(ctx context.Context, nickname string) (*Profile, error)
	GetStats(ctx context.Context, quizID string) (*StatsInfo, error)

	// Close stops every running session clock
	Close() error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, quizID string, game *engine.Game) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// CatalogManager lists quizzes and builds playable copies
type CatalogManager interface {
	Categories() []quiz.Category
	ListQuizzes(category string) ([]*QuizInfo, error)
	GetInfo(quizID string) (*QuizInfo, error)
	Build(quizID string) (*quiz.Quiz, error)
}

// Notifier receives state updates for connected clients
type Notifier interface {
	BroadcastToSession(sessionID string, snapshot *engine.Snapshot)
	BroadcastEvent(sessionID string, event string, data any)
}

// Session represents an active game session. The game and clock are only
// reachable through methods that hold the session lock.
type Session struct {
	ID        string
	QuizID    string
	CreatedAt time.Time

	game           *engine.Game
	clock          *clock.Subscription
	lastAccessedAt time.Time
	mu             sync.Mutex
}

// NewSession wraps game as a session
func NewSession(id, quizID string, game *engine.Game) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		QuizID:         quizID,
		CreatedAt:      now,
		game:           game,
		lastAccessedAt: now,
	}
}

// WithGame runs fn while holding the session lock
func (s *Session) WithGame(fn func(g *engine.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

// Snapshot captures the game state
func (s *Session) Snapshot() *engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Touch records an access at the given time
func (s *Session) Touch(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessedAt = at
}

// LastAccessedAt returns the time of the last access
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

// StartClock installs the subscription returned by start unless a clock is
// already running. It reports whether start was called.
func (s *Session) StartClock(start func() *clock.Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock != nil {
		return false
	}
	s.clock = start()
	return true
}

// StopClock cancels the running clock, if any. Safe to call from a tick callback.
func (s *Session) StopClock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock != nil {
		s.clock.Cancel()
		s.clock = nil
	}
}

// Running reports whether a clock is driving the session
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock != nil
}
