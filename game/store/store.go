package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// WelcomeAlertShown is set once the first-run welcome has been displayed
const WelcomeAlertShown = "welcome-alert-shown"

var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrEmptyQuizID    = errors.New("quiz ID is required")
	ErrEmptyFlag      = errors.New("flag name is required")
)

// Stats holds the finished-session counters of one quiz
type Stats struct {
	QuizID string `json:"quiz_id"`
	Wins   int    `json:"wins"`
	Fails  int    `json:"fails"`
}

// Played is the number of finished sessions
func (s Stats) Played() int {
	return s.Wins + s.Fails
}

// Store persists statistics and profile data
type Store interface {
	IncrementWin(ctx context.Context, quizID string) error
	IncrementFail(ctx context.Context, quizID string) error
	Stats(ctx context.Context, quizID string) (Stats, error)

	Nickname(ctx context.Context) (string, error)
	SetNickname(ctx context.Context, nickname string) error

	Flag(ctx context.Context, name string) (bool, error)
	SetFlag(ctx context.Context, name string, value bool) error

	Close() error
}

// Config selects and parameterizes a backend
type Config struct {
	Backend  string // memory, file, sqlite or redis
	DataDir  string // file backend directory
	Path     string // sqlite database path
	RedisURL string
}

// Open creates the configured backend
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.DataDir)
	case "sqlite", "sqlite3":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(cfg.DataDir, "brainstress.db")
		}
		return NewSQLiteStore(ctx, path)
	case "redis":
		return NewRedisStore(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

func checkQuizID(quizID string) error {
	if strings.TrimSpace(quizID) == "" {
		return ErrEmptyQuizID
	}
	return nil
}

func checkFlag(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyFlag
	}
	return nil
}
