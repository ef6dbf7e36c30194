// Package settings loads BrainStress runtime configuration from the
// environment.
//
// Every field has a default, so an empty environment yields a working
// server on localhost:8080 with a file-backed profile store in ./data.
// A .env file is loaded by the command before Load is called.
//
// Variables:
//
//	ADDR               listen address (localhost:8080)
//	WARMUP_SECONDS     countdown before the first item (3)
//	FEEDBACK_SECONDS   pause after each item, 0 disables it (0)
//	TICK_INTERVAL      real time per game tick (1s)
//	STORE_BACKEND      memory, file, sqlite or redis (file)
//	DATA_DIR           file store directory (data)
//	DB_PATH            sqlite database, DATA_DIR/brainstress.db when empty
//	REDIS_URL          redis connection URL
//	LOG_LEVEL          DEBUG, INFO, WARN or ERROR (INFO)
//	LOG_FORMAT         text or json (text)
//	SESSION_TTL        idle time before a session is removed (24h)
//	CLEANUP_INTERVAL   how often idle sessions are swept (1h)
//	QUIZ_DIR           extra JSON quizzes loaded into the catalog
//	NGROK_ENABLED, NGROK_AUTHTOKEN, NGROK_DOMAIN
package settings

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/wricardo/brainstress/game/service"
	"github.com/wricardo/brainstress/game/store"
)

// ErrInvalidSettings wraps every validation failure
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the runtime configuration
type Settings struct {
	Addr            string        `env:"ADDR" envDefault:"localhost:8080"`
	WarmUpSeconds   int           `env:"WARMUP_SECONDS" envDefault:"3"`
	FeedbackSeconds int           `env:"FEEDBACK_SECONDS" envDefault:"0"`
	TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"`
	DataDir      string `env:"DATA_DIR" envDefault:"data"`
	DBPath       string `env:"DB_PATH"`
	RedisURL     string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text"`

	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	QuizDir         string        `env:"QUIZ_DIR"`

	Ngrok Ngrok `envPrefix:"NGROK_"`
}

// Ngrok configures the optional public tunnel
type Ngrok struct {
	Enabled   bool   `env:"ENABLED"`
	AuthToken string `env:"AUTHTOKEN"`
	Domain    string `env:"DOMAIN"`
}

// Load parses the environment and validates the result
func Load() (*Settings, error) {
	s, err := env.ParseAs[Settings]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks value ranges
func (s *Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Addr) == "" {
		errs = append(errs, errors.New("ADDR must not be empty"))
	}
	if s.WarmUpSeconds < 0 {
		errs = append(errs, fmt.Errorf("WARMUP_SECONDS must be >= 0, got %d", s.WarmUpSeconds))
	}
	if s.FeedbackSeconds < 0 {
		errs = append(errs, fmt.Errorf("FEEDBACK_SECONDS must be >= 0, got %d", s.FeedbackSeconds))
	}
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("TICK_INTERVAL must be positive, got %s", s.TickInterval))
	}
	if s.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", s.SessionTTL))
	}
	if s.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("CLEANUP_INTERVAL must be positive, got %s", s.CleanupInterval))
	}
	switch strings.ToLower(s.StoreBackend) {
	case "memory", "file", "sqlite", "sqlite3", "redis":
	default:
		errs = append(errs, fmt.Errorf("%w: %s", store.ErrUnknownBackend, s.StoreBackend))
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", s.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}

// StoreConfig returns the profile store configuration
func (s *Settings) StoreConfig() store.Config {
	return store.Config{
		Backend:  s.StoreBackend,
		DataDir:  s.DataDir,
		Path:     s.DBPath,
		RedisURL: s.RedisURL,
	}
}

// ServiceOptions returns game service options. Logger and Notifier are
// left for the caller.
func (s *Settings) ServiceOptions() service.Options {
	return service.Options{
		WarmUpSeconds:   s.WarmUpSeconds,
		FeedbackSeconds: s.FeedbackSeconds,
		TickInterval:    s.TickInterval,
	}
}

// Logger builds the process logger writing to w
func (s *Settings) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	if strings.EqualFold(s.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
