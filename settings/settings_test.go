package settings

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/brainstress/game/store"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Addr != "localhost:8080" {
		t.Errorf("Expected default addr, got %s", s.Addr)
	}
	if s.WarmUpSeconds != 3 {
		t.Errorf("Expected 3 warm-up seconds, got %d", s.WarmUpSeconds)
	}
	if s.TickInterval != time.Second {
		t.Errorf("Expected 1s tick interval, got %s", s.TickInterval)
	}
	if s.StoreBackend != "file" || s.DataDir != "data" {
		t.Errorf("Unexpected store defaults %s %s", s.StoreBackend, s.DataDir)
	}
	if s.LogLevel != slog.LevelInfo {
		t.Errorf("Expected INFO level, got %s", s.LogLevel)
	}
	if s.Ngrok.Enabled {
		t.Error("Expected ngrok to be disabled by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("WARMUP_SECONDS", "0")
	t.Setenv("FEEDBACK_SECONDS", "2")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DB_PATH", "/tmp/bs.db")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("NGROK_ENABLED", "true")
	t.Setenv("NGROK_DOMAIN", "quiz.example.app")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Addr != ":9090" || s.WarmUpSeconds != 0 || s.FeedbackSeconds != 2 {
		t.Errorf("Unexpected values %+v", s)
	}
	if s.TickInterval != 250*time.Millisecond || s.SessionTTL != 30*time.Minute {
		t.Errorf("Unexpected durations %s %s", s.TickInterval, s.SessionTTL)
	}
	if s.LogLevel != slog.LevelDebug {
		t.Errorf("Expected DEBUG level, got %s", s.LogLevel)
	}
	if !s.Ngrok.Enabled || s.Ngrok.Domain != "quiz.example.app" {
		t.Errorf("Unexpected ngrok settings %+v", s.Ngrok)
	}

	cfg := s.StoreConfig()
	if cfg.Backend != "sqlite" || cfg.Path != "/tmp/bs.db" {
		t.Errorf("Unexpected store config %+v", cfg)
	}

	opts := s.ServiceOptions()
	if opts.WarmUpSeconds != 0 || opts.FeedbackSeconds != 2 || opts.TickInterval != 250*time.Millisecond {
		t.Errorf("Unexpected service options %+v", opts)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("WARMUP_SECONDS", "soon")

	if _, err := Load(); err == nil {
		t.Error("Expected parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Settings {
		return Settings{
			Addr:            ":8080",
			WarmUpSeconds:   3,
			FeedbackSeconds: 1,
			TickInterval:    time.Second,
			StoreBackend:    "memory",
			LogFormat:       "text",
			SessionTTL:      time.Hour,
			CleanupInterval: time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(s *Settings) {}, ""},
		{"negative warm-up", func(s *Settings) { s.WarmUpSeconds = -1 }, "WARMUP_SECONDS"},
		{"negative feedback", func(s *Settings) { s.FeedbackSeconds = -2 }, "FEEDBACK_SECONDS"},
		{"zero tick", func(s *Settings) { s.TickInterval = 0 }, "TICK_INTERVAL"},
		{"zero ttl", func(s *Settings) { s.SessionTTL = 0 }, "SESSION_TTL"},
		{"unknown backend", func(s *Settings) { s.StoreBackend = "mongo" }, "mongo"},
		{"bad log format", func(s *Settings) { s.LogFormat = "xml" }, "LOG_FORMAT"},
		{"empty addr", func(s *Settings) { s.Addr = " " }, "ADDR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("Expected ErrInvalidSettings, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected %q in %v", tt.wantErr, err)
			}
		})
	}

	t.Run("unknown backend keeps store sentinel", func(t *testing.T) {
		s := valid()
		s.StoreBackend = "mongo"
		if err := s.Validate(); !errors.Is(err, store.ErrUnknownBackend) {
			t.Errorf("Expected store.ErrUnknownBackend, got %v", err)
		}
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	s := &Settings{LogLevel: slog.LevelWarn, LogFormat: "json"}

	logger := s.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "quiz", "math-add-easy")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected INFO to be filtered")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"quiz":"math-add-easy"`) {
		t.Errorf("Expected JSON record, got %s", out)
	}
}
