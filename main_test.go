package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/brainstress/api"
	"github.com/wricardo/brainstress/game/engine"
	"github.com/wricardo/brainstress/game/quiz"
	"github.com/wricardo/brainstress/game/session"
	"github.com/wricardo/brainstress/settings"
	"github.com/wricardo/brainstress/transport/mcp"
)

func testSettings(t *testing.T) *settings.Settings {
	t.Helper()
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("QUIZ_DIR", "")
	s, err := settings.Load()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}
	return s
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "BrainStress" {
		t.Errorf("Expected app name BrainStress, got %s", AppName)
	}
}

func TestLocalBaseURL(t *testing.T) {
	tests := []struct {
		addr     string
		expected string
	}{
		{"localhost:8080", "http://localhost:8080"},
		{":8080", "http://127.0.0.1:8080"},
		{"0.0.0.0:9090", "http://127.0.0.1:9090"},
		{"[::]:9090", "http://127.0.0.1:9090"},
		{"no-port", "http://no-port"},
	}

	for _, tt := range tests {
		if got := localBaseURL(tt.addr); got != tt.expected {
			t.Errorf("localBaseURL(%q) = %q, want %q", tt.addr, got, tt.expected)
		}
	}
}

func TestNewApp(t *testing.T) {
	s := testSettings(t)

	a, err := newApp(context.Background(), s, nil, nil)
	if err != nil {
		t.Fatalf("Failed to initialize app: %v", err)
	}
	defer a.Close()

	if a.catalog.Count() == 0 {
		t.Error("Expected built-in quizzes in the catalog")
	}

	info, err := a.service.CreateSession(context.Background(), "math-add-easy")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if a.sessions.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", a.sessions.Count())
	}
	if info.State.Phase.Name != "warm_up" {
		t.Errorf("Expected warm-up, got %s", info.State.Phase.Name)
	}
}

func TestNewApp_InvalidQuizDir(t *testing.T) {
	s := testSettings(t)
	s.QuizDir = "/non/existent/path"

	if _, err := newApp(context.Background(), s, nil, nil); err == nil {
		t.Error("Expected error for non-existent quiz directory")
	}
}

func TestNewHandler(t *testing.T) {
	s := testSettings(t)
	a, err := newApp(context.Background(), s, nil, nil)
	if err != nil {
		t.Fatalf("Failed to initialize app: %v", err)
	}
	defer a.Close()

	handler := newHandler(api.NewServer(a.service, nil, nil), mcp.NewClient("http://unused"))

	t.Run("api is mounted at root", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", w.Code)
		}
	})

	t.Run("mcp lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "submit_answer") {
			t.Errorf("Expected submit_answer tool in response, got %s", w.Body.String())
		}
	})
}

func TestSessionCleanupRoutine(t *testing.T) {
	manager := session.NewManager()
	q := &quiz.Quiz{ID: "q", Title: "Q", Difficulty: quiz.Easy, Category: quiz.Math}
	if _, err := manager.Create("", "q", engine.NewGame(q)); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager, 5*time.Millisecond, time.Nanosecond, testLogger())
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for manager.Count() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if manager.Count() != 0 {
		t.Error("Expected the idle session to be cleaned up")
	}
}

func TestListenerHandler_EphemeralPort(t *testing.T) {
	s := testSettings(t)
	a, err := newApp(context.Background(), s, nil, nil)
	if err != nil {
		t.Fatalf("Failed to initialize app: %v", err)
	}
	defer a.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	srv := &http.Server{Handler: listenerHandler(api.NewServer(a.service, nil, nil), ln)}
	go srv.Serve(ln)
	defer srv.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_categories","arguments":{}}}`
	resp, err := http.Post("http://"+ln.Addr().String()+"/mcp", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /mcp failed: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "Categories: All, Math") {
		t.Errorf("Expected the proxy to reach the API on the real port, got %s", data)
	}
}

func TestCatalogCommands(t *testing.T) {
	t.Setenv("QUIZ_DIR", "")

	run := func(t *testing.T, args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := newCommand(strings.NewReader(""), &out)
		if err := cmd.Run(context.Background(), append([]string{"brainstress"}, args...)); err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
		return out.String()
	}

	t.Run("list by category", func(t *testing.T) {
		out := run(t, "catalog", "list", "--category", "Geography")
		if !strings.Contains(out, "geography-capitals") {
			t.Errorf("Expected geography quiz in output:\n%s", out)
		}
		if strings.Contains(out, "math-add-easy") {
			t.Errorf("Did not expect math quizzes in output:\n%s", out)
		}
	})

	t.Run("preview is reproducible with a seed", func(t *testing.T) {
		first := run(t, "catalog", "preview", "--seed", "7", "math-multiply-normal")
		second := run(t, "catalog", "preview", "--seed", "7", "math-multiply-normal")
		if first != second {
			t.Error("Expected identical previews for the same seed")
		}
		if !strings.Contains(first, "answer:") {
			t.Errorf("Expected answers in preview:\n%s", first)
		}
	})

	t.Run("export then validate", func(t *testing.T) {
		dir := t.TempDir()
		out := run(t, "catalog", "export", "--dir", dir, "--id", "my-capitals", "geography-capitals")
		if !strings.Contains(out, "my-capitals") {
			t.Errorf("Unexpected export output: %s", out)
		}

		out = run(t, "catalog", "validate", dir)
		if !strings.Contains(out, "1 valid quizzes") {
			t.Errorf("Unexpected validate output: %s", out)
		}
	})

	t.Run("export without id gets a uuid", func(t *testing.T) {
		dir := t.TempDir()
		run(t, "catalog", "export", "--dir", dir, "geography-capitals")

		files, err := os.ReadDir(dir)
		if err != nil || len(files) != 1 {
			t.Fatalf("Expected one exported file, got %v (err %v)", files, err)
		}
		id := strings.TrimSuffix(files[0].Name(), ".json")
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("Expected a UUID file name, got %q", files[0].Name())
		}
	})

	t.Run("export rejects path ids", func(t *testing.T) {
		dir := t.TempDir()
		cmd := newCommand(strings.NewReader(""), io.Discard)
		args := []string{"brainstress", "catalog", "export", "--dir", filepath.Join(dir, "out"), "--id", "../escaped", "geography-capitals"}
		if err := cmd.Run(context.Background(), args); err == nil {
			t.Error("Expected export with a path id to fail")
		}
		if _, err := os.Stat(filepath.Join(dir, "escaped.json")); !os.IsNotExist(err) {
			t.Error("Expected nothing written outside the export directory")
		}
	})
}

func TestRunPlay(t *testing.T) {
	s := testSettings(t)
	s.WarmUpSeconds = 0
	s.FeedbackSeconds = 0
	s.TickInterval = 2 * time.Millisecond

	t.Run("unanswered quiz is lost", func(t *testing.T) {
		// the pipe stays open so input never runs out
		in, w := io.Pipe()
		defer w.Close()

		var out syncBuffer
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := runPlay(ctx, s, testLogger(), "geography-capitals", in, &out); err != nil {
			t.Fatalf("runPlay failed: %v", err)
		}
		if ctx.Err() != nil {
			t.Fatal("game did not end before the timeout")
		}

		text := out.String()
		if !strings.Contains(text, "You lost.") || !strings.Contains(text, "Solved 0 of") {
			t.Errorf("Expected a lost summary, got:\n%s", text)
		}
		if !strings.Contains(text, "played 1") {
			t.Errorf("Expected stats to be recorded, got:\n%s", text)
		}
	})

	t.Run("quit stops the game", func(t *testing.T) {
		var out syncBuffer
		slow := *s
		slow.TickInterval = time.Hour

		err := runPlay(context.Background(), &slow, testLogger(), "geography-capitals", strings.NewReader(":quit\n"), &out)
		if err != nil {
			t.Fatalf("runPlay failed: %v", err)
		}
	})

	t.Run("unknown quiz", func(t *testing.T) {
		var out syncBuffer
		if err := runPlay(context.Background(), s, testLogger(), "nope", strings.NewReader(""), &out); err == nil {
			t.Error("Expected error for unknown quiz")
		}
	})
}
