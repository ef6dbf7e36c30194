package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/brainstress/game/engine"
	"github.com/wricardo/brainstress/game/service"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func boolPtr(b bool) *bool { return &b }

func playingSnapshot() *engine.Snapshot {
	return &engine.Snapshot{
		QuizID:         "math-add-easy",
		QuizTitle:      "Additions",
		Phase:          engine.PhaseInfo{Name: "playing"},
		CurrentItem:    &engine.ItemView{Text: "3 + 4"},
		ItemNumber:     2,
		TotalItems:     3,
		RemainingItems: 1,
		TimeRemaining:  "00:04",
		SolvedCount:    1,
		Progress:       []engine.Outcome{engine.Solved, engine.Active, engine.Queued},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]string
	err := client.apiCall(context.Background(), "POST", "/echo", map[string]string{"value": "42"}, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["value"] != "42" {
		t.Errorf("Expected echoed value, got %v", response)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected string
	}{
		{
			name: "plain error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal Server Error"))
			},
			expected: "API error: 500",
		},
		{
			name: "JSON error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": "session not found: zz99"})
			},
			expected: "session not found: zz99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil || err.Error() != tt.expected {
				t.Errorf("Expected error %q, got %v", tt.expected, err)
			}
		})
	}
}

func TestClient_CreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions" || r.Method != "POST" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["quiz_id"] != "geography-capitals" {
			t.Errorf("Expected quiz_id to be forwarded, got %v", req)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:        "ab12",
			QuizID:    "geography-capitals",
			QuizTitle: "Capitals",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(),
		callRequest("create_session", map[string]interface{}{"quiz_id": "geography-capitals"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "ab12") || !strings.Contains(text, "Capitals") {
		t.Errorf("Expected session details in result, got: %s", text)
	}
}

func TestClient_SessionToolsRequireID(t *testing.T) {
	client := NewClient("http://unused")
	ctx := context.Background()

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"game_state":    client.handleGameState,
		"start_session": client.handleStartSession,
		"submit_answer": client.handleSubmitAnswer,
		"complete_item": client.handleCompleteItem,
		"tick":          client.handleTick,
	}

	for name, handler := range handlers {
		result, err := handler(ctx, callRequest(name, nil))
		if err != nil {
			t.Fatalf("%s returned error: %v", name, err)
		}
		if !result.IsError {
			t.Errorf("%s: expected tool error without session_id", name)
		}
	}
}

func TestClient_GameState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/state" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(playingSnapshot())
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleGameState(context.Background(),
		callRequest("game_state", map[string]interface{}{"session_id": "ab12"}))
	if err != nil {
		t.Fatalf("gameState failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Question: 3 + 4", "Item 2/3", "Time left: 00:04", "Progress: ✓>."} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got:\n%s", want, text)
		}
	}
}

func TestClient_SubmitAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if r.URL.Path != "/api/sessions/ab12/answers" || req["value"] != "7" {
			t.Errorf("Unexpected request %s %v", r.URL.Path, req)
		}
		snap := playingSnapshot()
		snap.Phase = engine.PhaseInfo{Name: "feedback", Correct: boolPtr(true)}
		json.NewEncoder(w).Encode(service.AnswerResult{
			Accepted: true,
			Checked:  true,
			Correct:  boolPtr(true),
			Item:     "3 + 4",
			Message:  "Correct!",
			State:    snap,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleSubmitAnswer(context.Background(),
		callRequest("submit_answer", map[string]interface{}{"session_id": "ab12", "value": "7"}))
	if err != nil {
		t.Fatalf("submitAnswer failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.HasPrefix(text, "Correct! (3 + 4)") {
		t.Errorf("Expected correct verdict, got:\n%s", text)
	}
	if !strings.Contains(text, "feedback (correct)") {
		t.Errorf("Expected feedback phase label, got:\n%s", text)
	}
}

func TestClient_Tick(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(playingSnapshot())
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	if _, err := client.handleTick(ctx, callRequest("tick", map[string]interface{}{"session_id": "ab12", "count": float64(5)})); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if gotQuery != "count=5" {
		t.Errorf("Expected count=5, got %q", gotQuery)
	}

	result, _ := client.handleTick(ctx, callRequest("tick", map[string]interface{}{"session_id": "ab12", "count": float64(0)}))
	if !result.IsError {
		t.Error("Expected tool error for zero count")
	}
}

func TestClient_ListQuizzes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"category": category,
			"quizzes": []*service.QuizInfo{
				{ID: "geography-capitals", Title: "Capitals", Category: category, Difficulty: "easy", ItemCount: 5},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleListQuizzes(context.Background(),
		callRequest("list_quizzes", map[string]interface{}{"category": "Geography"}))
	if err != nil {
		t.Fatalf("listQuizzes failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "geography-capitals: Capitals [Geography, easy, 5 items]") {
		t.Errorf("Unexpected quiz list:\n%s", text)
	}
}

func TestFormatSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		state    *engine.Snapshot
		contains []string
		excludes []string
	}{
		{
			name:     "nil state",
			state:    nil,
			contains: []string{"No game state available"},
		},
		{
			name: "warm up",
			state: &engine.Snapshot{
				QuizTitle:       "Capitals",
				Phase:           engine.PhaseInfo{Name: "warm_up"},
				WarmUpRemaining: 2,
			},
			contains: []string{"Phase: warm_up", "Starting in 2..."},
			excludes: []string{"Question:"},
		},
		{
			name: "multiple choice with pending answers",
			state: &engine.Snapshot{
				Phase:          engine.PhaseInfo{Name: "playing"},
				CurrentItem:    &engine.ItemView{Text: "Pick the primes", Choices: []string{"2", "3", "4"}},
				PendingAnswers: []string{"2"},
				TimeRemaining:  "00:09",
			},
			contains: []string{"Choices: 2, 3, 4", "Selected so far: 2"},
		},
		{
			name: "lost game",
			state: &engine.Snapshot{
				Phase:       engine.PhaseInfo{Name: "end", Win: boolPtr(false)},
				CurrentItem: &engine.ItemView{Text: "stale"},
				Progress:    []engine.Outcome{engine.Failed, engine.Solved},
			},
			contains: []string{"end (LOST)", "Progress: ✗✓"},
			excludes: []string{"Question:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := formatSnapshot(tt.state)
			for _, want := range tt.contains {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in:\n%s", want, text)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(text, unwanted) {
					t.Errorf("Did not expect %q in:\n%s", unwanted, text)
				}
			}
		})
	}
}
