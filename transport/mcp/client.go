package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/brainstress/game/engine"
	"github.com/wricardo/brainstress/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"BrainStress",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`BrainStress - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Answer every item of a quiz before its countdown runs out. A quiz is won only
when every item is solved.

AVAILABLE TOOLS:
- list_categories / list_quizzes: Browse the catalog
- create_session: Create a session for a quiz
- start_session: Begin the warm-up countdown
- game_state: Current item, countdowns and progress
- submit_answer: Answer the current item
- complete_item: Finalize a multiple choice item
- pause / resume: Freeze or continue the countdowns
- tick: Advance the clock by hand
- get_session / list_sessions / delete_session: Session management
- get_profile / set_nickname / quiz_stats: Player profile and statistics
- game_instructions: Full rules

NOTE: Sessions run on a real clock once started. Use pause when you need time to think.`),
	)

	// Register all tools
	c.registerTools()
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func sessionOnlyTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Catalog
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_categories",
		Description: "List quiz categories",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListCategories)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_quizzes",
		Description: "List quizzes, optionally filtered by category",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Category name (optional, defaults to All)",
				},
			},
		},
	}, c.handleListQuizzes)

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session for a quiz",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the quiz to play (see list_quizzes)",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(sessionOnlyTool("get_session", "Get details of a specific session"), c.handleGetSession)
	c.mcpServer.AddTool(sessionOnlyTool("delete_session", "Delete a session and stop its clock"), c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(sessionOnlyTool("start_session", "Start the quiz: warm-up countdown, then the first item"), c.handleStartSession)
	c.mcpServer.AddTool(sessionOnlyTool("game_state", "Get the current game state"), c.handleGameState)
	c.mcpServer.AddTool(sessionOnlyTool("pause", "Pause the countdowns"), c.handlePause)
	c.mcpServer.AddTool(sessionOnlyTool("resume", "Resume a paused game"), c.handleResume)
	c.mcpServer.AddTool(sessionOnlyTool("complete_item", "Finalize the current multiple choice item with the answers given so far"), c.handleCompleteItem)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_answer",
		Description: "Submit an answer for the current item",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"value": map[string]interface{}{
					"type":        "string",
					"description": "The answer. For multiple choice items submit one choice per call",
				},
			},
			Required: []string{"session_id", "value"},
		},
	}, c.handleSubmitAnswer)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance the game clock by one or more seconds",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"count": map[string]interface{}{
					"type":        "integer",
					"description": "Number of seconds to advance (default 1)",
					"minimum":     1,
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	// Profile
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_profile",
		Description: "Get the player's nickname and greeting",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGetProfile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_nickname",
		Description: "Change the player's nickname",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"nickname": map[string]interface{}{
					"type":        "string",
					"description": "New nickname",
				},
			},
			Required: []string{"nickname"},
		},
	}, c.handleSetNickname)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "quiz_stats",
		Description: "Get win and fail counts for a quiz",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz ID",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, c.handleQuizStats)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves the tools over stdin and stdout until the client disconnects
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := c.apiCall(ctx, "GET", "/api/categories", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Categories: " + strings.Join(resp.Categories, ", ")), nil
}

func (c *Client) handleListQuizzes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, _ := arguments(request)["category"].(string)

	path := "/api/quizzes"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}

	var resp struct {
		Category string              `json:"category"`
		Quizzes  []*service.QuizInfo `json:"quizzes"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatQuizList(resp.Category, resp.Quizzes)), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quizID, _ := arguments(request)["quiz_id"].(string)

	var session service.SessionInfo
	err := c.apiCall(ctx, "POST", "/api/sessions", map[string]string{"quiz_id": quizID}, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nQuiz: %s (%s)\nCall start_session to begin.\n",
		session.ID, session.QuizTitle, session.QuizID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Active sessions (%d):\n", len(resp.Sessions)))
	for _, s := range resp.Sessions {
		phase := ""
		if s.State != nil {
			phase = s.State.Phase.Name
		}
		result.WriteString(fmt.Sprintf("- %s: %s [%s]\n", s.ID, s.QuizID, phase))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var resp map[string]string
	if err := c.apiCall(ctx, "DELETE", path, nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(resp["message"]), nil
}

// snapshotCall runs a session operation that answers with a snapshot
func (c *Client) snapshotCall(ctx context.Context, request mcp.CallToolRequest, method, suffix string) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.Snapshot
	if err := c.apiCall(ctx, method, path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&state)), nil
}

func (c *Client) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.snapshotCall(ctx, request, "POST", "/start")
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.snapshotCall(ctx, request, "GET", "/state")
}

func (c *Client) handlePause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.snapshotCall(ctx, request, "POST", "/pause")
}

func (c *Client) handleResume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.snapshotCall(ctx, request, "POST", "/resume")
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/tick")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// JSON numbers arrive as float64
	if count, ok := args["count"].(float64); ok {
		if count < 1 {
			return mcp.NewToolResultError("count must be at least 1"), nil
		}
		path += fmt.Sprintf("?count=%d", int(count))
	}

	var state engine.Snapshot
	if err := c.apiCall(ctx, "POST", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&state)), nil
}

func (c *Client) handleSubmitAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/answers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	value, ok := args["value"].(string)
	if !ok {
		return mcp.NewToolResultError("value is required"), nil
	}

	var result service.AnswerResult
	if err := c.apiCall(ctx, "POST", path, map[string]string{"value": value}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAnswerResult(&result)), nil
}

func (c *Client) handleCompleteItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/complete")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.AnswerResult
	if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAnswerResult(&result)), nil
}

func (c *Client) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var profile service.Profile
	if err := c.apiCall(ctx, "GET", "/api/profile", nil, &profile); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s %s", profile.Greeting, profile.Nickname)), nil
}

func (c *Client) handleSetNickname(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nickname, _ := arguments(request)["nickname"].(string)

	var profile service.Profile
	if err := c.apiCall(ctx, "PUT", "/api/profile", map[string]string{"nickname": nickname}, &profile); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Nickname set to %s", profile.Nickname)), nil
}

func (c *Client) handleQuizStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quizID, _ := arguments(request)["quiz_id"].(string)
	if quizID == "" {
		return mcp.NewToolResultError("quiz_id is required"), nil
	}

	var stats service.StatsInfo
	if err := c.apiCall(ctx, "GET", "/api/stats/"+url.PathEscape(quizID), nil, &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s (%s)\nPlayed: %d | Wins: %d | Fails: %d",
		stats.Title, stats.QuizID, stats.Played, stats.Wins, stats.Fails)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `BRAINSTRESS RULES

FLOW:
1. create_session with a quiz_id from list_quizzes.
2. start_session begins a short warm-up countdown.
3. Items are shown one at a time. Each has its own countdown in seconds.
4. When the countdown reaches zero the item is failed and the next one loads.
5. After every item a brief feedback phase shows whether it was correct.
6. The game ends when no items remain.

ANSWERS:
- Text items: submit_answer checks the value at once. Numbers are compared
  after normalization, so "1,000" and "1000" match. Text is compared without
  regard to case or surrounding spaces.
- Multiple choice items: submit one choice per submit_answer call. Nothing is
  checked until complete_item is called or the countdown runs out. The item
  is solved only when the submitted set equals the expected set.
- Answers sent outside the playing phase are ignored.

WINNING:
The quiz is won only when every item is solved. One failed item loses it.

CLOCK:
Started sessions advance once per second on the server. pause freezes every
countdown; resume continues where it left off. tick advances a session by
hand, which is useful when the server clock is disabled.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatQuizList(category string, quizzes []*service.QuizInfo) string {
	if len(quizzes) == 0 {
		return fmt.Sprintf("No quizzes in category %s", category)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Quizzes in %s (%d):\n", category, len(quizzes)))
	for _, q := range quizzes {
		result.WriteString(fmt.Sprintf("- %s: %s [%s, %s, %d items]\n",
			q.ID, q.Title, q.Category, q.Difficulty, q.ItemCount))
	}
	return result.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nQuiz: %s (%s)\nCreated: %s\nClock running: %t\n\n%s",
		session.ID, session.QuizTitle, session.QuizID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.Running,
		formatSnapshot(session.State))
}

func formatSnapshot(state *engine.Snapshot) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Quiz: %s | Phase: %s\n", state.QuizTitle, phaseLabel(state.Phase)))
	result.WriteString(fmt.Sprintf("Item %d/%d | Solved: %d | Failed: %d | Remaining: %d\n",
		state.ItemNumber, state.TotalItems, state.SolvedCount, state.FailedCount, state.RemainingItems))

	switch state.Phase.Name {
	case "warm_up":
		result.WriteString(fmt.Sprintf("Starting in %d...\n", state.WarmUpRemaining))
	case "feedback":
		result.WriteString(fmt.Sprintf("Next item in %d\n", state.FeedbackRemaining))
	}

	if item := state.CurrentItem; item != nil && state.Phase.Name != "end" {
		result.WriteString(fmt.Sprintf("\nQuestion: %s\n", item.Text))
		if len(item.Choices) > 0 {
			result.WriteString("Choices: " + strings.Join(item.Choices, ", ") + "\n")
		}
		result.WriteString(fmt.Sprintf("Time left: %s\n", state.TimeRemaining))
		if len(state.PendingAnswers) > 0 {
			result.WriteString("Selected so far: " + strings.Join(state.PendingAnswers, ", ") + "\n")
		}
	}

	if len(state.Progress) > 0 {
		result.WriteString("\nProgress: " + formatProgress(state.Progress) + "\n")
	}

	return result.String()
}

func phaseLabel(phase engine.PhaseInfo) string {
	switch {
	case phase.Name == "end" && phase.Win != nil && *phase.Win:
		return "end (WON)"
	case phase.Name == "end":
		return "end (LOST)"
	case phase.Name == "feedback" && phase.Correct != nil && *phase.Correct:
		return "feedback (correct)"
	case phase.Name == "feedback":
		return "feedback (wrong)"
	}
	return phase.Name
}

// formatProgress renders one mark per item
func formatProgress(progress []engine.Outcome) string {
	marks := make([]string, len(progress))
	for i, o := range progress {
		switch o {
		case engine.Solved:
			marks[i] = "✓"
		case engine.Failed:
			marks[i] = "✗"
		case engine.Active:
			marks[i] = ">"
		default:
			marks[i] = "."
		}
	}
	return strings.Join(marks, "")
}

func formatAnswerResult(result *service.AnswerResult) string {
	var out strings.Builder

	out.WriteString(result.Message)
	if result.Checked && result.Item != "" {
		out.WriteString(fmt.Sprintf(" (%s)", result.Item))
	}
	out.WriteString("\n\n")
	out.WriteString(formatSnapshot(result.State))

	return out.String()
}
