package service

import (
	"time"

	"github.com/wricardo/brainstress/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	QuizID         string           `json:"quiz_id"`
	QuizTitle      string           `json:"quiz_title"`
	Category       string           `json:"category"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Running        bool             `json:"running"`
	State          *engine.Snapshot `json:"state"`
}

// AnswerResult reports what a submission did to the active item
type AnswerResult struct {
	Accepted bool             `json:"accepted"`          // the game was taking answers
	Checked  bool             `json:"checked"`           // the item was finalized
	Correct  *bool            `json:"correct,omitempty"` // set when Checked
	Item     string           `json:"item,omitempty"`    // text of the checked item
	Message  string           `json:"message"`
	State    *engine.Snapshot `json:"state"`
}

// QuizInfo describes a catalog quiz
type QuizInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	ItemCount  int    `json:"item_count"`
	Generated  bool   `json:"generated"`
	Source     string `json:"source,omitempty"`
}

// Profile is what the home screen shows
type Profile struct {
	Nickname    string `json:"nickname"`
	Greeting    string `json:"greeting"`
	ShowWelcome bool   `json:"show_welcome"`
}

// StatsInfo holds the finished-session counters of a quiz
type StatsInfo struct {
	QuizID string `json:"quiz_id"`
	Title  string `json:"title,omitempty"`
	Wins   int    `json:"wins"`
	Fails  int    `json:"fails"`
	Played int    `json:"played"`
}
