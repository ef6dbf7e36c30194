package engine

import (
	"fmt"

	"github.com/wricardo/brainstress/game/quiz"
)

// ItemView is an item as shown to players, without its answer
type ItemView struct {
	Text     string          `json:"text"`
	Kind     quiz.AnswerKind `json:"kind"`
	Choices  []string        `json:"choices,omitempty"`
	Category string          `json:"category"`
}

// Snapshot is a read-only copy of a game for presentation layers
type Snapshot struct {
	QuizID            string          `json:"quiz_id"`
	QuizTitle         string          `json:"quiz_title"`
	Difficulty        quiz.Difficulty `json:"difficulty"`
	Phase             PhaseInfo       `json:"phase"`
	CurrentItem       *ItemView       `json:"current_item,omitempty"`
	ItemNumber        int             `json:"item_number"`
	TotalItems        int             `json:"total_items"`
	RemainingItems    int             `json:"remaining_items"`
	WarmUpRemaining   int             `json:"warm_up_remaining"`
	ItemRemaining     int             `json:"item_remaining"`
	FeedbackRemaining int             `json:"feedback_remaining"`
	TimeRemaining     string          `json:"time_remaining"`
	SolvedCount       int             `json:"solved_count"`
	FailedCount       int             `json:"failed_count"`
	PendingAnswers    []string        `json:"pending_answers"`
	Progress          []Outcome       `json:"progress"`
}

// Snapshot captures the current state
func (g *Game) Snapshot() *Snapshot {
	snap := &Snapshot{
		QuizID:            g.original.ID,
		QuizTitle:         g.original.Title,
		Difficulty:        g.original.Difficulty,
		Phase:             DescribePhase(g.phase),
		ItemNumber:        g.itemNumber,
		TotalItems:        len(g.original.Items),
		RemainingItems:    len(g.quiz.Items),
		WarmUpRemaining:   g.warmUpRemaining,
		ItemRemaining:     g.itemRemaining,
		FeedbackRemaining: g.feedbackRemaining,
		TimeRemaining:     FormatCountdown(g.countdown(g.phase)),
		SolvedCount:       len(g.solved),
		FailedCount:       len(g.failed),
		PendingAnswers:    g.PendingAnswers(),
		Progress:          g.Progress(),
	}
	if g.current != nil {
		snap.CurrentItem = &ItemView{
			Text:     g.current.Text,
			Kind:     g.current.Answer.Kind,
			Choices:  g.current.Choices,
			Category: g.current.Category.Name,
		}
	}
	return snap
}

// countdown is the running timer of phase p. Paused shows the frozen timer
// of the phase it interrupted.
func (g *Game) countdown(p Phase) int {
	switch p.(type) {
	case WarmUp:
		return g.warmUpRemaining
	case Playing:
		return g.itemRemaining
	case Feedback:
		return g.feedbackRemaining
	case Paused:
		if g.pausedFrom != nil {
			return g.countdown(g.pausedFrom)
		}
	}
	return 0
}

// FormatCountdown renders seconds as MM:SS, or HH:MM:SS once an hour is reached
func FormatCountdown(seconds int) string {
	seconds = max(seconds, 0)
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
