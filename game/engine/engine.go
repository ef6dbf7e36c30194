package engine

import (
	"slices"

	"github.com/wricardo/brainstress/game/quiz"
)

// DefaultWarmUpSeconds is the warm-up countdown when none is configured
const DefaultWarmUpSeconds = 3

// Recorder receives the outcome of a finished session. Calls are fire-and-forget.
type Recorder interface {
	IncrementWin(quizID string)
	IncrementFail(quizID string)
}

// Outcome classifies an original item
type Outcome string

const (
	Queued Outcome = "queued"
	Active Outcome = "active"
	Solved Outcome = "solved"
	Failed Outcome = "failed"
)

// Option configures a Game
type Option func(*Game)

// WithWarmUp sets the warm-up countdown in ticks
func WithWarmUp(seconds int) Option {
	return func(g *Game) {
		g.warmUpRemaining = max(seconds, 0)
	}
}

// WithFeedback enables the feedback phase for the given number of ticks.
// Zero disables it and items advance immediately after being checked.
func WithFeedback(seconds int) Option {
	return func(g *Game) {
		g.feedbackSeconds = max(seconds, 0)
	}
}

// WithRecorder sets the collaborator told about the final outcome
func WithRecorder(r Recorder) Option {
	return func(g *Game) {
		g.recorder = r
	}
}

// Game drives one attempt at a quiz
type Game struct {
	original *quiz.Quiz
	quiz     *quiz.Quiz

	current    *quiz.Item
	itemNumber int
	outcomes   []Outcome
	solved     []quiz.Item
	failed     []quiz.Item
	answers    []string

	phase      Phase
	pausedFrom Phase

	warmUpRemaining   int
	itemRemaining     int
	feedbackRemaining int
	feedbackSeconds   int

	recorder  Recorder
	observers []observer
	nextObsID int
}

// NewGame creates a game in the warm-up phase. The quiz is cloned twice, so
// the caller's copy is never mutated.
func NewGame(q *quiz.Quiz, opts ...Option) *Game {
	if q == nil {
		q = &quiz.Quiz{}
	}
	g := &Game{
		original:        q.Clone(),
		quiz:            q.Clone(),
		outcomes:        make([]Outcome, len(q.Items)),
		solved:          []quiz.Item{},
		failed:          []quiz.Item{},
		answers:         []string{},
		phase:           WarmUp{},
		warmUpRemaining: DefaultWarmUpSeconds,
	}
	for i := range g.outcomes {
		g.outcomes[i] = Queued
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tick advances the game by one time unit
func (g *Game) Tick() {
	switch g.phase.(type) {
	case WarmUp:
		if g.warmUpRemaining > 0 {
			g.warmUpRemaining--
			g.emit(Event{Type: EventTick})
			return
		}
		g.StartQuiz()
	case Playing:
		if g.itemRemaining > 0 {
			g.itemRemaining--
			g.emit(Event{Type: EventTick})
			return
		}
		// timed out
		g.finishItem()
	case Feedback:
		if g.feedbackRemaining > 0 {
			g.feedbackRemaining--
			g.emit(Event{Type: EventTick})
			return
		}
		g.loadNextItem()
	case Paused, End:
	}
}

// StartQuiz leaves warm-up and presents the first item, or ends an empty quiz
func (g *Game) StartQuiz() {
	if _, ok := g.phase.(WarmUp); !ok {
		return
	}
	g.warmUpRemaining = 0
	g.loadNextItem()
}

// SubmitAnswer buffers value for the active item. Text and single choice
// items are checked at once; multiple choice items wait for Complete.
func (g *Game) SubmitAnswer(value string) {
	if _, ok := g.phase.(Playing); !ok || g.current == nil {
		return
	}

	switch g.current.Answer.Kind {
	case quiz.MultipleChoice:
		if slices.ContainsFunc(g.answers, func(a string) bool { return quiz.AnswersMatch(a, value) }) {
			return
		}
		g.answers = append(g.answers, value)
		g.emit(Event{Type: EventAnswerBuffered, Item: g.current})
	default:
		g.answers = append(g.answers, value)
		g.finishItem()
	}
}

// Complete finalizes the active item with whatever answers are buffered
func (g *Game) Complete() {
	if _, ok := g.phase.(Playing); !ok || g.current == nil {
		return
	}
	g.finishItem()
}

// Pause freezes the countdowns. Only warm-up, playing and feedback can pause.
func (g *Game) Pause() {
	switch g.phase.(type) {
	case WarmUp, Playing, Feedback:
		g.pausedFrom = g.phase
		g.setPhase(Paused{})
	}
}

// Resume returns to the phase that was paused with its countdown intact
func (g *Game) Resume() {
	if _, ok := g.phase.(Paused); !ok || g.pausedFrom == nil {
		return
	}
	from := g.pausedFrom
	g.pausedFrom = nil
	g.setPhase(from)
}

// End scores the session and moves to the terminal phase.
// Calling it again has no effect.
func (g *Game) End() {
	if _, ok := g.phase.(End); ok {
		return
	}

	win := len(g.solved) == len(g.original.Items)
	if g.recorder != nil {
		if win {
			g.recorder.IncrementWin(g.original.ID)
		} else {
			g.recorder.IncrementFail(g.original.ID)
		}
	}

	g.current = nil
	g.pausedFrom = nil
	g.setPhase(End{Win: win})
	g.emit(Event{Type: EventEnded})
}

// finishItem runs check, remove and then advances
func (g *Game) finishItem() {
	correct, ok := g.checkItem()
	if !ok {
		g.loadNextItem()
		return
	}
	g.removeItem()
	if g.feedbackSeconds > 0 {
		g.feedbackRemaining = g.feedbackSeconds
		g.setPhase(Feedback{Correct: correct})
		return
	}
	g.loadNextItem()
}

// checkItem classifies the active item as solved or failed and clears the
// answer buffer. ok is false when there is no active item.
func (g *Game) checkItem() (correct bool, ok bool) {
	if g.current == nil {
		return false, false
	}
	item := *g.current

	switch item.Answer.Kind {
	case quiz.MultipleChoice:
		correct = sameAnswerSet(g.answers, item.Answer.Values)
	default:
		correct = len(g.answers) > 0 && len(item.Answer.Values) > 0 &&
			quiz.AnswersMatch(g.answers[0], item.Answer.Values[0])
	}

	idx := g.currentIndex()
	if correct {
		g.solved = append(g.solved, item)
		g.setOutcome(idx, Solved)
	} else {
		g.failed = append(g.failed, item)
		g.setOutcome(idx, Failed)
	}
	g.answers = g.answers[:0]
	g.current = nil

	g.emit(Event{Type: EventItemChecked, Item: &item, Correct: correct})
	return correct, true
}

// removeItem pops the front of the working quiz
func (g *Game) removeItem() {
	if len(g.quiz.Items) == 0 {
		return
	}
	g.quiz.Items = g.quiz.Items[1:]
}

// loadNextItem presents the front of the working quiz or ends the game
func (g *Game) loadNextItem() {
	if len(g.quiz.Items) == 0 {
		g.End()
		return
	}

	item := g.quiz.Items[0]
	g.current = &item
	g.itemRemaining = item.SecondsFor(g.quiz.Difficulty)
	g.itemNumber++
	g.setOutcome(g.currentIndex(), Active)
	g.setPhase(Playing{})
	g.emit(Event{Type: EventItemLoaded, Item: g.current})
}

// currentIndex is the position of the front working item in the original
// quiz. It relies on the working items being a suffix of the original ones.
func (g *Game) currentIndex() int {
	return len(g.original.Items) - len(g.quiz.Items)
}

func (g *Game) setOutcome(idx int, o Outcome) {
	if idx >= 0 && idx < len(g.outcomes) {
		g.outcomes[idx] = o
	}
}

func (g *Game) setPhase(p Phase) {
	g.phase = p
	g.emit(Event{Type: EventPhaseChanged})
}

func sameAnswerSet(given, expected []string) bool {
	norm := func(values []string) []string {
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, quiz.NormalizeAnswer(v))
		}
		slices.Sort(out)
		return slices.Compact(out)
	}
	g, e := norm(given), norm(expected)
	return len(e) > 0 && slices.Equal(g, e)
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Quiz returns the untouched quiz used for scoring
func (g *Game) Quiz() *quiz.Quiz {
	return g.original
}

// CurrentItem returns the active item, or nil
func (g *Game) CurrentItem() *quiz.Item {
	return g.current
}

// ItemNumber is the 1-based number of the most recently loaded item
func (g *Game) ItemNumber() int {
	return g.itemNumber
}

// RemainingItems counts the items still in the working quiz, the active one included
func (g *Game) RemainingItems() int {
	return len(g.quiz.Items)
}

// Solved returns the solved items in order
func (g *Game) Solved() []quiz.Item {
	return slices.Clone(g.solved)
}

// Failed returns the failed items in order
func (g *Game) Failed() []quiz.Item {
	return slices.Clone(g.failed)
}

// PendingAnswers returns the buffered answers for the active item
func (g *Game) PendingAnswers() []string {
	return slices.Clone(g.answers)
}

// WarmUpRemaining returns the warm-up countdown
func (g *Game) WarmUpRemaining() int {
	return g.warmUpRemaining
}

// ItemRemaining returns the active item countdown
func (g *Game) ItemRemaining() int {
	return g.itemRemaining
}

// FeedbackRemaining returns the feedback countdown
func (g *Game) FeedbackRemaining() int {
	return g.feedbackRemaining
}

// IsOver reports whether the terminal phase was reached
func (g *Game) IsOver() bool {
	_, ok := g.phase.(End)
	return ok
}

// IsActive reports whether original item n is the one being played
func (g *Game) IsActive(n int) bool {
	return g.outcomeAt(n) == Active && g.current != nil
}

// IsSolved reports whether original item n was answered correctly
func (g *Game) IsSolved(n int) bool {
	return g.outcomeAt(n) == Solved
}

// IsFailed reports whether original item n was failed
func (g *Game) IsFailed(n int) bool {
	return g.outcomeAt(n) == Failed
}

// InQueue reports whether original item n is still in the working quiz
func (g *Game) InQueue(n int) bool {
	return n >= g.currentIndex() && n < len(g.original.Items)
}

// Progress returns the outcome of every original item in order
func (g *Game) Progress() []Outcome {
	return slices.Clone(g.outcomes)
}

func (g *Game) outcomeAt(n int) Outcome {
	if n < 0 || n >= len(g.outcomes) {
		return ""
	}
	return g.outcomes[n]
}
