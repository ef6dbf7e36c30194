package quiz

import (
	"slices"

	"github.com/google/uuid"
)

// Category is a named grouping tag for quizzes
type Category struct {
	Name string `json:"name"`
}

// Built-in categories
var (
	All             = Category{Name: "All"}
	Math            = Category{Name: "Math"}
	Geography       = Category{Name: "Geography"}
	TrickyQuestions = Category{Name: "Tricky Questions"}
	Automotive      = Category{Name: "Automotive"}
	Corporate       = Category{Name: "Corporate"}
)

// Difficulty selects operand ranges and item time budgets
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"

	// DefaultItemSeconds is used when an item has no budget for the quiz difficulty
	DefaultItemSeconds = 5
)

// Valid reports whether d is one of the known difficulties
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Normal, Hard:
		return true
	}
	return false
}

// AnswerKind describes how an answer is given and checked
type AnswerKind string

const (
	Text           AnswerKind = "text"
	SingleChoice   AnswerKind = "single_choice"
	MultipleChoice AnswerKind = "multiple_choice"
)

// Answer holds the expected value(s) for an item
type Answer struct {
	Kind   AnswerKind `json:"kind"`
	Values []string   `json:"values"`
}

// ItemTime maps a difficulty to the seconds allotted for an item
type ItemTime map[Difficulty]int

// StandardTime is the budget every generated item carries
func StandardTime() ItemTime {
	return ItemTime{Easy: 5, Normal: 8, Hard: 12}
}

// Item is a single quiz question
type Item struct {
	Text     string   `json:"text"`
	Time     ItemTime `json:"time"`
	Answer   Answer   `json:"answer"`
	Category Category `json:"category"`
	Choices  []string `json:"choices,omitempty"`
}

// SecondsFor returns the budget for difficulty d, falling back to DefaultItemSeconds
func (it Item) SecondsFor(d Difficulty) int {
	if secs, ok := it.Time[d]; ok {
		return secs
	}
	return DefaultItemSeconds
}

// Equal reports structural equality by content
func (it Item) Equal(other Item) bool {
	if it.Text != other.Text || it.Category != other.Category || it.Answer.Kind != other.Answer.Kind {
		return false
	}
	if !slices.Equal(it.Answer.Values, other.Answer.Values) || !slices.Equal(it.Choices, other.Choices) {
		return false
	}
	if len(it.Time) != len(other.Time) {
		return false
	}
	for d, secs := range it.Time {
		if otherSecs, ok := other.Time[d]; !ok || otherSecs != secs {
			return false
		}
	}
	return true
}

// Quiz is an ordered set of items under a title
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Items      []Item     `json:"items"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// New creates a quiz with a fresh random identity
func New(title string, items []Item, category Category, difficulty Difficulty) *Quiz {
	return &Quiz{
		ID:         uuid.NewString(),
		Title:      title,
		Items:      items,
		Category:   category,
		Difficulty: difficulty,
	}
}

// Clone returns a copy whose item slice can be consumed without touching q.
// Items themselves are immutable and shared.
func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	c := *q
	c.Items = slices.Clone(q.Items)
	return &c
}

// Contains reports whether an equal item is present
func (q *Quiz) Contains(item Item) bool {
	return slices.ContainsFunc(q.Items, item.Equal)
}
