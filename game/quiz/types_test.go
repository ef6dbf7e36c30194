package quiz

import (
	"errors"
	"testing"
)

func sampleItem(text string) Item {
	return Item{
		Text:     text,
		Time:     StandardTime(),
		Answer:   Answer{Kind: Text, Values: []string{"2"}},
		Category: Math,
	}
}

func TestItem_Equal(t *testing.T) {
	a := sampleItem("1 + 1")
	b := sampleItem("1 + 1")

	if !a.Equal(b) {
		t.Error("Expected structurally identical items to be equal")
	}

	c := sampleItem("1 + 1")
	c.Time = ItemTime{Easy: 5}
	if a.Equal(c) {
		t.Error("Expected items with different time budgets to differ")
	}

	d := sampleItem("1 + 1")
	d.Answer.Values = []string{"3"}
	if a.Equal(d) {
		t.Error("Expected items with different answers to differ")
	}
}

func TestItem_SecondsFor(t *testing.T) {
	item := sampleItem("1 + 1")
	if got := item.SecondsFor(Hard); got != 12 {
		t.Errorf("Expected 12 seconds for hard, got %d", got)
	}

	item.Time = ItemTime{}
	if got := item.SecondsFor(Hard); got != DefaultItemSeconds {
		t.Errorf("Expected default %d seconds, got %d", DefaultItemSeconds, got)
	}
}

func TestQuiz_Clone(t *testing.T) {
	q := New("Additions", []Item{sampleItem("1 + 1"), sampleItem("2 + 2")}, Math, Easy)
	c := q.Clone()

	c.Items = c.Items[1:]
	if len(q.Items) != 2 {
		t.Errorf("Expected original to keep 2 items, got %d", len(q.Items))
	}
	if c.ID != q.ID {
		t.Error("Expected clone to keep the quiz identity")
	}
	if !q.Contains(sampleItem("2 + 2")) {
		t.Error("Expected Contains to find an equal item")
	}
	if q.ID == New("Additions", nil, Math, Easy).ID {
		t.Error("Expected fresh quizzes to get distinct IDs")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Quiz {
		return New("Capitals", []Item{{
			Text:     "Capital of France?",
			Time:     ItemTime{Easy: 10},
			Answer:   Answer{Kind: SingleChoice, Values: []string{"Paris"}},
			Category: Geography,
			Choices:  []string{"Berlin", "Paris", "Rome"},
		}}, Geography, Easy)
	}

	if err := Validate(valid()); err != nil {
		t.Fatalf("Expected valid quiz, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(q *Quiz)
	}{
		{"missing title", func(q *Quiz) { q.Title = "" }},
		{"missing id", func(q *Quiz) { q.ID = "" }},
		{"bad difficulty", func(q *Quiz) { q.Difficulty = "extreme" }},
		{"no items", func(q *Quiz) { q.Items = nil }},
		{"no answer", func(q *Quiz) { q.Items[0].Answer.Values = nil }},
		{"answer not a choice", func(q *Quiz) { q.Items[0].Answer.Values = []string{"Madrid"} }},
		{"too few choices", func(q *Quiz) { q.Items[0].Choices = []string{"Paris"} }},
		{"non-positive time", func(q *Quiz) { q.Items[0].Time = ItemTime{Easy: 0} }},
		{"unknown kind", func(q *Quiz) { q.Items[0].Answer.Kind = "essay" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid()
			tt.mutate(q)
			err := Validate(q)
			if !errors.Is(err, ErrInvalidQuiz) {
				t.Errorf("Expected ErrInvalidQuiz, got %v", err)
			}
		})
	}

	if err := Validate(nil); !errors.Is(err, ErrInvalidQuiz) {
		t.Errorf("Expected ErrInvalidQuiz for nil quiz, got %v", err)
	}
}
