package quiz

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidQuiz is wrapped by every validation failure
var ErrInvalidQuiz = errors.New("invalid quiz")

// Validate checks a quiz for structural correctness and playability
func Validate(q *Quiz) error {
	if q == nil {
		return fmt.Errorf("%w: quiz is nil", ErrInvalidQuiz)
	}
	if q.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidQuiz)
	}
	if q.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidQuiz)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidQuiz, q.Difficulty)
	}
	if len(q.Items) == 0 {
		return fmt.Errorf("%w: quiz %s has no items", ErrInvalidQuiz, q.ID)
	}

	for i, item := range q.Items {
		if err := validateItem(item); err != nil {
			return fmt.Errorf("%w: item %d (%q): %v", ErrInvalidQuiz, i+1, item.Text, err)
		}
	}
	return nil
}

func validateItem(item Item) error {
	if item.Text == "" {
		return errors.New("text is required")
	}
	if len(item.Answer.Values) == 0 {
		return errors.New("at least one answer is required")
	}
	for d, secs := range item.Time {
		if secs <= 0 {
			return fmt.Errorf("time for %s must be positive, got %d", d, secs)
		}
	}

	switch item.Answer.Kind {
	case Text:
	case SingleChoice, MultipleChoice:
		if len(item.Choices) < 2 {
			return errors.New("choice items need at least two choices")
		}
		if item.Answer.Kind == SingleChoice && len(item.Answer.Values) != 1 {
			return errors.New("single choice items take exactly one answer")
		}
		for _, v := range item.Answer.Values {
			if !slices.ContainsFunc(item.Choices, func(c string) bool { return AnswersMatch(c, v) }) {
				return fmt.Errorf("answer %q is not among the choices", v)
			}
		}
	default:
		return fmt.Errorf("unknown answer kind %q", item.Answer.Kind)
	}
	return nil
}
