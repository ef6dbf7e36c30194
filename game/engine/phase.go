package engine

import "fmt"

// Phase is one state of a game session
type Phase interface {
	Name() string
	isPhase()
}

// WarmUp counts down before the first item is shown
type WarmUp struct{}

// Playing means an item is active and its countdown runs
type Playing struct{}

// Paused freezes every countdown until resumed
type Paused struct{}

// Feedback shows the outcome of the last checked item
type Feedback struct {
	Correct bool
}

// End is terminal
type End struct {
	Win bool
}

func (WarmUp) Name() string   { return "warm_up" }
func (Playing) Name() string  { return "playing" }
func (Paused) Name() string   { return "paused" }
func (Feedback) Name() string { return "feedback" }
func (End) Name() string      { return "end" }

func (WarmUp) isPhase()   {}
func (Playing) isPhase()  {}
func (Paused) isPhase()   {}
func (Feedback) isPhase() {}
func (End) isPhase()      {}

func (f Feedback) String() string { return fmt.Sprintf("feedback(correct=%t)", f.Correct) }
func (e End) String() string      { return fmt.Sprintf("end(win=%t)", e.Win) }

// PhaseInfo is the wire form of a Phase
type PhaseInfo struct {
	Name    string `json:"name"`
	Correct *bool  `json:"correct,omitempty"`
	Win     *bool  `json:"win,omitempty"`
}

// DescribePhase converts p to its wire form
func DescribePhase(p Phase) PhaseInfo {
	if p == nil {
		return PhaseInfo{}
	}
	info := PhaseInfo{Name: p.Name()}
	switch v := p.(type) {
	case Feedback:
		info.Correct = &v.Correct
	case End:
		info.Win = &v.Win
	}
	return info
}
