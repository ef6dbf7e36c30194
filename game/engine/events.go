package engine

import "github.com/wricardo/brainstress/game/quiz"

// EventType names a change in a game
type EventType string

const (
	EventTick           EventType = "tick"
	EventPhaseChanged   EventType = "phase_changed"
	EventItemLoaded     EventType = "item_loaded"
	EventItemChecked    EventType = "item_checked"
	EventAnswerBuffered EventType = "answer_buffered"
	EventEnded          EventType = "ended"
)

// Event is delivered to observers after the game state changed
type Event struct {
	Type    EventType
	Phase   Phase
	Item    *quiz.Item
	Correct bool
}

type observer struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Observers run synchronously, in subscription order, on
// the goroutine that changed the game; they must not call back into it.
func (g *Game) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	g.nextObsID++
	id := g.nextObsID
	g.observers = append(g.observers, observer{id: id, fn: fn})

	return func() {
		for i, o := range g.observers {
			if o.id == id {
				g.observers = append(g.observers[:i:i], g.observers[i+1:]...)
				return
			}
		}
	}
}

func (g *Game) emit(ev Event) {
	ev.Phase = g.phase
	for _, o := range g.observers {
		o.fn(ev)
	}
}
