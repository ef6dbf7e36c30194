package quiz

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Generator produces arithmetic quiz items
type Generator struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// NewGenerator creates a generator drawing from src. A nil src seeds a fresh PCG.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator creates a deterministic generator, mostly for tests and previews
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate returns count items for the given difficulty and operator.
// Unknown operators or difficulties yield no items.
func (g *Generator) Generate(count int, difficulty Difficulty, op Operator) []Item {
	iv, err := op.Interval(difficulty)
	if err != nil || count <= 0 {
		return []Item{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	items := make([]Item, 0, count)
	for range count {
		left, right := g.draw(iv), g.draw(iv)
		if op == Divide {
			// right is the divisor, left the quotient
			left = left * right
		}
		items = append(items, newMathItem(left, right, op))
	}
	return items
}

// draw picks an integer uniformly from iv, inclusive
func (g *Generator) draw(iv Interval) float64 {
	return float64(iv.Min + g.rng.IntN(iv.Max-iv.Min+1))
}

func newMathItem(left, right float64, op Operator) Item {
	return Item{
		Text:     fmt.Sprintf("%s %s %s", FormatNumber(left), op.Symbol(), FormatNumber(right)),
		Time:     StandardTime(),
		Answer:   Answer{Kind: Text, Values: []string{FormatNumber(op.Compute(left, right))}},
		Category: Math,
	}
}
