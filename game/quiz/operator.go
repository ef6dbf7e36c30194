package quiz

import (
	"fmt"
	"math"
)

// Operator combines two operands into an item answer
type Operator string

const (
	Add      Operator = "add"
	Subtract Operator = "subtract"
	Multiply Operator = "multiply"
	Divide   Operator = "divide"
)

// Interval is an inclusive integer range operands are drawn from
type Interval struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within the interval
func (iv Interval) Contains(v float64) bool {
	return v >= float64(iv.Min) && v <= float64(iv.Max)
}

// operatorIntervals holds the operand ranges per operator and difficulty.
// For Divide the range applies to the divisor and the quotient; the dividend
// is their product so results stay whole.
var operatorIntervals = map[Operator]map[Difficulty]Interval{
	Add: {
		Easy:   {Min: 1, Max: 10},
		Normal: {Min: 10, Max: 50},
		Hard:   {Min: 50, Max: 200},
	},
	Subtract: {
		Easy:   {Min: 1, Max: 10},
		Normal: {Min: 10, Max: 50},
		Hard:   {Min: 50, Max: 200},
	},
	Multiply: {
		Easy:   {Min: 1, Max: 5},
		Normal: {Min: 2, Max: 12},
		Hard:   {Min: 6, Max: 25},
	},
	Divide: {
		Easy:   {Min: 1, Max: 5},
		Normal: {Min: 2, Max: 12},
		Hard:   {Min: 6, Max: 25},
	},
}

// Operators lists every supported operator
func Operators() []Operator {
	return []Operator{Add, Subtract, Multiply, Divide}
}

// Valid reports whether op is supported
func (op Operator) Valid() bool {
	_, ok := operatorIntervals[op]
	return ok
}

// Interval returns the operand range for difficulty d
func (op Operator) Interval(d Difficulty) (Interval, error) {
	byDifficulty, ok := operatorIntervals[op]
	if !ok {
		return Interval{}, fmt.Errorf("unknown operator %q", op)
	}
	iv, ok := byDifficulty[d]
	if !ok {
		return Interval{}, fmt.Errorf("unknown difficulty %q", d)
	}
	return iv, nil
}

// Symbol returns the display symbol
func (op Operator) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return "?"
	}
}

// Compute applies the operator; division by zero yields NaN
func (op Operator) Compute(left, right float64) float64 {
	switch op {
	case Add:
		return left + right
	case Subtract:
		return left - right
	case Multiply:
		return left * right
	case Divide:
		if right == 0 {
			return math.NaN()
		}
		return left / right
	default:
		return math.NaN()
	}
}
