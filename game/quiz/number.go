package quiz

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f in its shortest decimal form without trailing zeros
func FormatNumber(f float64) string {
	if f == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeAnswer trims and lowercases s; numeric input is rewritten in clean
// form so "4.0" and "4" compare equal.
func NormalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return FormatNumber(f)
	}
	return s
}

// AnswersMatch compares two answers case-insensitively after normalization
func AnswersMatch(given, expected string) bool {
	return NormalizeAnswer(given) == NormalizeAnswer(expected)
}
