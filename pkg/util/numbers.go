package util

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimal parses a vendor-formatted number, tolerating thousands
// separators, percent signs, and surrounding whitespace.
// Returns (0, false) for empty or unparseable input.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Round2 rounds v to two decimal places for display values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsFinite reports whether v is a usable price value.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
