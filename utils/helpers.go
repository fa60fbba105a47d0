package utils

import (
	"fmt"
	"strconv"
)

// MaxBins caps user supplied histogram bin counts.
const MaxBins = 200

func IsValidField(field string) bool {
	switch field {
	case "frequency", "recency", "monetary":
		return true
	default:
		return false
	}
}

// ParseBins parses an optional bins query value. Empty means 0 (configured default).
func ParseBins(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > MaxBins {
		return 0, fmt.Errorf("bins must be an integer between 1 and %d", MaxBins)
	}
	return n, nil
}
