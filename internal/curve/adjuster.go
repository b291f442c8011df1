package curve

import (
	"math"

	"github.com/at-ishikawa/recallr/internal/memory"
)

const (
	MinAdjustment = 0.5
	MaxAdjustment = 2.0
)

// Adjust returns the interval multiplier for a success rate in [0, 1].
// Performance and difficulty factors combine multiplicatively.
func Adjust(successRate float64, d memory.Difficulty) float64 {
	var multiplier float64
	switch {
	case successRate >= 0.95:
		multiplier = 1.3
	case successRate >= 0.85:
		multiplier = 1.1
	case successRate <= 0.50:
		multiplier = 0.7
	case successRate <= 0.65:
		multiplier = 0.8
	default:
		multiplier = 1.0
	}

	switch d {
	case memory.DifficultyEasy:
		multiplier *= 1.1
	case memory.DifficultyHard:
		multiplier *= 0.9
	}

	return math.Min(math.Max(multiplier, MinAdjustment), MaxAdjustment)
}
