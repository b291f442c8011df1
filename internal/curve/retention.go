// Package curve holds the closed-form forgetting-curve model, the standard
// interval ladder and the performance-based interval adjustment.
package curve

import (
	"math"
	"time"

	"github.com/at-ishikawa/recallr/internal/memory"
)

const (
	// BaseStrength is the memory strength, in hours, of medium content.
	// It is calibrated so the medium curve crosses ForgottenThreshold just
	// before 20 minutes while the easy curve is still above it.
	BaseStrength = 0.38

	// ForgottenThreshold is the retention percentage below which content counts as forgotten.
	ForgottenThreshold = 41.8

	MaxRetention = 100.0
	MinRetention = 0.0
)

// DifficultyMultiplier scales BaseStrength. Unknown values count as medium.
func DifficultyMultiplier(d memory.Difficulty) float64 {
	switch d {
	case memory.DifficultyEasy:
		return 1.2
	case memory.DifficultyHard:
		return 0.8
	default:
		return 1.0
	}
}

// Strength returns the memory strength in hours for the difficulty.
func Strength(d memory.Difficulty) float64 {
	return BaseStrength * DifficultyMultiplier(d)
}

// Retention predicts the retained percentage after elapsedMinutes.
// Negative elapsed time is clamped to zero.
func Retention(elapsedMinutes float64, d memory.Difficulty) float64 {
	if elapsedMinutes < 0 || math.IsNaN(elapsedMinutes) {
		elapsedMinutes = 0
	}
	r := MaxRetention * math.Exp(-elapsedMinutes/(Strength(d)*60))
	return ClampRetention(r)
}

// RetentionBetween predicts retention at `at` for content last reinforced at `anchor`.
func RetentionBetween(anchor, at time.Time, d memory.Difficulty) float64 {
	return Retention(at.Sub(anchor).Minutes(), d)
}

// CurrentRetention predicts the item's retention at now.
func CurrentRetention(item memory.Item, now time.Time) float64 {
	return RetentionBetween(item.Anchor(), now, item.Difficulty)
}

// IsForgotten reports whether the retention percentage is below ForgottenThreshold.
func IsForgotten(retention float64) bool {
	return retention < ForgottenThreshold
}

// ClampRetention bounds a percentage to [0, 100].
func ClampRetention(r float64) float64 {
	return math.Min(math.Max(r, MinRetention), MaxRetention)
}
