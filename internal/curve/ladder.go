package curve

import "math"

// standardIntervals are in minutes: 20m, 1h, 9h, 1d, 2d, 6d, 31d.
var standardIntervals = [...]int{20, 60, 540, 1440, 2880, 8640, 44640}

// MaxIntervalMinutes bounds the geometric extension past the last rung (100 years).
const MaxIntervalMinutes = 36500 * 24 * 60

// StandardIntervals returns a copy of the ladder.
func StandardIntervals() []int {
	out := make([]int, len(standardIntervals))
	copy(out, standardIntervals[:])
	return out
}

// LadderLen is the number of standard rungs.
func LadderLen() int {
	return len(standardIntervals)
}

// FirstRung is the interval used before any successful review.
func FirstRung() int {
	return standardIntervals[0]
}

// Rung returns the interval in minutes at index. Indexes past the last rung
// double the previous one; negative indexes return the first rung.
func Rung(index int) int {
	if index < 0 {
		return standardIntervals[0]
	}
	last := len(standardIntervals) - 1
	if index <= last {
		return standardIntervals[index]
	}
	minutes := float64(standardIntervals[last]) * math.Pow(2, float64(index-last))
	if minutes > MaxIntervalMinutes {
		return MaxIntervalMinutes
	}
	return int(minutes)
}

// NextRung returns the index following lastCompleted. A negative
// lastCompleted means nothing has been completed yet.
func NextRung(lastCompleted int) int {
	if lastCompleted < 0 {
		return 0
	}
	return lastCompleted + 1
}

// NearestRung maps an interval in minutes to the closest ladder index,
// including the doubled extension past the last rung. Distance is measured
// on a log scale, so 30 minutes maps to 20 and 45 minutes maps to 60.
func NearestRung(minutes int) int {
	if minutes <= standardIntervals[0] {
		return 0
	}
	best := 0
	bestDistance := math.Inf(1)
	for i := 0; ; i++ {
		r := Rung(i)
		distance := math.Abs(math.Log(float64(minutes)) - math.Log(float64(r)))
		if distance < bestDistance {
			best, bestDistance = i, distance
		}
		if r >= minutes || r >= MaxIntervalMinutes {
			break
		}
	}
	return best
}
