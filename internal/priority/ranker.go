// Package priority identifies forgotten content and ranks items by review urgency.
package priority

import (
	"math"
	"sort"
	"time"

	"github.com/at-ishikawa/recallr/internal/curve"
	"github.com/at-ishikawa/recallr/internal/memory"
)

// maxReviewBonus is the review count at which under-review bonus runs out.
const maxReviewBonus = 5

// DifficultyWeight scales scores so harder content ranks higher.
func DifficultyWeight(d memory.Difficulty) float64 {
	switch d {
	case memory.DifficultyEasy:
		return 1.0
	case memory.DifficultyHard:
		return 2.0
	default:
		return 1.5
	}
}

// Score combines overdue time, lost retention, difficulty and review count.
func Score(overdueHours, currentRetention float64, d memory.Difficulty, reviewCount int) float64 {
	overdueHours = math.Max(0, overdueHours)
	score := overdueHours*2 + (curve.MaxRetention-currentRetention)*0.5
	score *= DifficultyWeight(d)
	reviews := reviewCount
	if reviews > maxReviewBonus {
		reviews = maxReviewBonus
	}
	if reviews < 0 {
		reviews = 0
	}
	return score + float64(maxReviewBonus-reviews)*10
}

// Ranked pairs an item with its priority score.
type Ranked struct {
	Item             memory.Item
	Score            float64
	CurrentRetention float64
	OverdueHours     float64
}

// Ranker evaluates items against the current time.
type Ranker struct {
	clock memory.Clock
}

// NewRanker creates a Ranker. A nil clock uses the system clock.
func NewRanker(clock memory.Clock) *Ranker {
	if clock == nil {
		clock = memory.SystemClock
	}
	return &Ranker{clock: clock}
}

// IdentifyForgottenContent returns items that are due or whose predicted
// retention has fallen below the forgotten threshold.
func (r *Ranker) IdentifyForgottenContent(items []memory.Item) []memory.Item {
	now := r.clock.Now()
	forgotten := []memory.Item{}
	for _, item := range items {
		if item.IsDue(now) || curve.IsForgotten(curve.CurrentRetention(item, now)) {
			forgotten = append(forgotten, item)
		}
	}
	return forgotten
}

// Rank scores every item and orders them by descending score, ties by ID.
func (r *Ranker) Rank(items []memory.Item) []Ranked {
	now := r.clock.Now()
	ranked := make([]Ranked, 0, len(items))
	for _, item := range items {
		retention := curve.CurrentRetention(item, now)
		overdue := math.Max(0, now.Sub(item.NextReviewAt).Hours())
		ranked = append(ranked, Ranked{
			Item:             item,
			Score:            Score(overdue, retention, item.Difficulty, item.ReviewCount),
			CurrentRetention: retention,
			OverdueHours:     overdue,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Item.ID < ranked[j].Item.ID
	})
	return ranked
}

// SortByPriority returns the items ordered from most to least urgent.
func (r *Ranker) SortByPriority(items []memory.Item) []memory.Item {
	ranked := r.Rank(items)
	sorted := make([]memory.Item, 0, len(ranked))
	for _, entry := range ranked {
		sorted = append(sorted, entry.Item)
	}
	return sorted
}

// GetTodayReviews returns items due at any time today, in due order.
func (r *Ranker) GetTodayReviews(items []memory.Item) []memory.Item {
	start := memory.StartOfDay(r.clock.Now())
	end := start.AddDate(0, 0, 1)
	today := []memory.Item{}
	for _, item := range items {
		if !item.NextReviewAt.Before(start) && item.NextReviewAt.Before(end) {
			today = append(today, item)
		}
	}
	sort.SliceStable(today, func(i, j int) bool {
		return today[i].NextReviewAt.Before(today[j].NextReviewAt)
	})
	return today
}

// WeeklyStats summarizes items created during the trailing seven days.
type WeeklyStats struct {
	Learned          int
	Reviewed         int
	AverageRetention float64
	Forgotten        int
}

const weekWindow = 7 * 24 * time.Hour

// GetWeeklyStats reports on items created in the last week. Forgotten uses
// the retention predicted now rather than the recorded rate.
func (r *Ranker) GetWeeklyStats(items []memory.Item) WeeklyStats {
	now := r.clock.Now()
	since := now.Add(-weekWindow)
	var stats WeeklyStats
	var total float64
	for _, item := range items {
		if item.CreatedAt.Before(since) || item.CreatedAt.After(now) {
			continue
		}
		stats.Learned++
		if item.ReviewCount > 0 {
			stats.Reviewed++
		}
		total += item.RetentionRate
		if curve.IsForgotten(curve.CurrentRetention(item, now)) {
			stats.Forgotten++
		}
	}
	if stats.Learned > 0 {
		stats.AverageRetention = total / float64(stats.Learned)
	}
	return stats
}
