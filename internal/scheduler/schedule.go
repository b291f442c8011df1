// Package scheduler computes review times for memory items and derives
// review plans from their state.
package scheduler

import (
	"time"

	"github.com/at-ishikawa/recallr/internal/curve"
	"github.com/at-ishikawa/recallr/internal/memory"
)

// NewItem creates an item that has not been reviewed yet. Its first review
// is due one ladder rung after creation.
func NewItem(id int64, content, categoryID string, difficulty memory.Difficulty, now time.Time) memory.Item {
	return memory.Item{
		ID:            id,
		Content:       content,
		CategoryID:    categoryID,
		Difficulty:    difficulty,
		RetentionRate: curve.MaxRetention,
		CreatedAt:     now,
		NextReviewAt:  now.Add(minutes(curve.FirstRung())),
		Intervals:     []memory.ReviewInterval{},
	}
}

// GenerateReviewSchedule plans one review per ladder rung, each anchored on
// the previous one starting from the item's creation time. It does not
// depend on the current time, so repeated calls give identical results.
func GenerateReviewSchedule(item memory.Item) []memory.ReviewInterval {
	schedule := make([]memory.ReviewInterval, 0, curve.LadderLen())
	anchor := item.CreatedAt
	for i := 0; i < curve.LadderLen(); i++ {
		interval := curve.Rung(i)
		anchor = anchor.Add(minutes(interval))
		schedule = append(schedule, memory.ReviewInterval{
			Interval:        interval,
			Rung:            i,
			ScheduledTime:   anchor,
			RetentionBefore: curve.Retention(float64(interval), item.Difficulty),
			RetentionAfter:  curve.MaxRetention,
		})
	}
	return schedule
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
