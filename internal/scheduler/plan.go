package scheduler

import (
	"sort"
	"time"

	"github.com/at-ishikawa/recallr/internal/curve"
	"github.com/at-ishikawa/recallr/internal/memory"
)

const (
	// PlanBucket groups items due at practically the same time so the weaker one goes first.
	PlanBucket = time.Minute

	UrgentWindow    = 60 * time.Minute
	UrgentRetention = 50.0
)

// GenerateDailyPlan selects up to maxItemsPerDay items due between now and
// the end of today, topped up with the soonest items due after today.
func (s *Scheduler) GenerateDailyPlan(items []memory.Item, maxItemsPerDay int) []memory.Item {
	if maxItemsPerDay <= 0 {
		return []memory.Item{}
	}
	now := s.clock.Now()
	tomorrow := memory.StartOfDay(now).AddDate(0, 0, 1)

	var today, later []memory.Item
	for _, item := range items {
		switch {
		case item.NextReviewAt.Before(now):
			continue
		case item.NextReviewAt.Before(tomorrow):
			today = append(today, item)
		default:
			later = append(later, item)
		}
	}
	sortByNextReview(today)

	plan := today
	if len(plan) < maxItemsPerDay {
		sortByNextReview(later)
		remaining := maxItemsPerDay - len(plan)
		if remaining > len(later) {
			remaining = len(later)
		}
		plan = append(plan, later[:remaining]...)
	}
	if len(plan) > maxItemsPerDay {
		plan = plan[:maxItemsPerDay]
	}

	sort.SliceStable(plan, func(i, j int) bool {
		return planLess(plan[i], plan[j])
	})
	if plan == nil {
		return []memory.Item{}
	}
	return plan
}

// planLess orders by due time, except that items in the same PlanBucket put
// the lower retention rate first.
func planLess(a, b memory.Item) bool {
	bucketA, bucketB := a.NextReviewAt.Truncate(PlanBucket), b.NextReviewAt.Truncate(PlanBucket)
	if bucketA.Equal(bucketB) {
		if a.RetentionRate != b.RetentionRate {
			return a.RetentionRate < b.RetentionRate
		}
	}
	if !a.NextReviewAt.Equal(b.NextReviewAt) {
		return a.NextReviewAt.Before(b.NextReviewAt)
	}
	return a.ID < b.ID
}

// GetUrgentReviews returns items due within UrgentWindow whose retention rate
// is below UrgentRetention, soonest first.
func (s *Scheduler) GetUrgentReviews(items []memory.Item) []memory.Item {
	deadline := s.clock.Now().Add(UrgentWindow)
	urgent := []memory.Item{}
	for _, item := range items {
		if !item.NextReviewAt.After(deadline) && item.RetentionRate < UrgentRetention {
			urgent = append(urgent, item)
		}
	}
	sortByNextReview(urgent)
	return urgent
}

// DailyRetention is the predicted average retention on one future day.
type DailyRetention struct {
	Date             time.Time
	AverageRetention float64
	Items            int // items with a positive prediction
}

// PredictLongTermRetention predicts, for each of the next daysAhead days at
// the current time of day, the average retention over items whose
// prediction is still positive.
func (s *Scheduler) PredictLongTermRetention(items []memory.Item, daysAhead int) []DailyRetention {
	if daysAhead <= 0 {
		return []DailyRetention{}
	}
	now := s.clock.Now()
	series := make([]DailyRetention, 0, daysAhead)
	for day := 1; day <= daysAhead; day++ {
		at := now.AddDate(0, 0, day)
		var total float64
		var count int
		for _, item := range items {
			r := curve.RetentionBetween(item.Anchor(), at, item.Difficulty)
			if r <= 0 {
				continue
			}
			total += r
			count++
		}
		point := DailyRetention{Date: at, Items: count}
		if count > 0 {
			point.AverageRetention = total / float64(count)
		}
		series = append(series, point)
	}
	return series
}

func sortByNextReview(items []memory.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].NextReviewAt.Equal(items[j].NextReviewAt) {
			return items[i].NextReviewAt.Before(items[j].NextReviewAt)
		}
		return items[i].ID < items[j].ID
	})
}
