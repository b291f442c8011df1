package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recallr/internal/memory"
)

func itemIDs(items []memory.Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestScheduler_GenerateDailyPlan(t *testing.T) {
	due := func(id int64, in time.Duration, retention float64) memory.Item {
		return memory.Item{ID: id, Difficulty: memory.DifficultyMedium, RetentionRate: retention, CreatedAt: testNow.Add(-24 * time.Hour), NextReviewAt: testNow.Add(in)}
	}

	tests := []struct {
		name    string
		items   []memory.Item
		max     int
		wantIDs []int64
	}{
		{
			name:    "weaker item first within the same minute",
			items:   []memory.Item{due(2, 5*time.Minute, 80), due(1, 5*time.Minute, 30)},
			max:     10,
			wantIDs: []int64{1, 2},
		},
		{
			name:    "different minutes keep due order",
			items:   []memory.Item{due(1, 2*time.Hour, 10), due(2, 5*time.Minute, 90)},
			max:     10,
			wantIDs: []int64{2, 1},
		},
		{
			name:    "overdue items are not part of the plan",
			items:   []memory.Item{due(1, -time.Minute, 10), due(2, time.Hour, 50)},
			max:     10,
			wantIDs: []int64{2},
		},
		{
			name: "fills with the soonest items after today",
			items: []memory.Item{
				due(1, 72*time.Hour, 50),
				due(2, time.Hour, 50),
				due(3, 20*time.Hour, 50),
				due(4, 40*time.Hour, 50),
			},
			max:     3,
			wantIDs: []int64{2, 3, 4},
		},
		{
			name: "truncates today's items to the soonest",
			items: []memory.Item{
				due(1, 3*time.Hour, 90),
				due(2, time.Hour, 90),
				due(3, 2*time.Hour, 10),
			},
			max:     2,
			wantIDs: []int64{2, 3},
		},
		{
			name:    "zero capacity",
			items:   []memory.Item{due(1, time.Hour, 50)},
			max:     0,
			wantIDs: []int64{},
		},
		{
			name:    "no items",
			items:   nil,
			max:     5,
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(fixedClock(testNow))
			got := s.GenerateDailyPlan(tt.items, tt.max)
			assert.LessOrEqual(t, len(got), tt.max)
			assert.Equal(t, tt.wantIDs, itemIDs(got))
			for i := 1; i < len(got); i++ {
				assert.False(t, planLess(got[i], got[i-1]), "plan must be ordered")
			}
		})
	}
}

func TestScheduler_GetUrgentReviews(t *testing.T) {
	items := []memory.Item{
		{ID: 1, RetentionRate: 40, NextReviewAt: testNow.Add(30 * time.Minute)},
		{ID: 2, RetentionRate: 60, NextReviewAt: testNow.Add(10 * time.Minute)},
		{ID: 3, RetentionRate: 10, NextReviewAt: testNow.Add(-2 * time.Hour)},
		{ID: 4, RetentionRate: 10, NextReviewAt: testNow.Add(61 * time.Minute)},
		{ID: 5, RetentionRate: 49.9, NextReviewAt: testNow.Add(60 * time.Minute)},
	}

	s := New(fixedClock(testNow))
	assert.Equal(t, []int64{3, 1, 5}, itemIDs(s.GetUrgentReviews(items)))
	assert.Empty(t, s.GetUrgentReviews(nil))
}

func TestScheduler_PredictLongTermRetention(t *testing.T) {
	reviewed := testNow.Add(-time.Hour)
	items := []memory.Item{
		{ID: 1, Difficulty: memory.DifficultyEasy, CreatedAt: testNow.Add(-48 * time.Hour), LastReviewedAt: &reviewed},
		{ID: 2, Difficulty: memory.DifficultyMedium, CreatedAt: testNow},
	}

	s := New(fixedClock(testNow))
	got := s.PredictLongTermRetention(items, 5)
	require.Len(t, got, 5)
	for i, point := range got {
		assert.Equal(t, testNow.AddDate(0, 0, i+1), point.Date)
		assert.GreaterOrEqual(t, point.AverageRetention, 0.0)
		assert.LessOrEqual(t, point.AverageRetention, 100.0)
		if i > 0 {
			assert.LessOrEqual(t, point.AverageRetention, got[i-1].AverageRetention)
		}
	}

	empty := s.PredictLongTermRetention(nil, 3)
	require.Len(t, empty, 3)
	assert.Equal(t, 0.0, empty[0].AverageRetention)
	assert.Equal(t, 0, empty[0].Items)

	assert.Empty(t, s.PredictLongTermRetention(items, 0))
}
