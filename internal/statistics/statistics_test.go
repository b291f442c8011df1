package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/recallr/internal/memory"
)

func TestRecomputeCategory(t *testing.T) {
	items := []memory.Item{
		{ID: 1, CategoryID: "french", RetentionRate: 100},
		{ID: 2, CategoryID: "french", RetentionRate: 60},
		{ID: 3, CategoryID: "spanish", RetentionRate: 20},
		{ID: 4, RetentionRate: 10},
	}

	tests := []struct {
		name     string
		category memory.Category
		want     memory.Category
	}{
		{
			name:     "averages recorded retention",
			category: memory.Category{ID: "french", Name: "French", Color: "#0055a4"},
			want:     memory.Category{ID: "french", Name: "French", Color: "#0055a4", ItemCount: 2, AverageRetention: 80},
		},
		{
			name:     "stale values are replaced",
			category: memory.Category{ID: "german", Name: "German", ItemCount: 9, AverageRetention: 55},
			want:     memory.Category{ID: "german", Name: "German"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecomputeCategory(tt.category, items))
		})
	}
}

func TestRecomputeCategories(t *testing.T) {
	items := []memory.Item{
		{ID: 1, CategoryID: "spanish", RetentionRate: 40},
		{ID: 2, CategoryID: "french", RetentionRate: 90},
		{ID: 3, RetentionRate: 10},
	}
	got := RecomputeCategories([]memory.Category{{ID: "french", Name: "French"}}, items)
	assert.Equal(t, []memory.Category{
		{ID: "french", Name: "French", ItemCount: 1, AverageRetention: 90},
		{ID: "spanish", Name: "spanish", ItemCount: 1, AverageRetention: 40},
	}, got)
}

func TestCalculateReviewActivity(t *testing.T) {
	at := func(month time.Month, day int) *time.Time {
		t := time.Date(2025, month, day, 9, 0, 0, 0, time.UTC)
		return &t
	}
	items := []memory.Item{
		{ID: 1, Intervals: []memory.ReviewInterval{
			{ActualTime: at(time.February, 27), Success: true},
			{ActualTime: at(time.March, 1), Success: false},
			{ActualTime: at(time.March, 2), Success: true},
			{ScheduledTime: *at(time.March, 20)},
		}},
		{ID: 2, Intervals: []memory.ReviewInterval{
			{ActualTime: at(time.March, 5), Success: true},
		}},
	}

	tests := []struct {
		name  string
		year  int
		month int
		want  ActivityResult
	}{
		{
			name: "all periods",
			want: ActivityResult{
				Periods: []ReviewActivity{
					{Period: "2025-03", Reviews: 3, Successes: 2, Failures: 1, UniqueItems: 2},
					{Period: "2025-02", Reviews: 1, Successes: 1, Failures: 0, UniqueItems: 1},
				},
				Aggregate: ReviewActivity{Reviews: 4, Successes: 3, Failures: 1, UniqueItems: 2},
			},
		},
		{
			name:  "filtered by month",
			year:  2025,
			month: 2,
			want: ActivityResult{
				Periods:   []ReviewActivity{{Period: "2025-02", Reviews: 1, Successes: 1, UniqueItems: 1}},
				Aggregate: ReviewActivity{Reviews: 1, Successes: 1, UniqueItems: 1},
			},
		},
		{
			name: "other year",
			year: 2024,
			want: ActivityResult{Periods: []ReviewActivity{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateReviewActivity(items, tt.year, tt.month))
		})
	}
}
