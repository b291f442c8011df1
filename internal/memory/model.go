// Package memory provides the memorized-content domain model and the storage contract for it.
package memory

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrItemNotFound      = errors.New("memory: item not found")
	ErrInvalidDifficulty = errors.New("memory: invalid difficulty")
	// ErrStaleItem rejects a save whose history is shorter than the stored one.
	ErrStaleItem         = errors.New("memory: item history is older than stored")
)

// Difficulty is fixed when an item is created and never recomputed.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty validates user input. The scheduling code itself treats
// unknown values as medium.
func ParseDifficulty(value string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range AllDifficulties {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, value)
}

// Item is the unit of learning content.
type Item struct {
	ID             int64            `yaml:"id"`
	Content        string           `yaml:"content"`
	CategoryID     string           `yaml:"category_id,omitempty"`
	Difficulty     Difficulty       `yaml:"difficulty"`
	RetentionRate  float64          `yaml:"retention_rate"` // percentage, 0-100
	ReviewCount    int              `yaml:"review_count"`
	CreatedAt      time.Time        `yaml:"created_at"`
	LastReviewedAt *time.Time       `yaml:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time        `yaml:"next_review_at"`
	Intervals      []ReviewInterval `yaml:"intervals,omitempty"`
}

// ReviewInterval is one planned or attempted review. Entries are only ever appended.
type ReviewInterval struct {
	Interval        int        `yaml:"interval"` // minutes since the preceding anchor
	Rung            int        `yaml:"rung"`     // ladder index nearest to Interval; informational only
	ScheduledTime   time.Time  `yaml:"scheduled_time"`
	ActualTime      *time.Time `yaml:"actual_time,omitempty"`
	Success         bool       `yaml:"success"`
	RetentionBefore float64    `yaml:"retention_before"`
	RetentionAfter  float64    `yaml:"retention_after"`
}

// Attempted reports whether the review actually happened.
func (ri ReviewInterval) Attempted() bool {
	return ri.ActualTime != nil
}

// Anchor returns the time the retention curve is measured from.
func (item Item) Anchor() time.Time {
	if item.LastReviewedAt != nil {
		return *item.LastReviewedAt
	}
	return item.CreatedAt
}

// IsDue reports whether the next review time has been reached.
func (item Item) IsDue(now time.Time) bool {
	return !item.NextReviewAt.After(now)
}

// LastAttempt returns the most recent interval with an actual review time, or nil.
func (item Item) LastAttempt() *ReviewInterval {
	for i := len(item.Intervals) - 1; i >= 0; i-- {
		if item.Intervals[i].Attempted() {
			return &item.Intervals[i]
		}
	}
	return nil
}

// LastSuccess returns the most recent successful interval, or nil.
func (item Item) LastSuccess() *ReviewInterval {
	for i := len(item.Intervals) - 1; i >= 0; i-- {
		if item.Intervals[i].Success {
			return &item.Intervals[i]
		}
	}
	return nil
}

// AttemptedCount returns the number of intervals with an actual review time.
func (item Item) AttemptedCount() int {
	count := 0
	for _, ri := range item.Intervals {
		if ri.Attempted() {
			count++
		}
	}
	return count
}

// HasPendingWithin reports whether an unattempted plan entry is scheduled in [from, from+window].
func (item Item) HasPendingWithin(from time.Time, window time.Duration) bool {
	until := from.Add(window)
	for _, ri := range item.Intervals {
		if ri.Attempted() {
			continue
		}
		if !ri.ScheduledTime.Before(from) && !ri.ScheduledTime.After(until) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can derive a new state without aliasing.
func (item Item) Clone() Item {
	c := item
	if item.LastReviewedAt != nil {
		t := *item.LastReviewedAt
		c.LastReviewedAt = &t
	}
	if item.Intervals != nil {
		c.Intervals = make([]ReviewInterval, len(item.Intervals))
		for i, ri := range item.Intervals {
			if ri.ActualTime != nil {
				t := *ri.ActualTime
				ri.ActualTime = &t
			}
			c.Intervals[i] = ri
		}
	}
	return c
}

// Category is a derived aggregate over items sharing CategoryID.
type Category struct {
	ID               string  `yaml:"id" db:"id"`
	Name             string  `yaml:"name" db:"name"`
	Color            string  `yaml:"color" db:"color"`
	ItemCount        int     `yaml:"item_count" db:"item_count"`
	AverageRetention float64 `yaml:"average_retention" db:"average_retention"`
}
