package scheduler

import (
	"log/slog"
	"math"
	"time"

	"github.com/at-ishikawa/recallr/internal/curve"
	"github.com/at-ishikawa/recallr/internal/memory"
)

const (
	// FailurePenalty is subtracted from the retention rate on a failed review.
	FailurePenalty = 20.0

	// FastRetryDelay reschedules missed reviews of failed content.
	FastRetryDelay = 10 * time.Minute

	// ActiveWindow is how far ahead a pending plan entry keeps an item active.
	ActiveWindow = 5 * time.Minute
)

// ReviewOutcome is the result of one review. A zero ResponseTime means the
// response time was not measured.
type ReviewOutcome struct {
	Success      bool
	ResponseTime time.Duration
}

// PerformanceScore maps an outcome to [0, 1]. Faster correct answers score higher.
func PerformanceScore(outcome ReviewOutcome) float64 {
	if !outcome.Success {
		return 0.0
	}
	switch {
	case outcome.ResponseTime < 3*time.Second:
		return 1.0
	case outcome.ResponseTime < 10*time.Second:
		return 0.9
	default:
		return 0.7
	}
}

// Scheduler applies review outcomes and batch policies to items.
// Calls for the same item must be serialized by the caller.
type Scheduler struct {
	clock memory.Clock
}

// New creates a Scheduler. A nil clock uses the system clock.
func New(clock memory.Clock) *Scheduler {
	if clock == nil {
		clock = memory.SystemClock
	}
	return &Scheduler{clock: clock}
}

// ProcessReviewResult returns the item state after the review. The input
// item is not modified; callers persist the returned value.
func (s *Scheduler) ProcessReviewResult(item memory.Item, outcome ReviewOutcome) memory.Item {
	now := s.clock.Now()
	next := item.Clone()
	if next.Intervals == nil {
		next.Intervals = []memory.ReviewInterval{}
	}

	elapsed := math.Max(0, now.Sub(item.Anchor()).Minutes())
	retentionBefore := curve.Retention(elapsed, item.Difficulty)

	next.ReviewCount++
	score := PerformanceScore(outcome)
	if outcome.Success {
		next.RetentionRate = curve.MaxRetention
	} else {
		next.RetentionRate = math.Max(curve.MinRetention, item.RetentionRate-FailurePenalty)
	}
	reviewedAt := now
	next.LastReviewedAt = &reviewedAt

	rung := nextRung(item)
	interval := int(math.Round(float64(curve.Rung(rung)) * curve.Adjust(score, item.Difficulty)))
	if interval < 1 {
		interval = 1
	}
	next.NextReviewAt = now.Add(minutes(interval))

	elapsedMinutes := int(math.Round(elapsed))
	actualTime := now
	next.Intervals = append(next.Intervals, memory.ReviewInterval{
		Interval:        elapsedMinutes,
		Rung:            curve.NearestRung(elapsedMinutes),
		ScheduledTime:   item.NextReviewAt,
		ActualTime:      &actualTime,
		Success:         outcome.Success,
		RetentionBefore: retentionBefore,
		RetentionAfter:  next.RetentionRate,
	})

	slog.Debug("review processed",
		"item_id", item.ID,
		"success", outcome.Success,
		"score", score,
		"rung", rung,
		"interval_minutes", interval,
		"next_review_at", next.NextReviewAt,
	)
	return next
}

// nextRung advances one rung past the interval actually completed by the
// most recent successful review, or starts at the first rung when nothing
// has succeeded yet. A review taken late counts as the longer interval.
func nextRung(item memory.Item) int {
	last := item.LastSuccess()
	if last == nil {
		return 0
	}
	return curve.NextRung(curve.NearestRung(last.Interval))
}

// BatchScheduleReviews gives unscheduled items their initial ladder plan and
// moves missed reviews of failed content to a fast retry. It returns new
// item values in the same order.
func (s *Scheduler) BatchScheduleReviews(items []memory.Item) []memory.Item {
	now := s.clock.Now()
	result := make([]memory.Item, 0, len(items))
	for _, item := range items {
		next := item.Clone()
		if len(next.Intervals) == 0 {
			next.Intervals = GenerateReviewSchedule(next)
			next.NextReviewAt = next.Intervals[0].ScheduledTime
			if next.NextReviewAt.Before(now) {
				next.NextReviewAt = now
			}
			slog.Debug("initial schedule generated", "item_id", next.ID, "next_review_at", next.NextReviewAt)
		}

		if next.IsDue(now) && !next.HasPendingWithin(now, ActiveWindow) {
			if last := next.LastAttempt(); last != nil && !last.Success {
				next.NextReviewAt = now.Add(FastRetryDelay)
				slog.Debug("fast retry scheduled", "item_id", next.ID, "next_review_at", next.NextReviewAt)
			}
		}
		result = append(result, next)
	}
	return result
}
