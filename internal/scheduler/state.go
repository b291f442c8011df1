package scheduler

import (
	"time"

	"github.com/at-ishikawa/recallr/internal/memory"
)

// State is derived from an item's fields; it is never stored.
type State string

const (
	StateNew       State = "new"
	StateScheduled State = "scheduled"
	StateDue       State = "due"
	StateProcessed State = "processed"
)

// StateOf classifies the item at now. A due item is Due regardless of
// history; otherwise pending plan entries make it Scheduled, and any
// attempted review makes it Processed.
func StateOf(item memory.Item, now time.Time) State {
	if item.IsDue(now) {
		return StateDue
	}
	for _, ri := range item.Intervals {
		if !ri.Attempted() && ri.ScheduledTime.After(now) {
			return StateScheduled
		}
	}
	if item.AttemptedCount() == 0 {
		return StateNew
	}
	return StateProcessed
}
