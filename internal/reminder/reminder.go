// Package reminder detects items about to become due and hands them to
// registered callbacks. Delivering the reminder is up to the callbacks.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/at-ishikawa/recallr/internal/memory"
)

const (
	DefaultLookahead     = 15 * time.Minute
	DefaultCheckInterval = time.Minute
)

var ErrAlreadyRunning = errors.New("reminder: periodic checks already running")

// Callback receives every item due within the lookahead window, once per check.
type Callback func(ctx context.Context, due []memory.Item)

// ItemSource loads the items to check on each tick.
type ItemSource interface {
	FindAll(ctx context.Context) ([]memory.Item, error)
}

// Scheduler checks items against a lookahead window. Repeated checks report
// the same item until it leaves the window.
type Scheduler struct {
	clock     memory.Clock
	lookahead time.Duration

	mu        sync.Mutex
	callbacks []Callback
	stop      chan struct{}
	done      chan struct{}
}

// New creates a Scheduler. Zero lookahead uses DefaultLookahead and a nil
// clock uses the system clock.
func New(clock memory.Clock, lookahead time.Duration) *Scheduler {
	if clock == nil {
		clock = memory.SystemClock
	}
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	return &Scheduler{clock: clock, lookahead: lookahead}
}

// Register adds a callback. Thread-safe.
func (s *Scheduler) Register(callback Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, callback)
}

// DueItems returns items whose next review falls in [now, now+lookahead], soonest first.
func (s *Scheduler) DueItems(items []memory.Item) []memory.Item {
	now := s.clock.Now()
	until := now.Add(s.lookahead)
	due := []memory.Item{}
	for _, item := range items {
		if !item.NextReviewAt.Before(now) && !item.NextReviewAt.After(until) {
			due = append(due, item)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})
	return due
}

// CheckAndRemind invokes every callback once with the full list of due items
// and returns that list. Callbacks are not invoked when nothing is due.
func (s *Scheduler) CheckAndRemind(ctx context.Context, items []memory.Item) []memory.Item {
	due := s.DueItems(items)
	if len(due) == 0 {
		return due
	}

	s.mu.Lock()
	callbacks := make([]Callback, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, callback := range callbacks {
		callback(ctx, due)
	}
	return due
}

// Start polls source every interval until ctx is done or Stop is called.
// It returns ErrAlreadyRunning while a previous loop is still active.
func (s *Scheduler) Start(ctx context.Context, source ItemSource, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("reminder: check interval must be positive, got %s", interval)
	}

	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done
	s.mu.Unlock()

	go s.loop(ctx, source, interval, stop, done)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, source ItemSource, interval time.Duration, stop, done chan struct{}) {
	defer func() {
		// A loop ended by ctx leaves no running state behind, so Start works again.
		s.mu.Lock()
		if s.done == done {
			s.stop, s.done = nil, nil
		}
		s.mu.Unlock()
		close(done)
	}()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
		}

		// Stop may have raced with the tick.
		select {
		case <-stop:
			return
		default:
		}

		items, err := source.FindAll(ctx)
		if err != nil {
			slog.Warn("failed to load items for reminders", "error", err)
			continue
		}
		due := s.CheckAndRemind(ctx, items)
		slog.Debug("reminder check", "items", len(items), "due", len(due))
	}
}

// Stop ends periodic checks. Once it returns no callback runs from the loop
// again. Calling Stop when not running is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Shutdown adapts Stop to a lifecycle shutdown hook.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.Stop()
	return nil
}
