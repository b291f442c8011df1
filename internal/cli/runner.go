// Package cli implements the recallr commands on top of a repository.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/at-ishikawa/recallr/internal/memory"
	"github.com/at-ishikawa/recallr/internal/priority"
	"github.com/at-ishikawa/recallr/internal/scheduler"
	"github.com/at-ishikawa/recallr/internal/statistics"
)

// Runner executes commands against a repository and writes human-readable
// output.
type Runner struct {
	repo      memory.Repository
	clock     memory.Clock
	output    io.Writer
	scheduler *scheduler.Scheduler
	ranker    *priority.Ranker
}

// NewRunner creates a Runner. A nil clock uses the system clock.
func NewRunner(repo memory.Repository, clock memory.Clock, output io.Writer) *Runner {
	if clock == nil {
		clock = memory.SystemClock
	}
	return &Runner{
		repo:      repo,
		clock:     clock,
		output:    output,
		scheduler: scheduler.New(clock),
		ranker:    priority.NewRanker(clock),
	}
}

func (r *Runner) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		slog.Warn("failed to write output", "error", err)
	}
}

// refreshCategory recomputes one category from the stored items. Items
// without a category have nothing to refresh.
func (r *Runner) refreshCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	categories, err := r.repo.FindCategories(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindCategories() > %w", err)
	}
	category := memory.Category{ID: categoryID, Name: categoryID}
	for _, c := range categories {
		if c.ID == categoryID {
			category = c
			break
		}
	}
	category = statistics.RecomputeCategory(category, items)
	if err := r.repo.SaveCategory(ctx, category); err != nil {
		return fmt.Errorf("repo.SaveCategory(%s) > %w", categoryID, err)
	}
	return nil
}
