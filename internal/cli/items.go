package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/at-ishikawa/recallr/internal/curve"
	"github.com/at-ishikawa/recallr/internal/memory"
	"github.com/at-ishikawa/recallr/internal/scheduler"
)

// IDSource issues item IDs.
type IDSource interface {
	Next() int64
}

// AddItem creates an item with its initial review plan and stores it.
func (r *Runner) AddItem(ctx context.Context, ids IDSource, content, categoryID string, difficulty memory.Difficulty) (memory.Item, error) {
	if content == "" {
		return memory.Item{}, fmt.Errorf("content must not be empty")
	}
	item := scheduler.NewItem(ids.Next(), content, categoryID, difficulty, r.clock.Now())
	item = r.scheduler.BatchScheduleReviews([]memory.Item{item})[0]
	if err := r.repo.Save(ctx, item); err != nil {
		return memory.Item{}, fmt.Errorf("repo.Save(%d) > %w", item.ID, err)
	}
	if err := r.refreshCategory(ctx, categoryID); err != nil {
		return memory.Item{}, err
	}
	r.printf("Added #%d, first review at %s\n", item.ID, item.NextReviewAt.Format("2006-01-02 15:04"))
	return item, nil
}

// ListItems prints every item with its state and current retention.
func (r *Runner) ListItems(ctx context.Context) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	if len(items) == 0 {
		r.printf("No items.\n")
		return nil
	}

	now := r.clock.Now()
	r.printf("%-20s  %-10s  %-8s  %-9s  %-16s  %s\n", "ID", "State", "Level", "Retention", "Next review", "Content")
	for _, item := range items {
		retention := curve.CurrentRetention(item, now)
		line := fmt.Sprintf("%-20d  %-10s  %-8s  %8.1f%%  %-16s  %s\n",
			item.ID,
			scheduler.StateOf(item, now),
			item.Difficulty,
			retention,
			item.NextReviewAt.Format("2006-01-02 15:04"),
			item.Content,
		)
		if curve.IsForgotten(retention) {
			line = color.RedString("%s", line)
		}
		r.printf("%s", line)
	}
	return nil
}

// DeleteItem removes an item and refreshes its category.
func (r *Runner) DeleteItem(ctx context.Context, id int64) error {
	item, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("repo.FindByID(%d) > %w", id, err)
	}
	if err := r.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("repo.Delete(%d) > %w", id, err)
	}
	if err := r.refreshCategory(ctx, item.CategoryID); err != nil {
		return err
	}
	r.printf("Deleted #%d\n", id)
	return nil
}

// Review records the outcome of reviewing one item.
func (r *Runner) Review(ctx context.Context, id int64, outcome scheduler.ReviewOutcome) (memory.Item, error) {
	item, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return memory.Item{}, fmt.Errorf("repo.FindByID(%d) > %w", id, err)
	}
	next := r.scheduler.ProcessReviewResult(item, outcome)
	if err := r.repo.Save(ctx, next); err != nil {
		return memory.Item{}, fmt.Errorf("repo.Save(%d) > %w", id, err)
	}
	if err := r.refreshCategory(ctx, next.CategoryID); err != nil {
		return memory.Item{}, err
	}

	result := color.GreenString("remembered")
	if !outcome.Success {
		result = color.RedString("forgotten")
	}
	r.printf("#%d %s: retention %.1f%%, next review at %s\n",
		id, result, next.RetentionRate, next.NextReviewAt.Format("2006-01-02 15:04"))
	return next, nil
}

// Schedule runs batch scheduling over all items and stores the ones that changed.
func (r *Runner) Schedule(ctx context.Context) (int, error) {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.FindAll() > %w", err)
	}
	scheduled := r.scheduler.BatchScheduleReviews(items)

	changed := 0
	for i, item := range scheduled {
		if item.NextReviewAt.Equal(items[i].NextReviewAt) && len(item.Intervals) == len(items[i].Intervals) {
			continue
		}
		if err := r.repo.Save(ctx, item); err != nil {
			return changed, fmt.Errorf("repo.Save(%d) > %w", item.ID, err)
		}
		changed++
	}
	r.printf("Rescheduled %d of %d items\n", changed, len(items))
	return changed, nil
}
