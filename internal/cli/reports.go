package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/at-ishikawa/recallr/internal/curve"
	"github.com/at-ishikawa/recallr/internal/memory"
	"github.com/at-ishikawa/recallr/internal/statistics"
)

// Urgent prints items due within the hour with low recorded retention.
func (r *Runner) Urgent(ctx context.Context) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	r.printItems("Urgent reviews", r.scheduler.GetUrgentReviews(items))
	return nil
}

// Forgotten prints items that are due or predicted below the forgetting threshold.
func (r *Runner) Forgotten(ctx context.Context) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	r.printItems("Forgotten content", r.ranker.IdentifyForgottenContent(items))
	return nil
}

// Today prints items due during the current calendar day.
func (r *Runner) Today(ctx context.Context) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	r.printItems("Today's reviews", r.ranker.GetTodayReviews(items))
	return nil
}

// Priority prints all items ordered by priority score.
func (r *Runner) Priority(ctx context.Context, limit int) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	ranked := r.ranker.Rank(items)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if len(ranked) == 0 {
		r.printf("No items.\n")
		return nil
	}
	r.printf("%-20s  %8s  %9s  %8s  %s\n", "ID", "Score", "Retention", "Overdue", "Content")
	for _, entry := range ranked {
		r.printf("%-20d  %8.1f  %8.1f%%  %7.1fh  %s\n",
			entry.Item.ID, entry.Score, entry.CurrentRetention, entry.OverdueHours, entry.Item.Content)
	}
	return nil
}

// Predict prints the average predicted retention for the coming days.
func (r *Runner) Predict(ctx context.Context, days int) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	series := r.scheduler.PredictLongTermRetention(items, days)
	r.printf("%-10s  %9s  %s\n", "Date", "Retention", "Items")
	for _, point := range series {
		r.printf("%-10s  %8.1f%%  %d\n", point.Date.Format("2006-01-02"), point.AverageRetention, point.Items)
	}
	return nil
}

// WeeklyStats prints the summary of items created in the last week.
func (r *Runner) WeeklyStats(ctx context.Context) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	stats := r.ranker.GetWeeklyStats(items)
	r.printf("Weekly Statistics\n")
	r.printf("=================\n")
	r.printf("%-18s %d\n", "Learned:", stats.Learned)
	r.printf("%-18s %d\n", "Reviewed:", stats.Reviewed)
	r.printf("%-18s %.1f%%\n", "Average retention:", stats.AverageRetention)
	r.printf("%-18s %d\n", "Forgotten:", stats.Forgotten)
	return nil
}

// CategoryStats recomputes, stores, and prints every category.
func (r *Runner) CategoryStats(ctx context.Context) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	categories, err := r.repo.FindCategories(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindCategories() > %w", err)
	}
	categories = statistics.RecomputeCategories(categories, items)
	if len(categories) == 0 {
		r.printf("No categories.\n")
		return nil
	}

	r.printf("%-16s  %-20s  %5s  %9s\n", "ID", "Name", "Items", "Retention")
	for _, c := range categories {
		if err := r.repo.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("repo.SaveCategory(%s) > %w", c.ID, err)
		}
		r.printf("%-16s  %-20s  %5d  %8.1f%%\n", c.ID, c.Name, c.ItemCount, c.AverageRetention)
	}
	return nil
}

// Activity prints the monthly review activity report.
func (r *Runner) Activity(ctx context.Context, year, month int) error {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("repo.FindAll() > %w", err)
	}
	result := statistics.CalculateReviewActivity(items, year, month)
	if len(result.Periods) == 0 {
		r.printf("No reviews found for the specified period.\n")
		return nil
	}

	r.printf("Review Activity Report\n")
	r.printf("======================\n\n")
	r.printf("%-10s  %-8s  %-8s  %-8s  %-8s\n", "Period", "Reviews", "Success", "Failure", "Items")
	r.printf("%-10s  %-8s  %-8s  %-8s  %-8s\n", "------", "-------", "-------", "-------", "-----")
	for _, p := range result.Periods {
		r.printf("%-10s  %-8d  %-8d  %-8d  %-8d\n", p.Period, p.Reviews, p.Successes, p.Failures, p.UniqueItems)
	}
	a := result.Aggregate
	r.printf("\n%-10s  %-8d  %-8d  %-8d  %-8d\n", "Totals:", a.Reviews, a.Successes, a.Failures, a.UniqueItems)
	return nil
}

func (r *Runner) printItems(title string, items []memory.Item) {
	if len(items) == 0 {
		r.printf("%s: none\n", title)
		return
	}
	now := r.clock.Now()
	r.printf("%s (%d)\n", title, len(items))
	for _, item := range items {
		retention := curve.CurrentRetention(item, now)
		mark := color.GreenString("%5.1f%%", retention)
		if curve.IsForgotten(retention) {
			mark = color.RedString("%5.1f%%", retention)
		}
		r.printf("  #%d  %s  due %s  %s\n", item.ID, mark, item.NextReviewAt.Format("2006-01-02 15:04"), item.Content)
	}
}
