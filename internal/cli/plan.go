package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/at-ishikawa/recallr/internal/assets"
	"github.com/at-ishikawa/recallr/internal/curve"
	"github.com/at-ishikawa/recallr/internal/memory"
	"github.com/at-ishikawa/recallr/internal/pdf"
)

// PlanOptions controls the daily plan output. Without an output directory
// the plan is printed.
type PlanOptions struct {
	MaxItems     int
	TemplatePath string
	OutputDir    string
	PDF          bool
}

// Plan renders today's review plan and returns the written file, if any.
func (r *Runner) Plan(ctx context.Context, opts PlanOptions) (string, error) {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("repo.FindAll() > %w", err)
	}
	now := r.clock.Now()
	data := assets.PlanTemplate{
		Date:        now,
		GeneratedAt: now,
		MaxItems:    opts.MaxItems,
		Entries:     r.planEntries(r.scheduler.GenerateDailyPlan(items, opts.MaxItems)),
		Urgent:      r.planEntries(r.scheduler.GetUrgentReviews(items)),
	}

	var buf bytes.Buffer
	if err := assets.WritePlan(&buf, opts.TemplatePath, data); err != nil {
		return "", fmt.Errorf("assets.WritePlan() > %w", err)
	}
	if opts.OutputDir == "" {
		r.printf("%s", buf.String())
		return "", nil
	}

	base := filepath.Join(opts.OutputDir, "plan-"+now.Format("2006-01-02"))
	if opts.PDF {
		path, err := pdf.WriteMarkdownPDF(buf.Bytes(), base+".pdf", pdf.WithOrientation(pdf.Landscape))
		if err != nil {
			return "", fmt.Errorf("pdf.WriteMarkdownPDF() > %w", err)
		}
		r.printf("Wrote %s\n", path)
		return path, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", opts.OutputDir, err)
	}
	path := base + ".md"
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	r.printf("Wrote %s\n", path)
	return path, nil
}

func (r *Runner) planEntries(items []memory.Item) []assets.PlanEntry {
	now := r.clock.Now()
	entries := make([]assets.PlanEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, assets.PlanEntry{
			ID:         item.ID,
			Content:    item.Content,
			Category:   item.CategoryID,
			Difficulty: string(item.Difficulty),
			DueAt:      item.NextReviewAt,
			Retention:  curve.CurrentRetention(item, now),
		})
	}
	return entries
}
