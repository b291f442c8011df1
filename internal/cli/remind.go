package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/recallr/internal/bootstrap"
	"github.com/at-ishikawa/recallr/internal/notify"
	"github.com/at-ishikawa/recallr/internal/reminder"
)

// RemindOptions controls the reminder loop.
type RemindOptions struct {
	CheckInterval time.Duration
	Lookahead     time.Duration
	// Once checks a single time instead of polling.
	Once bool
}

// Remind sends items due within the lookahead window to every notifier.
// Unless opts.Once is set it keeps polling until the app is interrupted.
func (r *Runner) Remind(ctx context.Context, app *bootstrap.App, notifiers []notify.Notifier, opts RemindOptions) error {
	if len(notifiers) == 0 {
		return fmt.Errorf("no notifier configured")
	}
	rem := reminder.New(r.clock, opts.Lookahead)
	for _, n := range notifiers {
		rem.Register(notify.AsCallback(n))
	}

	if opts.Once {
		items, err := r.repo.FindAll(ctx)
		if err != nil {
			return fmt.Errorf("repo.FindAll() > %w", err)
		}
		due := rem.CheckAndRemind(ctx, items)
		if len(due) == 0 {
			r.printf("Nothing due in the next %s\n", opts.Lookahead)
		}
		return nil
	}

	return app.Run(ctx, func(ctx context.Context) error {
		if err := rem.Start(ctx, r.repo, opts.CheckInterval); err != nil {
			return fmt.Errorf("reminder.Start() > %w", err)
		}
		app.AddShutdownHook(rem.Shutdown)
		r.printf("Watching for reviews every %s\n", opts.CheckInterval)
		<-ctx.Done()
		return nil
	})
}
