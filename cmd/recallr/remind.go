package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/bootstrap"
	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
	"github.com/at-ishikawa/recallr/internal/memory"
	"github.com/at-ishikawa/recallr/internal/notify"
)

func newRemindCommand() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Notify about items becoming due soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.Remind(cmd.Context(), bootstrap.New(bootstrap.WithShutdownTimeout(cfg.Reminder.ShutdownTimeout)), newNotifiers(cfg, newClock(cfg)), cli.RemindOptions{
					CheckInterval: cfg.Reminder.CheckInterval,
					Lookahead:     cfg.Reminder.Lookahead,
					Once:          once,
				})
			})
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Check a single time and exit")
	return cmd
}

func newNotifiers(cfg *config.Config, clock memory.Clock) []notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.Notify.Console {
		notifiers = append(notifiers, notify.NewConsoleNotifier(os.Stdout, clock))
	}
	if webhook := cfg.Notify.Webhook; webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(
			webhook.URL, webhook.Timeout, uint(webhook.MaxRetries), notify.WithClock(clock),
		))
	}
	return notifiers
}
