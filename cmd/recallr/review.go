package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
	"github.com/at-ishikawa/recallr/internal/scheduler"
)

func newReviewCommand() *cobra.Command {
	var (
		success      bool
		failure      bool
		responseTime time.Duration
	)

	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Record the result of reviewing an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if success == failure {
				return fmt.Errorf("exactly one of --success or --failure is required")
			}
			if responseTime < 0 {
				return fmt.Errorf("--response-time must not be negative")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			outcome := scheduler.ReviewOutcome{Success: success, ResponseTime: responseTime}
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				_, err := runner.Review(cmd.Context(), id, outcome)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&success, "success", false, "The item was recalled")
	cmd.Flags().BoolVar(&failure, "failure", false, "The item was not recalled")
	cmd.Flags().DurationVar(&responseTime, "response-time", 0, "Time taken to answer, e.g. 4s")
	return cmd
}

func newScheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Plan unscheduled items and move missed failed reviews to a fast retry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				_, err := runner.Schedule(cmd.Context())
				return err
			})
		},
	}
}
