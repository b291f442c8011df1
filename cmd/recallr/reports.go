package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
)

func newUrgentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "urgent",
		Short: "Show items due within the hour with low retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.Urgent(cmd.Context())
			})
		},
	}
}

func newForgottenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forgotten",
		Short: "Show items that are due or likely forgotten",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.Forgotten(cmd.Context())
			})
		},
	}
}

func newTodayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show items due today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.Today(cmd.Context())
			})
		},
	}
}

func newPriorityCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Rank items by review priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.Priority(cmd.Context(), limit)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many items (0 for all)")
	return cmd
}

func newPredictCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict average retention for the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				if !cmd.Flags().Changed("days") {
					days = cfg.Scheduler.PredictionDays
				}
				if days <= 0 {
					return fmt.Errorf("--days must be positive")
				}
				return runner.Predict(cmd.Context(), days)
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Number of days, defaults to scheduler.prediction_days")
	return cmd
}

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
	}
	cmd.AddCommand(newStatsWeeklyCommand(), newStatsCategoriesCommand(), newStatsActivityCommand())
	return cmd
}

func newStatsWeeklyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "weekly",
		Short: "Summarize items learned in the last seven days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.WeeklyStats(cmd.Context())
			})
		},
	}
}

func newStatsCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Recompute and show category statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.CategoryStats(cmd.Context())
			})
		},
	}
}

func newStatsActivityCommand() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show monthly review activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.Activity(cmd.Context(), year, month)
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	return cmd
}
