package main

import (
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
)

func newPlanCommand() *cobra.Command {
	var (
		maxItems int
		save     bool
		asPDF    bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show today's review plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				opts := cli.PlanOptions{
					MaxItems:     cfg.Scheduler.MaxItemsPerDay,
					TemplatePath: cfg.Outputs.PlanTemplate,
					PDF:          asPDF,
				}
				if cmd.Flags().Changed("max") {
					opts.MaxItems = maxItems
				}
				if save || asPDF {
					opts.OutputDir = cfg.Outputs.PlanDirectory
				}
				_, err := runner.Plan(cmd.Context(), opts)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&maxItems, "max", 0, "Maximum number of items, defaults to scheduler.max_items_per_day")
	cmd.Flags().BoolVar(&save, "save", false, "Write the plan as markdown to outputs.plan_directory")
	cmd.Flags().BoolVar(&asPDF, "pdf", false, "Write the plan as PDF to outputs.plan_directory")
	return cmd
}
