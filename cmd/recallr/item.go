package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recallr/internal/cli"
	"github.com/at-ishikawa/recallr/internal/config"
	"github.com/at-ishikawa/recallr/internal/memory"
)

func newItemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage memory items",
	}
	cmd.AddCommand(newItemAddCommand(), newItemListCommand(), newItemDeleteCommand())
	return cmd
}

func newItemAddCommand() *cobra.Command {
	var category string
	difficulty := difficultyFlag(memory.DifficultyMedium)

	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add an item and schedule its first reviews",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				ids, err := memory.NewIDGenerator(cfg.Storage.NodeID)
				if err != nil {
					return err
				}
				_, err = runner.AddItem(cmd.Context(), ids, content, category, memory.Difficulty(difficulty))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category ID")
	cmd.Flags().Var(&difficulty, "difficulty", fmt.Sprintf("Difficulty. Possible values are %v", memory.AllDifficulties))
	return cmd
}

func newItemListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items with their state and current retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.ListItems(cmd.Context())
			})
		},
	}
}

func newItemDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item and its review history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withRunner(cmd.OutOrStdout(), func(cfg *config.Config, runner *cli.Runner) error {
				return runner.DeleteItem(cmd.Context(), id)
			})
		},
	}
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q: %w", value, err)
	}
	return id, nil
}
