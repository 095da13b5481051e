// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Idriss-Abidi/ExpertAI/internal/tasks"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and manage recorded batch tasks",
	Long: `Tasks operates on the local task store that match runs record into.
Finished tasks are swept automatically once they pass the configured
retention window; delete removes one sooner.`,
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded tasks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTaskStore()
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(os.Stderr, "No tasks recorded.")
			return nil
		}
		for _, t := range all {
			fmt.Printf("%s  %-9s  %d/%d rows  created %s\n",
				t.ID, t.State, t.RowsDone, t.RowsTotal, t.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var tasksGetCmd = &cobra.Command{
	Use:   "get TASK-ID",
	Short: "Show one task, including its result when finished",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTaskStore()
		if err != nil {
			return err
		}
		defer store.Close()

		task, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeResult(cmd, task)
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete TASK-ID",
	Short: "Delete one task from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTaskStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Deleted task %s\n", args[0])
		return nil
	},
}

// openTaskStore opens the configured task store; opening also sweeps
// expired tasks.
func openTaskStore() (*tasks.SQLiteStore, error) {
	return tasks.NewSQLiteStore(buildConfig().WithDefaults().Tasks)
}

func init() {
	tasksGetCmd.Flags().Bool("json", false, "output as JSON instead of YAML")
	tasksGetCmd.Flags().String("output", "", "write output to a file instead of stdout")

	tasksCmd.AddCommand(tasksListCmd, tasksGetCmd, tasksDeleteCmd)
	rootCmd.AddCommand(tasksCmd)
}
