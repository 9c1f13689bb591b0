// Drop command abandons a task.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dropCmd = &cobra.Command{
	Use:   "drop <id>",
	Short: "Drop a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := mustAttach("drop")
		defer backend.Detach()

		task := resolveTask(backend, "drop", args[0])
		if err := task.Drop(); err != nil {
			fail(exitUserError, "drop", err)
		}
		saveTask(backend, "drop", task)

		if flagJSON {
			printJSON(task)
			return nil
		}
		fmt.Printf("Dropped: %s\n", task.Summary)
		return nil
	},
}
