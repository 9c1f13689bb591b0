// Done command marks a task as finished.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := mustAttach("done")
		defer backend.Detach()

		task := resolveTask(backend, "done", args[0])
		if err := task.Done(); err != nil {
			fmt.Fprintf(os.Stderr, "done: task %s is already closed\n", shortID(task.TaskID))
			os.Exit(exitUserError)
		}
		saveTask(backend, "done", task)

		if flagJSON {
			printJSON(task)
			return nil
		}
		fmt.Printf("Done: %s\n", task.Summary)
		return nil
	},
}
