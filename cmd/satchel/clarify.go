// Clarify command moves an inbox item into a working state.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/internal/wikitext"
	"github.com/inkwell-tools/satchel/pkg/types"
)

var (
	clarifyState string
	clarifyDue   string
)

var clarifyCmd = &cobra.Command{
	Use:   "clarify <id>",
	Short: "Clarify a task into a working state",
	Long: `Clarify moves a task into one of the open working states: next,
waiting, scheduled, someday. Scheduling requires a due date.

Example:
  satchel clarify 0195a3c1 --state next
  satchel clarify 0195a3c1 --state scheduled --due "next friday"`,
	Args: cobra.ExactArgs(1),
	RunE: runClarify,
}

func init() {
	clarifyCmd.Flags().StringVar(&clarifyState, "state", "", "target state (required)")
	clarifyCmd.Flags().StringVar(&clarifyDue, "due", "", "due date, sets state to scheduled")
	_ = clarifyCmd.MarkFlagRequired("state")
}

func runClarify(cmd *cobra.Command, args []string) error {
	backend := mustAttach("clarify")
	defer backend.Detach()

	task := resolveTask(backend, "clarify", args[0])

	if clarifyDue != "" || clarifyState == types.TaskStateScheduled {
		if clarifyDue == "" {
			fmt.Fprintln(os.Stderr, "clarify: --due is required for the scheduled state")
			os.Exit(exitUserError)
		}
		due, ok := wikitext.ParseDue(clarifyDue, time.Now())
		if !ok {
			fmt.Fprintf(os.Stderr, "clarify: cannot parse due date %q\n", clarifyDue)
			os.Exit(exitUserError)
		}
		if err := task.Schedule(due); err != nil {
			fmt.Fprintf(os.Stderr, "clarify: task %s is closed\n", shortID(task.TaskID))
			os.Exit(exitUserError)
		}
	} else {
		if err := task.Clarify(clarifyState); err != nil {
			if errors.Is(err, types.ErrInvalidState) {
				fmt.Fprintf(os.Stderr, "clarify: invalid state %q (valid: next, waiting, scheduled, someday)\n", clarifyState)
			} else {
				fmt.Fprintf(os.Stderr, "clarify: task %s is closed\n", shortID(task.TaskID))
			}
			os.Exit(exitUserError)
		}
	}

	saveTask(backend, "clarify", task)

	if flagJSON {
		printJSON(task)
		return nil
	}

	fmt.Printf("Task %s is now %s\n", shortID(task.TaskID), task.State)
	return nil
}
