// Next command lists actionable tasks.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/pkg/types"
)

var (
	nextTag     string
	nextProject string
	nextAll     bool
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "List next actions",
	Long: `Next lists tasks in the "next" state, ordered by due date then
priority. Use --all to include every open state.

Example:
  satchel next
  satchel next --tag phone
  satchel next --project "Kitchen reno"`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	nextCmd.Flags().StringVar(&nextTag, "tag", "", "filter by context tag")
	nextCmd.Flags().StringVar(&nextProject, "project", "", "filter by project name")
	nextCmd.Flags().BoolVar(&nextAll, "all", false, "include all open states")
}

func runNext(cmd *cobra.Command, args []string) error {
	backend := mustAttach("next")
	defer backend.Detach()

	filter := types.Filter{"states": []string{types.TaskStateNext}}
	if nextAll {
		filter["states"] = []string{
			types.TaskStateInbox,
			types.TaskStateNext,
			types.TaskStateWaiting,
			types.TaskStateScheduled,
			types.TaskStateSomeday,
		}
	}
	if nextTag != "" {
		filter["tag"] = nextTag
	}
	if nextProject != "" {
		project := findProjectByName(backend, "next", nextProject)
		if project == nil {
			fmt.Fprintf(os.Stderr, "next: no project named %q\n", nextProject)
			os.Exit(exitUserError)
		}
		filter["project_id"] = project.ProjectID
	}

	table := mustTable(backend, "next", types.TableTasks)
	results, err := table.Fetch(filter)
	if err != nil {
		fail(exitSysError, "next", err)
	}

	if flagJSON {
		printJSON(results)
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No tasks")
		return nil
	}

	printTaskTable(results)
	return nil
}

// printTaskTable writes tasks in aligned columns.
func printTaskTable(results []any) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tPRI\tDUE\tSUMMARY")
	for _, r := range results {
		task := r.(*types.Task)
		due := ""
		if task.Due != nil {
			due = task.Due.Format("2006-01-02")
		}
		pri := ""
		if task.Priority > 0 {
			for i := 0; i < task.Priority; i++ {
				pri += "!"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(task.TaskID), task.State, pri, due, task.Summary)
	}
	w.Flush()
}
