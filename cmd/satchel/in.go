// In command captures a new task into the inbox.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/internal/wikitext"
	"github.com/inkwell-tools/satchel/pkg/types"
)

var (
	inDue      string
	inProject  string
	inTags     []string
	inPriority int
)

var inCmd = &cobra.Command{
	Use:   "in <summary>...",
	Short: "Capture a task into the inbox",
	Long: `In captures a new task. The summary is taken from the remaining
arguments, so quoting is optional.

Example:
  satchel in Buy milk
  satchel in "Call the plumber" --due tomorrow --tag phone
  satchel in Draft the proposal --project "Kitchen reno" --priority 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIn,
}

func init() {
	inCmd.Flags().StringVar(&inDue, "due", "", "due date (ISO date or natural language)")
	inCmd.Flags().StringVar(&inProject, "project", "", "assign to a project by name")
	inCmd.Flags().StringArrayVar(&inTags, "tag", nil, "attach a context tag (repeatable)")
	inCmd.Flags().IntVar(&inPriority, "priority", 0, "priority 0-3")
}

func runIn(cmd *cobra.Command, args []string) error {
	summary := strings.Join(args, " ")

	backend := mustAttach("in")
	defer backend.Detach()

	task := &types.Task{
		Summary: summary,
		State:   types.TaskStateInbox,
	}
	if inPriority != 0 {
		task.SetPriority(inPriority)
	}

	if inDue != "" {
		due, ok := wikitext.ParseDue(inDue, time.Now())
		if !ok {
			fmt.Fprintf(os.Stderr, "in: cannot parse due date %q\n", inDue)
			os.Exit(exitUserError)
		}
		task.Due = &due
		task.State = types.TaskStateScheduled
	}

	table := mustTable(backend, "in", types.TableTasks)
	id, err := table.Set("", task)
	if err != nil {
		fail(exitUserError, "in", err)
	}

	if inProject != "" {
		project := findProjectByName(backend, "in", inProject)
		if project == nil {
			fmt.Fprintf(os.Stderr, "in: no project named %q\n", inProject)
			os.Exit(exitUserError)
		}
		addLink(backend, "in", types.LinkTypeBelongsTo, id, project.ProjectID)
	}

	for _, name := range inTags {
		tag := ensureTag(backend, "in", types.NormalizeTagName(name))
		addLink(backend, "in", types.LinkTypeTaggedWith, id, tag.TagID)
	}

	saved, err := table.Get(id)
	if err != nil {
		fail(exitSysError, "in", err)
	}

	if flagJSON {
		printJSON(saved)
		return nil
	}

	fmt.Printf("Captured %s: %s\n", shortID(id), summary)
	return nil
}
