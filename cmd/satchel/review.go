// Review command prints a weekly review summary.
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/internal/sqlite"
	"github.com/inkwell-tools/satchel/pkg/types"
)

// reviewHorizon is how far ahead scheduled tasks are surfaced.
const reviewHorizon = 7 * 24 * time.Hour

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Print a weekly review summary",
	Long: `Review walks the notebook the way a GTD weekly review does: inbox
items to clarify, next actions grouped by context, waiting-for items,
tasks due within a week, someday items, and open projects.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

// reviewReport collects the sections of a review for JSON output.
type reviewReport struct {
	Inbox        []*types.Task            `json:"inbox"`
	NextByTag    map[string][]*types.Task `json:"next_by_tag"`
	Waiting      []*types.Task            `json:"waiting"`
	DueSoon      []*types.Task            `json:"due_soon"`
	SomedayCount int                      `json:"someday_count"`
	OpenProjects []*types.Project         `json:"open_projects"`
}

func runReview(cmd *cobra.Command, args []string) error {
	backend := mustAttach("review")
	defer backend.Detach()

	report := buildReview(backend)

	if flagJSON {
		printJSON(report)
		return nil
	}

	fmt.Printf("Inbox (%d to clarify)\n", len(report.Inbox))
	for _, task := range report.Inbox {
		fmt.Printf("  %s  %s\n", shortID(task.TaskID), task.Summary)
	}

	fmt.Println("\nNext actions")
	tags := make([]string, 0, len(report.NextByTag))
	for tag := range report.NextByTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Printf("  @%s\n", tag)
		for _, task := range report.NextByTag[tag] {
			fmt.Printf("    %s  %s\n", shortID(task.TaskID), task.Summary)
		}
	}

	fmt.Printf("\nWaiting for (%d)\n", len(report.Waiting))
	for _, task := range report.Waiting {
		fmt.Printf("  %s  %s\n", shortID(task.TaskID), task.Summary)
	}

	fmt.Println("\nDue within 7 days")
	for _, task := range report.DueSoon {
		fmt.Printf("  %s  %s  %s\n", task.Due.Format("2006-01-02"), shortID(task.TaskID), task.Summary)
	}

	fmt.Printf("\nSomeday/maybe: %d items\n", report.SomedayCount)

	fmt.Printf("\nOpen projects (%d)\n", len(report.OpenProjects))
	for _, project := range report.OpenProjects {
		fmt.Printf("  %s\n", project.Name)
	}

	return nil
}

// buildReview queries each review section from the backend.
func buildReview(backend *sqlite.Backend) reviewReport {
	tasks := mustTable(backend, "review", types.TableTasks)
	projects := mustTable(backend, "review", types.TableProjects)

	report := reviewReport{NextByTag: make(map[string][]*types.Task)}

	report.Inbox = fetchTasks(tasks, types.Filter{"states": []string{types.TaskStateInbox}})
	report.Waiting = fetchTasks(tasks, types.Filter{"states": []string{types.TaskStateWaiting}})
	report.DueSoon = fetchTasks(tasks, types.Filter{
		"states":     []string{types.TaskStateNext, types.TaskStateWaiting, types.TaskStateScheduled},
		"due_before": time.Now().Add(reviewHorizon),
	})
	report.SomedayCount = len(fetchTasks(tasks, types.Filter{"states": []string{types.TaskStateSomeday}}))

	// Group next actions under each context tag. Untagged tasks land in
	// the pseudo-context "untagged".
	next := fetchTasks(tasks, types.Filter{"states": []string{types.TaskStateNext}})
	tagged := make(map[string]bool)
	tagTable := mustTable(backend, "review", types.TableTags)
	allTags, err := tagTable.Fetch(types.Filter{})
	if err != nil {
		fail(exitSysError, "review", err)
	}
	for _, r := range allTags {
		tag := r.(*types.Tag)
		byTag := fetchTasks(tasks, types.Filter{
			"states": []string{types.TaskStateNext},
			"tag":    tag.Name,
		})
		if len(byTag) == 0 {
			continue
		}
		report.NextByTag[tag.Name] = byTag
		for _, task := range byTag {
			tagged[task.TaskID] = true
		}
	}
	for _, task := range next {
		if !tagged[task.TaskID] {
			report.NextByTag["untagged"] = append(report.NextByTag["untagged"], task)
		}
	}

	open, err := projects.Fetch(types.Filter{"states": []string{types.ProjectStateOpen}})
	if err != nil {
		fail(exitSysError, "review", err)
	}
	for _, r := range open {
		report.OpenProjects = append(report.OpenProjects, r.(*types.Project))
	}

	return report
}

// fetchTasks runs a task query and type-asserts the results.
func fetchTasks(table types.Table, filter types.Filter) []*types.Task {
	results, err := table.Fetch(filter)
	if err != nil {
		fail(exitSysError, "review", err)
	}
	tasks := make([]*types.Task, 0, len(results))
	for _, r := range results {
		tasks = append(tasks, r.(*types.Task))
	}
	return tasks
}
