// Project commands manage multi-step outcomes.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/pkg/types"
)

var (
	projectAddPage string
	projectListAll bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectCompleteCmd = &cobra.Command{
	Use:   "complete <name>",
	Short: "Complete a project, releasing its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return closeProject("project complete", args[0], func(p *types.Project) error {
			return p.Complete()
		})
	},
}

var projectDropCmd = &cobra.Command{
	Use:   "drop <name>",
	Short: "Drop a project and its open tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return closeProject("project drop", args[0], func(p *types.Project) error {
			return p.Drop()
		})
	},
}

func init() {
	projectAddCmd.Flags().StringVar(&projectAddPage, "page", "", "associate a wiki page path")
	projectListCmd.Flags().BoolVar(&projectListAll, "all", false, "include completed and dropped projects")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCompleteCmd)
	projectCmd.AddCommand(projectDropCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	backend := mustAttach("project add")
	defer backend.Detach()

	if projectAddPage != "" {
		if err := types.ValidatePath(projectAddPage); err != nil {
			fmt.Fprintf(os.Stderr, "project add: invalid page path %q\n", projectAddPage)
			os.Exit(exitUserError)
		}
	}

	project := &types.Project{
		Name:     name,
		State:    types.ProjectStateOpen,
		PagePath: projectAddPage,
	}

	table := mustTable(backend, "project add", types.TableProjects)
	id, err := table.Set("", project)
	if err != nil {
		if isDuplicateName(err) {
			fmt.Fprintf(os.Stderr, "project add: project %q already exists\n", name)
			os.Exit(exitUserError)
		}
		fail(exitSysError, "project add", err)
	}

	saved, err := table.Get(id)
	if err != nil {
		fail(exitSysError, "project add", err)
	}

	if flagJSON {
		printJSON(saved)
		return nil
	}
	fmt.Printf("Created project: %s\n", name)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	backend := mustAttach("project list")
	defer backend.Detach()

	filter := types.Filter{"states": []string{types.ProjectStateOpen}}
	if projectListAll {
		filter = types.Filter{}
	}

	table := mustTable(backend, "project list", types.TableProjects)
	results, err := table.Fetch(filter)
	if err != nil {
		fail(exitSysError, "project list", err)
	}

	if flagJSON {
		printJSON(results)
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No projects")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tPAGE")
	for _, r := range results {
		project := r.(*types.Project)
		fmt.Fprintf(w, "%s\t%s\t%s\n", project.Name, project.State, project.PagePath)
	}
	w.Flush()
	return nil
}

// closeProject applies a terminal transition to the named project and
// persists it, triggering the backend's membership cascade.
func closeProject(context, name string, transition func(*types.Project) error) error {
	backend := mustAttach(context)
	defer backend.Detach()

	project := findProjectByName(backend, context, name)
	if project == nil {
		fmt.Fprintf(os.Stderr, "%s: no project named %q\n", context, name)
		os.Exit(exitUserError)
	}

	if err := transition(project); err != nil {
		fmt.Fprintf(os.Stderr, "%s: project %q is not open\n", context, name)
		os.Exit(exitUserError)
	}

	table := mustTable(backend, context, types.TableProjects)
	if _, err := table.Set(project.ProjectID, project); err != nil {
		fail(exitSysError, context, err)
	}

	if flagJSON {
		printJSON(project)
		return nil
	}
	fmt.Printf("Project %q is now %s\n", name, project.State)
	return nil
}
