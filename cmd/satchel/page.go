// Page commands manage wiki pages and sync their checkbox tasks.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-tools/satchel/internal/sqlite"
	"github.com/inkwell-tools/satchel/internal/wikitext"
	"github.com/inkwell-tools/satchel/pkg/types"
)

var (
	pageAddTitle string
	pageAddFile  string
	pageShowHTML bool
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage wiki pages",
}

var pageAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Create or update a page",
	Long: `Add creates or updates the page at the given colon-separated path.
The body is read from --file (or stdin with --file -). Checkbox lines in
the body are synced into the tasks table: new lines become tasks in the
"next" state, checked lines complete their matching task.

Example:
  satchel page add Projects:Garden --file garden.txt
  satchel page add Home --title "Home page" --file -`,
	Args: cobra.ExactArgs(1),
	RunE: runPageAdd,
}

var pageShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print a page body",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageShow,
}

var pageListCmd = &cobra.Command{
	Use:   "list [namespace]",
	Short: "List pages, optionally within a namespace",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPageList,
}

var pageDeleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageDelete,
}

func init() {
	pageAddCmd.Flags().StringVar(&pageAddTitle, "title", "", "page title (default: last path segment)")
	pageAddCmd.Flags().StringVar(&pageAddFile, "file", "", "read the page body from a file, - for stdin")
	pageShowCmd.Flags().BoolVar(&pageShowHTML, "html", false, "render the body as HTML")

	pageCmd.AddCommand(pageAddCmd)
	pageCmd.AddCommand(pageShowCmd)
	pageCmd.AddCommand(pageListCmd)
	pageCmd.AddCommand(pageDeleteCmd)
}

func runPageAdd(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := types.ValidatePath(path); err != nil {
		fmt.Fprintf(os.Stderr, "page add: invalid path %q\n", path)
		os.Exit(exitUserError)
	}

	body := ""
	if pageAddFile != "" {
		data, err := readBodyFile(pageAddFile)
		if err != nil {
			fail(exitSysError, "page add", err)
		}
		body = data
	}

	backend := mustAttach("page add")
	defer backend.Detach()

	table := mustTable(backend, "page add", types.TablePages)

	page := findPageByPath(backend, "page add", path)
	if page == nil {
		page = &types.Page{Path: path}
	}
	page.Body = body
	if pageAddTitle != "" {
		page.Title = pageAddTitle
	}

	id, err := table.Set(page.PageID, page)
	if err != nil {
		fail(exitUserError, "page add", err)
	}

	doc := wikitext.ParsePage(body)
	created, updated := syncPageTasks(backend, id, doc)
	syncPageGraph(backend, id, doc)

	saved, err := table.Get(id)
	if err != nil {
		fail(exitSysError, "page add", err)
	}

	if flagJSON {
		printJSON(saved)
		return nil
	}

	fmt.Printf("Saved page %s", path)
	if created+updated > 0 {
		fmt.Printf(" (%d tasks created, %d updated)", created, updated)
	}
	fmt.Println()
	return nil
}

func runPageShow(cmd *cobra.Command, args []string) error {
	backend := mustAttach("page show")
	defer backend.Detach()

	page := findPageByPath(backend, "page show", args[0])
	if page == nil {
		fmt.Fprintf(os.Stderr, "page show: no page at %q\n", args[0])
		os.Exit(exitUserError)
	}

	if flagJSON {
		printJSON(page)
		return nil
	}

	if pageShowHTML {
		fmt.Println(wikitext.RenderHTML(page.Body, nil))
		return nil
	}
	fmt.Println(page.Body)
	return nil
}

func runPageList(cmd *cobra.Command, args []string) error {
	backend := mustAttach("page list")
	defer backend.Detach()

	filter := types.Filter{}
	if len(args) == 1 {
		filter["namespace"] = args[0]
	}

	table := mustTable(backend, "page list", types.TablePages)
	results, err := table.Fetch(filter)
	if err != nil {
		fail(exitSysError, "page list", err)
	}

	if flagJSON {
		printJSON(results)
		return nil
	}

	for _, r := range results {
		page := r.(*types.Page)
		fmt.Println(page.Path)
	}
	return nil
}

func runPageDelete(cmd *cobra.Command, args []string) error {
	backend := mustAttach("page delete")
	defer backend.Detach()

	page := findPageByPath(backend, "page delete", args[0])
	if page == nil {
		fmt.Fprintf(os.Stderr, "page delete: no page at %q\n", args[0])
		os.Exit(exitUserError)
	}

	table := mustTable(backend, "page delete", types.TablePages)
	if err := table.Delete(page.PageID); err != nil {
		fail(exitSysError, "page delete", err)
	}

	fmt.Printf("Deleted page %s\n", page.Path)
	return nil
}

// readBodyFile reads a page body from a file, or stdin when path is "-".
func readBodyFile(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// syncPageTasks reconciles checkbox lines in a parsed page body with the
// tasks table. Lines are matched to existing page tasks by summary text.
// New lines become tasks in the "next" state; checked lines complete
// their matching open task. Tasks are never deleted, and finished tasks
// stay done even if the line is unchecked again.
func syncPageTasks(backend *sqlite.Backend, pageID string, doc wikitext.Document) (created, updated int) {
	if len(doc.Tasks) == 0 {
		return 0, 0
	}

	table := mustTable(backend, "page add", types.TableTasks)
	existing, err := table.Fetch(types.Filter{"page_id": pageID})
	if err != nil {
		fail(exitSysError, "page add", err)
	}
	bySummary := make(map[string]*types.Task, len(existing))
	for _, r := range existing {
		task := r.(*types.Task)
		bySummary[task.Summary] = task
	}

	for _, line := range doc.Tasks {
		if line.Summary == "" {
			continue
		}

		task, ok := bySummary[line.Summary]
		if !ok {
			task = &types.Task{
				Summary:  line.Summary,
				State:    types.TaskStateNext,
				PageID:   pageID,
				Priority: line.Priority,
				Due:      line.Due,
			}
			if line.Done {
				now := time.Now()
				task.State = types.TaskStateDone
				task.DoneAt = &now
			}
			id, err := table.Set("", task)
			if err != nil {
				fail(exitSysError, "page add", err)
			}
			for _, name := range line.Tags {
				tag := ensureTag(backend, "page add", name)
				addLink(backend, "page add", types.LinkTypeTaggedWith, id, tag.TagID)
			}
			created++
			continue
		}

		changed := false
		if line.Done && task.IsOpen() {
			if err := task.Done(); err == nil {
				changed = true
			}
		}
		if line.Priority != task.Priority && task.IsOpen() {
			task.SetPriority(line.Priority)
			changed = true
		}
		if line.Due != nil && task.IsOpen() && (task.Due == nil || !task.Due.Equal(*line.Due)) {
			task.Due = line.Due
			changed = true
		}
		if changed {
			if _, err := table.Set(task.TaskID, task); err != nil {
				fail(exitSysError, "page add", err)
			}
			updated++
		}
	}

	return created, updated
}

// syncPageGraph rebuilds the page's outgoing edges from its parsed body:
// refers_to links for wiki link targets that resolve to existing pages,
// and tagged_with links for the tags appearing on the page. Unlike task
// sync, graph edges mirror the current text, so stale edges are removed.
func syncPageGraph(backend *sqlite.Backend, pageID string, doc wikitext.Document) {
	links := mustTable(backend, "page add", types.TableLinks)

	for _, linkType := range []string{types.LinkTypeRefersTo, types.LinkTypeTaggedWith} {
		existing, err := links.Fetch(types.Filter{"from_id": pageID, "link_type": linkType})
		if err != nil {
			fail(exitSysError, "page add", err)
		}
		for _, r := range existing {
			if err := links.Delete(r.(*types.Link).LinkID); err != nil {
				fail(exitSysError, "page add", err)
			}
		}
	}

	for _, link := range doc.Links {
		target := strings.TrimPrefix(link.Target, types.PathSep)
		page := findPageByPath(backend, "page add", target)
		if page == nil || page.PageID == pageID {
			continue
		}
		addLink(backend, "page add", types.LinkTypeRefersTo, pageID, page.PageID)
	}

	for _, name := range doc.Tags {
		tag := ensureTag(backend, "page add", name)
		addLink(backend, "page add", types.LinkTypeTaggedWith, pageID, tag.TagID)
	}
}
