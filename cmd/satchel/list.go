// List command queries entities from a table with optional filtering.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <table> [filter...]",
	Short: "List entities with optional filter",
	Long: `List queries entities from the specified table with optional
filters. Filters are key=value pairs and are ANDed together; values are
parsed as JSON when possible, so lists and numbers work. An empty filter
returns all entities.

Valid table names: pages, tasks, projects, tags, links

Example:
  satchel list tasks
  satchel list tasks 'states=["next","waiting"]'
  satchel list pages namespace=Projects
  satchel list links link_type=tagged_with`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName := args[0]
		filterArgs := args[1:]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		table, err := backend.GetTable(tableName)
		if err != nil {
			if isTableNotFound(err) {
				fmt.Fprintf(os.Stderr, "unknown table %q (valid: %s)\n", tableName, validTableNamesStr)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		filter := make(map[string]any)
		for _, arg := range filterArgs {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) != 2 {
				fmt.Fprintf(os.Stderr, "invalid filter %q (expected key=value)\n", arg)
				os.Exit(exitUserError)
			}
			key := parts[0]
			value := parts[1]

			// Structured values (lists, numbers) parse as JSON; anything
			// else is a plain string.
			var parsed any
			if err := json.Unmarshal([]byte(value), &parsed); err != nil {
				parsed = value
			}
			filter[key] = normalizeFilterValue(parsed)
		}

		entities, err := table.Fetch(filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch entities: %s\n", err)
			os.Exit(exitUserError)
		}

		printJSON(entities)
		return nil
	},
}

// normalizeFilterValue converts JSON-decoded string lists to []string so
// they match the filter types the tables expect.
func normalizeFilterValue(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	strs := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return v
		}
		strs[i] = s
	}
	return strs
}
