// Delete command removes an entity from a table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <id>",
	Short: "Delete an entity by ID",
	Long: `Delete removes an entity from the specified table. Deleting a
page detaches its tasks and removes its links; deleting a tag removes
its tagged_with links.

Valid table names: pages, tasks, projects, tags, links`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName := args[0]
		id := args[1]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
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

		if err := table.Delete(id); err != nil {
			if isEntityNotFound(err) {
				fmt.Fprintf(os.Stderr, "entity %q not found in table %q\n", id, tableName)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "delete entity:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Deleted %s from %s\n", id, tableName)
		return nil
	},
}
