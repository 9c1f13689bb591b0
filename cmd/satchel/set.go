// Set command creates or updates an entity in a table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <table> <id> <json>",
	Short: "Create or update an entity in a table",
	Long: `Set creates or updates an entity from a JSON payload. Pass an
empty string as the ID to create a new entity.

Valid table names: pages, tasks, projects, tags, links

Example:
  satchel set tasks "" '{"summary": "Buy milk", "state": "inbox"}'
  satchel set pages "" '{"path": "Home", "body": "====== Home ======"}'`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName := args[0]
		entityID := args[1]
		jsonPayload := args[2]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "set:", err)
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

		entity, err := parseEntityJSON(tableName, []byte(jsonPayload))
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse JSON: %s\n", err)
			os.Exit(exitUserError)
		}

		savedID, err := table.Set(entityID, entity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "set entity: %s\n", err)
			os.Exit(exitUserError)
		}

		result, err := table.Get(savedID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get saved entity:", err)
			os.Exit(exitSysError)
		}

		printJSON(result)
		return nil
	},
}
