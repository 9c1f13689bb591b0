// Command satchel is a local-first GTD notebook: wiki pages, tasks,
// projects, and context tags stored as JSONL files with SQLite as the
// query engine.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
