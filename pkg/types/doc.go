// Package types defines the Notebook and Table interfaces, the entity
// types stored in a satchel notebook (pages, tasks, projects, tags, links),
// and the sentinel errors shared by backends and the CLI.
package types
