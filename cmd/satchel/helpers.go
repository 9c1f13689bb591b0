// Shared helpers for satchel CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/inkwell-tools/satchel/internal/sqlite"
	"github.com/inkwell-tools/satchel/pkg/types"
)

// validTableNamesStr is a comma-separated list of valid table names for
// error output.
var validTableNamesStr = strings.Join(types.StandardTableNames, ", ")

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// mustAttach attaches the backend or exits with a system error.
func mustAttach(context string) *sqlite.Backend {
	backend, err := attachBackend()
	if err != nil {
		fail(exitSysError, context, err)
	}
	return backend
}

// mustTable fetches a table from the backend or exits.
func mustTable(backend *sqlite.Backend, context, name string) types.Table {
	table, err := backend.GetTable(name)
	if err != nil {
		fail(exitSysError, context, err)
	}
	return table
}

// fail prints the error to stderr and exits with the given code.
func fail(code int, context string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", context, err)
	os.Exit(code)
}

// failf prints a formatted message to stderr and exits with the code.
func failf(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}

// printJSON writes an entity as indented JSON to stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail(exitSysError, "marshal JSON", err)
	}
	fmt.Println(string(out))
}

// parseEntityJSON unmarshals JSON data into the correct entity struct
// based on the table name.
func parseEntityJSON(tableName string, data []byte) (any, error) {
	switch tableName {
	case types.TablePages:
		var e types.Page
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case types.TableTasks:
		var e types.Task
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case types.TableProjects:
		var e types.Project
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case types.TableTags:
		var e types.Tag
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case types.TableLinks:
		var e types.Link
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unknown table %q", tableName)
	}
}

// isTableNotFound returns true if the error wraps ErrTableNotFound.
func isTableNotFound(err error) bool {
	return errors.Is(err, types.ErrTableNotFound)
}

// isEntityNotFound returns true if the error wraps ErrNotFound.
func isEntityNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// isDuplicateName returns true if the error wraps ErrDuplicateName.
func isDuplicateName(err error) bool {
	return errors.Is(err, types.ErrDuplicateName)
}

// shortID trims a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveTask fetches a task by ID or unambiguous ID prefix, exiting with
// a user error when no task matches or the prefix is ambiguous.
func resolveTask(backend *sqlite.Backend, context, id string) *types.Task {
	table := mustTable(backend, context, types.TableTasks)

	entity, err := table.Get(id)
	if err == nil {
		return entity.(*types.Task)
	}
	if !isEntityNotFound(err) {
		fail(exitSysError, context, err)
	}

	// Short IDs from listings are accepted as prefixes.
	results, err := table.Fetch(types.Filter{})
	if err != nil {
		fail(exitSysError, context, err)
	}
	var match *types.Task
	for _, r := range results {
		task := r.(*types.Task)
		if strings.HasPrefix(task.TaskID, id) {
			if match != nil {
				failf(exitUserError, "%s: ambiguous task ID %q", context, id)
			}
			match = task
		}
	}
	if match == nil {
		failf(exitUserError, "%s: no task with ID %q", context, id)
	}
	return match
}

// saveTask persists a task or exits.
func saveTask(backend *sqlite.Backend, context string, task *types.Task) {
	table := mustTable(backend, context, types.TableTasks)
	if _, err := table.Set(task.TaskID, task); err != nil {
		fail(exitSysError, context, err)
	}
}

// findProjectByName returns the project with the given name, or nil.
func findProjectByName(backend *sqlite.Backend, context, name string) *types.Project {
	table := mustTable(backend, context, types.TableProjects)
	results, err := table.Fetch(types.Filter{"name": name})
	if err != nil {
		fail(exitSysError, context, err)
	}
	if len(results) == 0 {
		return nil
	}
	return results[0].(*types.Project)
}

// ensureTag returns the tag with the given name, creating it on demand.
func ensureTag(backend *sqlite.Backend, context, name string) *types.Tag {
	table := mustTable(backend, context, types.TableTags)
	results, err := table.Fetch(types.Filter{"name": name})
	if err != nil {
		fail(exitSysError, context, err)
	}
	if len(results) > 0 {
		return results[0].(*types.Tag)
	}

	tag := &types.Tag{Name: name}
	if _, err := table.Set("", tag); err != nil {
		if errors.Is(err, types.ErrInvalidTag) {
			failf(exitUserError, "%s: invalid tag name %q", context, name)
		}
		fail(exitSysError, context, err)
	}
	return tag
}

// addLink creates a link edge, ignoring duplicates.
func addLink(backend *sqlite.Backend, context, linkType, fromID, toID string) {
	table := mustTable(backend, context, types.TableLinks)
	if _, err := table.Set("", &types.Link{LinkType: linkType, FromID: fromID, ToID: toID}); err != nil {
		fail(exitSysError, context, err)
	}
}

// findPageByPath returns the page at path, or nil.
func findPageByPath(backend *sqlite.Backend, context, path string) *types.Page {
	table := mustTable(backend, context, types.TablePages)
	results, err := table.Fetch(types.Filter{"path": path})
	if err != nil {
		fail(exitSysError, context, err)
	}
	if len(results) == 0 {
		return nil
	}
	return results[0].(*types.Page)
}
