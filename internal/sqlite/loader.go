// JSONL loading for startup.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// jsonlTableMapping maps JSONL filenames to their SQLite tables and column
// lists. The order matters: tables with foreign keys load after their
// referenced tables.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{"pages.jsonl", "pages", []string{"page_id", "path", "title", "body", "created_at", "updated_at"}},
	{"tasks.jsonl", "tasks", []string{"task_id", "summary", "state", "page_id", "priority", "due", "created_at", "updated_at", "done_at"}},
	{"projects.jsonl", "projects", []string{"project_id", "name", "state", "page_path", "created_at", "completed_at"}},
	{"tags.jsonl", "tags", []string{"tag_id", "name", "created_at"}},
	{"links.jsonl", "links", []string{"link_id", "link_type", "from_id", "to_id", "created_at"}},
}

// initJSONLFiles creates empty JSONL files for any that do not yet exist,
// so a fresh data directory is immediately well-formed.
func (b *Backend) initJSONLFiles() error {
	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(b.config.DataDir, mapping.file)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", mapping.file, err)
		}
		if err := writeJSONL(path, nil); err != nil {
			return fmt.Errorf("creating %s: %w", mapping.file, err)
		}
	}
	return nil
}

// loadAllJSONL reads each JSONL file from DataDir and inserts records into
// the corresponding SQLite tables. Loading is transactional: all succeed or
// the database stays empty. Malformed lines are skipped by readJSONL, and
// unknown fields in records are silently ignored so newer generations of
// the files remain loadable.
func (b *Backend) loadAllJSONL() error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	// Disable foreign keys during loading, re-enable after.
	if _, err := tx.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disabling foreign keys for load: %w", err)
	}

	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(b.config.DataDir, mapping.file)
		records, err := readJSONL(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("re-enabling foreign keys: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// columnDefaults supplies values for NOT NULL columns that a hand-edited
// record may omit. Column names do not collide across tables.
var columnDefaults = map[string]any{
	"title":    "",
	"body":     "",
	"priority": 0,
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only
// columns listed in the mapping are extracted; extra fields do not cause
// errors, absent columns fall back to their defaults, and records that
// still violate a constraint are skipped like malformed lines — one bad
// merge must not make the notebook unopenable.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var fields map[string]any
		if err := json.Unmarshal(rec, &fields); err != nil {
			// Skip records that fail to parse as objects.
			continue
		}
		args := make([]any, len(columns))
		for i, col := range columns {
			v, ok := fields[col]
			if !ok {
				v = columnDefaults[col]
			}
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}
	return nil
}
