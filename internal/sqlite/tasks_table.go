// Tasks table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-tools/satchel/pkg/types"
)

// Compile-time interface check: tasksTable must implement Table.
var _ types.Table = (*tasksTable)(nil)

// tasksTable implements the Table interface for tasks.
type tasksTable struct {
	backend *Backend
}

// Get retrieves a task by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if no task exists.
func (tt *tasksTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	tt.backend.mu.RLock()
	defer tt.backend.mu.RUnlock()
	if err := tt.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := tt.backend.db.QueryRow(
		"SELECT task_id, summary, state, page_id, priority, due, created_at, updated_at, done_at FROM tasks WHERE task_id = ?",
		id,
	)
	task, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return task, nil
}

// Set persists a task. If id is empty, generates a UUID v7 and creates the
// task in the inbox state unless the caller chose another valid state.
func (tt *tasksTable) Set(id string, data any) (string, error) {
	task, ok := data.(*types.Task)
	if !ok {
		return "", types.ErrInvalidData
	}
	if task.Summary == "" {
		return "", types.ErrInvalidName
	}

	tt.backend.mu.Lock()
	defer tt.backend.mu.Unlock()
	if err := tt.backend.checkAttached(); err != nil {
		return "", err
	}

	now := time.Now()
	isCreate := id == "" && task.TaskID == ""

	if isCreate {
		task.TaskID = newUUID()
		task.CreatedAt = now
		if task.State == "" {
			task.State = types.TaskStateInbox
		}
	} else if id != "" {
		task.TaskID = id
	}
	if !types.IsValidTaskState(task.State) {
		return "", types.ErrInvalidState
	}
	if task.Priority < 0 {
		task.Priority = 0
	}
	if task.Priority > types.MaxPriority {
		task.Priority = types.MaxPriority
	}
	task.UpdatedAt = now

	var pageID sql.NullString
	if task.PageID != "" {
		pageID = sql.NullString{String: task.PageID, Valid: true}
	}
	var due, doneAt sql.NullString
	if task.Due != nil {
		due = sql.NullString{String: task.Due.Format(time.RFC3339), Valid: true}
	}
	if task.DoneAt != nil {
		doneAt = sql.NullString{String: task.DoneAt.Format(time.RFC3339), Valid: true}
	}

	_, err := tt.backend.db.Exec(`
		INSERT INTO tasks (task_id, summary, state, page_id, priority, due, created_at, updated_at, done_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			summary = excluded.summary,
			state = excluded.state,
			page_id = excluded.page_id,
			priority = excluded.priority,
			due = excluded.due,
			updated_at = excluded.updated_at,
			done_at = excluded.done_at`,
		task.TaskID, task.Summary, task.State, pageID, task.Priority, due,
		task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339),
		doneAt)
	if err != nil {
		return "", fmt.Errorf("upserting task: %w", err)
	}

	if err := persistTableJSONL(tt.backend, "tasks", "tasks.jsonl"); err != nil {
		return "", fmt.Errorf("persisting tasks.jsonl: %w", err)
	}
	return task.TaskID, nil
}

// Delete removes a task and its links.
func (tt *tasksTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	tt.backend.mu.Lock()
	defer tt.backend.mu.Unlock()
	if err := tt.backend.checkAttached(); err != nil {
		return err
	}

	var exists int
	if err := tt.backend.db.QueryRow(
		"SELECT 1 FROM tasks WHERE task_id = ?", id,
	).Scan(&exists); errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking task: %w", err)
	}

	tx, err := tt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM links WHERE from_id = ? OR to_id = ?", id, id); err != nil {
		return fmt.Errorf("deleting task links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM tasks WHERE task_id = ?", id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing task deletion: %w", err)
	}

	if err := persistTableJSONL(tt.backend, "tasks", "tasks.jsonl"); err != nil {
		return fmt.Errorf("persisting tasks.jsonl: %w", err)
	}
	if err := persistTableJSONL(tt.backend, "links", "links.jsonl"); err != nil {
		return fmt.Errorf("persisting links.jsonl: %w", err)
	}
	return nil
}

// Fetch queries tasks matching the filter. Supported keys: "states"
// ([]string), "project_id" (membership via belongs_to links), "tag"
// (context name via tagged_with links), "page_id", "due_before"
// (time.Time), "limit", "offset". Results order by due date (tasks without
// a due date last), then priority descending, then creation time.
func (tt *tasksTable) Fetch(filter types.Filter) ([]any, error) {
	tt.backend.mu.RLock()
	defer tt.backend.mu.RUnlock()
	if err := tt.backend.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT task_id, summary, state, page_id, priority, due, created_at, updated_at, done_at FROM tasks"
	var conditions []string
	var args []any

	if v, ok := filter["states"]; ok {
		states, ok := v.([]string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if len(states) > 0 {
			placeholders := make([]string, len(states))
			for i, s := range states {
				placeholders[i] = "?"
				args = append(args, s)
			}
			conditions = append(conditions, "state IN ("+strings.Join(placeholders, ", ")+")")
		}
	}

	if v, ok := filter["project_id"]; ok {
		projectID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions,
			"task_id IN (SELECT from_id FROM links WHERE link_type = 'belongs_to' AND to_id = ?)")
		args = append(args, projectID)
	}

	if v, ok := filter["tag"]; ok {
		tag, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions,
			`task_id IN (SELECT l.from_id FROM links l
				INNER JOIN tags g ON g.tag_id = l.to_id
				WHERE l.link_type = 'tagged_with' AND g.name = ?)`)
		args = append(args, types.NormalizeTagName(tag))
	}

	if v, ok := filter["page_id"]; ok {
		pageID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "page_id = ?")
		args = append(args, pageID)
	}

	if v, ok := filter["due_before"]; ok {
		cutoff, ok := v.(time.Time)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "due IS NOT NULL AND due < ?")
		args = append(args, cutoff.Format(time.RFC3339))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY due IS NULL, due ASC, priority DESC, created_at ASC"

	var err error
	query, err = applyLimitOffset(query, filter)
	if err != nil {
		return nil, err
	}

	rows, err := tt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		results = append(results, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	if results == nil {
		results = []any{}
	}
	return results, nil
}

// scanTask converts a SQLite row into a *types.Task.
func scanTask(scan func(...any) error) (*types.Task, error) {
	var t types.Task
	var pageID, due, doneAt sql.NullString
	var createdAt, updatedAt string
	if err := scan(&t.TaskID, &t.Summary, &t.State, &pageID, &t.Priority, &due, &createdAt, &updatedAt, &doneAt); err != nil {
		return nil, err
	}
	if pageID.Valid {
		t.PageID = pageID.String
	}
	var err error
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if due.Valid {
		d, err := time.Parse(time.RFC3339, due.String)
		if err != nil {
			return nil, fmt.Errorf("parsing due: %w", err)
		}
		t.Due = &d
	}
	if doneAt.Valid {
		d, err := time.Parse(time.RFC3339, doneAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing done_at: %w", err)
		}
		t.DoneAt = &d
	}
	return &t, nil
}
