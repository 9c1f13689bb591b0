// Projects table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-tools/satchel/pkg/types"
)

// Compile-time interface check: projectsTable must implement Table.
var _ types.Table = (*projectsTable)(nil)

// projectsTable implements the Table interface for projects. Completing or
// dropping a project cascades onto its belongs_to links and member tasks.
type projectsTable struct {
	backend *Backend
}

// Get retrieves a project by ID.
func (pt *projectsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()
	if err := pt.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := pt.backend.db.QueryRow(
		"SELECT project_id, name, state, page_path, created_at, completed_at FROM projects WHERE project_id = ?",
		id,
	)
	project, err := scanProject(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return project, nil
}

// Set persists a project. If id is empty, generates a UUID v7 and creates
// the project in the open state. Project names are unique; a duplicate
// yields ErrDuplicateName. When an open project transitions to completed
// the backend removes its belongs_to links (releasing tasks); when it
// transitions to dropped the backend also drops its remaining open tasks.
func (pt *projectsTable) Set(id string, data any) (string, error) {
	project, ok := data.(*types.Project)
	if !ok {
		return "", types.ErrInvalidData
	}
	if project.Name == "" {
		return "", types.ErrInvalidName
	}

	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()
	if err := pt.backend.checkAttached(); err != nil {
		return "", err
	}

	now := time.Now()
	isCreate := id == "" && project.ProjectID == ""

	// Capture the previous state for the transition cascades.
	var oldState string
	if !isCreate {
		effectiveID := id
		if effectiveID == "" {
			effectiveID = project.ProjectID
		}
		_ = pt.backend.db.QueryRow(
			"SELECT state FROM projects WHERE project_id = ?", effectiveID,
		).Scan(&oldState)
	}

	if isCreate {
		project.ProjectID = newUUID()
		project.CreatedAt = now
		if project.State == "" {
			project.State = types.ProjectStateOpen
		}
	} else if id != "" {
		project.ProjectID = id
	}

	if isCreate {
		var existing int
		err := pt.backend.db.QueryRow(
			"SELECT 1 FROM projects WHERE name = ?", project.Name,
		).Scan(&existing)
		if err == nil {
			return "", types.ErrDuplicateName
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("checking project name: %w", err)
		}
	}

	var pagePath, completedAt sql.NullString
	if project.PagePath != "" {
		pagePath = sql.NullString{String: project.PagePath, Valid: true}
	}
	if project.CompletedAt != nil {
		completedAt = sql.NullString{String: project.CompletedAt.Format(time.RFC3339), Valid: true}
	}

	_, err := pt.backend.db.Exec(`
		INSERT INTO projects (project_id, name, state, page_path, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			name = excluded.name,
			state = excluded.state,
			page_path = excluded.page_path,
			completed_at = excluded.completed_at`,
		project.ProjectID, project.Name, project.State, pagePath,
		project.CreatedAt.Format(time.RFC3339),
		completedAt)
	if err != nil {
		return "", fmt.Errorf("upserting project: %w", err)
	}

	if oldState == types.ProjectStateOpen {
		switch project.State {
		case types.ProjectStateCompleted:
			if err := pt.releaseTasks(project.ProjectID); err != nil {
				return "", err
			}
		case types.ProjectStateDropped:
			if err := pt.dropTasks(project.ProjectID); err != nil {
				return "", err
			}
		}
	}

	if err := persistTableJSONL(pt.backend, "projects", "projects.jsonl"); err != nil {
		return "", fmt.Errorf("persisting projects.jsonl: %w", err)
	}
	return project.ProjectID, nil
}

// releaseTasks removes belongs_to links so member tasks stand alone.
func (pt *projectsTable) releaseTasks(projectID string) error {
	if _, err := pt.backend.db.Exec(
		"DELETE FROM links WHERE link_type = 'belongs_to' AND to_id = ?", projectID,
	); err != nil {
		return fmt.Errorf("releasing project tasks: %w", err)
	}
	return persistTableJSONL(pt.backend, "links", "links.jsonl")
}

// dropTasks drops the project's remaining open tasks and removes the
// membership links.
func (pt *projectsTable) dropTasks(projectID string) error {
	openStates := []string{
		types.TaskStateInbox,
		types.TaskStateNext,
		types.TaskStateWaiting,
		types.TaskStateScheduled,
		types.TaskStateSomeday,
	}
	placeholders := make([]string, len(openStates))
	args := []any{time.Now().Format(time.RFC3339), projectID}
	for i, s := range openStates {
		placeholders[i] = "?"
		args = append(args, s)
	}

	query := fmt.Sprintf(`
		UPDATE tasks SET state = 'dropped', updated_at = ?
		WHERE task_id IN (SELECT from_id FROM links WHERE link_type = 'belongs_to' AND to_id = ?)
		AND state IN (%s)`, strings.Join(placeholders, ", "))
	if _, err := pt.backend.db.Exec(query, args...); err != nil {
		return fmt.Errorf("dropping project tasks: %w", err)
	}

	if _, err := pt.backend.db.Exec(
		"DELETE FROM links WHERE link_type = 'belongs_to' AND to_id = ?", projectID,
	); err != nil {
		return fmt.Errorf("removing project links: %w", err)
	}

	if err := persistTableJSONL(pt.backend, "tasks", "tasks.jsonl"); err != nil {
		return err
	}
	return persistTableJSONL(pt.backend, "links", "links.jsonl")
}

// Delete removes a project and its membership links. Tasks survive.
func (pt *projectsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()
	if err := pt.backend.checkAttached(); err != nil {
		return err
	}

	var exists int
	if err := pt.backend.db.QueryRow(
		"SELECT 1 FROM projects WHERE project_id = ?", id,
	).Scan(&exists); errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking project: %w", err)
	}

	tx, err := pt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM links WHERE from_id = ? OR to_id = ?", id, id); err != nil {
		return fmt.Errorf("deleting project links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM projects WHERE project_id = ?", id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing project deletion: %w", err)
	}

	if err := persistTableJSONL(pt.backend, "projects", "projects.jsonl"); err != nil {
		return fmt.Errorf("persisting projects.jsonl: %w", err)
	}
	if err := persistTableJSONL(pt.backend, "links", "links.jsonl"); err != nil {
		return fmt.Errorf("persisting links.jsonl: %w", err)
	}
	return nil
}

// Fetch queries projects matching the filter. Supported keys: "states"
// ([]string), "name" (exact match), "limit", "offset". Results order by
// creation time, newest first.
func (pt *projectsTable) Fetch(filter types.Filter) ([]any, error) {
	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()
	if err := pt.backend.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT project_id, name, state, page_path, created_at, completed_at FROM projects"
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

	if v, ok := filter["name"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "name = ?")
		args = append(args, name)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var err error
	query, err = applyLimitOffset(query, filter)
	if err != nil {
		return nil, err
	}

	rows, err := pt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		project, err := scanProject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		results = append(results, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	if results == nil {
		results = []any{}
	}
	return results, nil
}

// scanProject converts a SQLite row into a *types.Project.
func scanProject(scan func(...any) error) (*types.Project, error) {
	var p types.Project
	var pagePath, completedAt sql.NullString
	var createdAt string
	if err := scan(&p.ProjectID, &p.Name, &p.State, &pagePath, &createdAt, &completedAt); err != nil {
		return nil, err
	}
	if pagePath.Valid {
		p.PagePath = pagePath.String
	}
	var err error
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if completedAt.Valid {
		ct, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at: %w", err)
		}
		p.CompletedAt = &ct
	}
	return &p, nil
}
