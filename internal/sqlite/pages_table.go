// Pages table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-tools/satchel/pkg/types"
)

// Compile-time interface check: pagesTable must implement Table.
var _ types.Table = (*pagesTable)(nil)

// pagesTable implements the Table interface for wiki pages. Each operation
// hydrates/dehydrates between SQLite rows and *types.Page structs, and
// persists changes to pages.jsonl atomically.
type pagesTable struct {
	backend *Backend
}

// Get retrieves a page by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if no page exists.
func (pt *pagesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()
	if err := pt.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := pt.backend.db.QueryRow(
		"SELECT page_id, path, title, body, created_at, updated_at FROM pages WHERE page_id = ?",
		id,
	)
	page, err := scanPage(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting page %s: %w", id, err)
	}
	return page, nil
}

// Set persists a page. If id is empty, generates a UUID v7 and creates the
// page. Page paths are validated and must be unique; a conflicting path on
// another page yields ErrDuplicatePath.
func (pt *pagesTable) Set(id string, data any) (string, error) {
	page, ok := data.(*types.Page)
	if !ok {
		return "", types.ErrInvalidData
	}
	if err := types.ValidatePath(page.Path); err != nil {
		return "", err
	}

	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()
	if err := pt.backend.checkAttached(); err != nil {
		return "", err
	}

	now := time.Now()
	isCreate := id == "" && page.PageID == ""

	if isCreate {
		page.PageID = newUUID()
		page.CreatedAt = now
	} else if id != "" {
		page.PageID = id
	}
	page.UpdatedAt = now

	// Reject a path held by a different page.
	var holder string
	err := pt.backend.db.QueryRow(
		"SELECT page_id FROM pages WHERE path = ?", page.Path,
	).Scan(&holder)
	if err == nil && holder != page.PageID {
		return "", types.ErrDuplicatePath
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking page path: %w", err)
	}

	_, err = pt.backend.db.Exec(`
		INSERT INTO pages (page_id, path, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(page_id) DO UPDATE SET
			path = excluded.path,
			title = excluded.title,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		page.PageID, page.Path, page.Title, page.Body,
		page.CreatedAt.Format(time.RFC3339),
		page.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting page: %w", err)
	}

	if err := persistTableJSONL(pt.backend, "pages", "pages.jsonl"); err != nil {
		return "", fmt.Errorf("persisting pages.jsonl: %w", err)
	}
	return page.PageID, nil
}

// Delete removes a page. Tasks extracted from the page survive with their
// page reference cleared; the page's links are removed.
func (pt *pagesTable) Delete(id string) error {
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
		"SELECT 1 FROM pages WHERE page_id = ?", id,
	).Scan(&exists); errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking page: %w", err)
	}

	tx, err := pt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Orphaned tasks keep their history; only the page reference goes.
	if _, err := tx.Exec("UPDATE tasks SET page_id = NULL WHERE page_id = ?", id); err != nil {
		return fmt.Errorf("clearing task page references: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM links WHERE from_id = ? OR to_id = ?", id, id); err != nil {
		return fmt.Errorf("deleting page links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM pages WHERE page_id = ?", id); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing page deletion: %w", err)
	}

	for _, p := range []struct{ table, file string }{
		{"pages", "pages.jsonl"},
		{"tasks", "tasks.jsonl"},
		{"links", "links.jsonl"},
	} {
		if err := persistTableJSONL(pt.backend, p.table, p.file); err != nil {
			return fmt.Errorf("persisting %s: %w", p.file, err)
		}
	}
	return nil
}

// Fetch queries pages matching the filter, ordered by path.
// Supported filter keys: "path" (exact match), "namespace" (pages strictly
// below the given namespace; "" means all pages), "limit", "offset".
func (pt *pagesTable) Fetch(filter types.Filter) ([]any, error) {
	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()
	if err := pt.backend.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT page_id, path, title, body, created_at, updated_at FROM pages"
	var conditions []string
	var args []any

	if v, ok := filter["path"]; ok {
		path, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "path = ?")
		args = append(args, path)
	}

	if v, ok := filter["namespace"]; ok {
		ns, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if ns != "" {
			conditions = append(conditions, "path LIKE ? ESCAPE '\\'")
			args = append(args, likePrefix(ns+types.PathSep))
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY path ASC"

	var err error
	query, err = applyLimitOffset(query, filter)
	if err != nil {
		return nil, err
	}

	rows, err := pt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching pages: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		page, err := scanPage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		results = append(results, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}
	if results == nil {
		results = []any{}
	}
	return results, nil
}

// scanPage converts a SQLite row into a *types.Page. The scan argument
// works for both sql.Row and sql.Rows.
func scanPage(scan func(...any) error) (*types.Page, error) {
	var p types.Page
	var createdAt, updatedAt string
	if err := scan(&p.PageID, &p.Path, &p.Title, &p.Body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

// likePrefix escapes LIKE metacharacters in a literal prefix.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}

// applyLimitOffset appends LIMIT/OFFSET clauses from the filter. SQLite
// only accepts OFFSET after a LIMIT, so a lone offset gets LIMIT -1
// (unbounded).
func applyLimitOffset(query string, filter types.Filter) (string, error) {
	limit := -1
	if v, ok := filter["limit"]; ok {
		n, ok := toInt(v)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if n > 0 {
			limit = n
		}
	}

	offset := 0
	if v, ok := filter["offset"]; ok {
		n, ok := toInt(v)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if n > 0 {
			offset = n
		}
	}

	if limit > 0 || offset > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}
	return query, nil
}

// toInt accepts the integer types a filter value may arrive as, including
// float64 from decoded JSON.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
