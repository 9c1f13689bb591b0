// Tags table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/inkwell-tools/satchel/pkg/types"
)

// Compile-time interface check: tagsTable must implement Table.
var _ types.Table = (*tagsTable)(nil)

// tagsTable implements the Table interface for context tags.
type tagsTable struct {
	backend *Backend
}

// Get retrieves a tag by ID.
func (gt *tagsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	gt.backend.mu.RLock()
	defer gt.backend.mu.RUnlock()
	if err := gt.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := gt.backend.db.QueryRow(
		"SELECT tag_id, name, created_at FROM tags WHERE tag_id = ?", id,
	)
	tag, err := scanTag(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting tag %s: %w", id, err)
	}
	return tag, nil
}

// Set persists a tag. Names are normalized (lowercased, "@" stripped) and
// validated; duplicates yield ErrDuplicateName.
func (gt *tagsTable) Set(id string, data any) (string, error) {
	tag, ok := data.(*types.Tag)
	if !ok {
		return "", types.ErrInvalidData
	}
	tag.Name = types.NormalizeTagName(tag.Name)
	if err := types.ValidateTagName(tag.Name); err != nil {
		return "", err
	}

	gt.backend.mu.Lock()
	defer gt.backend.mu.Unlock()
	if err := gt.backend.checkAttached(); err != nil {
		return "", err
	}

	isCreate := id == "" && tag.TagID == ""
	if isCreate {
		tag.TagID = newUUID()
		tag.CreatedAt = time.Now()
	} else if id != "" {
		tag.TagID = id
	}

	var holder string
	err := gt.backend.db.QueryRow(
		"SELECT tag_id FROM tags WHERE name = ?", tag.Name,
	).Scan(&holder)
	if err == nil && holder != tag.TagID {
		return "", types.ErrDuplicateName
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking tag name: %w", err)
	}

	_, err = gt.backend.db.Exec(`
		INSERT INTO tags (tag_id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(tag_id) DO UPDATE SET
			name = excluded.name`,
		tag.TagID, tag.Name, tag.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting tag: %w", err)
	}

	if err := persistTableJSONL(gt.backend, "tags", "tags.jsonl"); err != nil {
		return "", fmt.Errorf("persisting tags.jsonl: %w", err)
	}
	return tag.TagID, nil
}

// Delete removes a tag and its tagged_with links.
func (gt *tagsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	gt.backend.mu.Lock()
	defer gt.backend.mu.Unlock()
	if err := gt.backend.checkAttached(); err != nil {
		return err
	}

	var exists int
	if err := gt.backend.db.QueryRow(
		"SELECT 1 FROM tags WHERE tag_id = ?", id,
	).Scan(&exists); errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking tag: %w", err)
	}

	tx, err := gt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM links WHERE link_type = 'tagged_with' AND to_id = ?", id); err != nil {
		return fmt.Errorf("deleting tag links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM tags WHERE tag_id = ?", id); err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tag deletion: %w", err)
	}

	if err := persistTableJSONL(gt.backend, "tags", "tags.jsonl"); err != nil {
		return fmt.Errorf("persisting tags.jsonl: %w", err)
	}
	if err := persistTableJSONL(gt.backend, "links", "links.jsonl"); err != nil {
		return fmt.Errorf("persisting links.jsonl: %w", err)
	}
	return nil
}

// Fetch queries tags matching the filter. Supported keys: "name" (exact,
// normalized), "limit", "offset". Results order by name.
func (gt *tagsTable) Fetch(filter types.Filter) ([]any, error) {
	gt.backend.mu.RLock()
	defer gt.backend.mu.RUnlock()
	if err := gt.backend.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT tag_id, name, created_at FROM tags"
	var args []any

	if v, ok := filter["name"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		query += " WHERE name = ?"
		args = append(args, types.NormalizeTagName(name))
	}
	query += " ORDER BY name ASC"

	var err error
	query, err = applyLimitOffset(query, filter)
	if err != nil {
		return nil, err
	}

	rows, err := gt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching tags: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		tag, err := scanTag(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		results = append(results, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	if results == nil {
		results = []any{}
	}
	return results, nil
}

// scanTag converts a SQLite row into a *types.Tag.
func scanTag(scan func(...any) error) (*types.Tag, error) {
	var g types.Tag
	var createdAt string
	if err := scan(&g.TagID, &g.Name, &createdAt); err != nil {
		return nil, err
	}
	var err error
	g.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &g, nil
}
