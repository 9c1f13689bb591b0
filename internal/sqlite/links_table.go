// Links table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-tools/satchel/pkg/types"
)

// Compile-time interface check: linksTable must implement Table.
var _ types.Table = (*linksTable)(nil)

// linksTable implements the Table interface for graph edges.
type linksTable struct {
	backend *Backend
}

// Get retrieves a link by ID.
func (lt *linksTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	lt.backend.mu.RLock()
	defer lt.backend.mu.RUnlock()
	if err := lt.backend.checkAttached(); err != nil {
		return nil, err
	}

	row := lt.backend.db.QueryRow(
		"SELECT link_id, link_type, from_id, to_id, created_at FROM links WHERE link_id = ?", id,
	)
	link, err := scanLink(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting link %s: %w", id, err)
	}
	return link, nil
}

// Set persists a link. Edges are unique on (type, from, to); setting an
// existing edge returns its existing ID rather than duplicating it.
func (lt *linksTable) Set(id string, data any) (string, error) {
	link, ok := data.(*types.Link)
	if !ok {
		return "", types.ErrInvalidData
	}
	if link.FromID == "" || link.ToID == "" {
		return "", types.ErrInvalidData
	}
	if !types.IsValidLinkType(link.LinkType) {
		return "", types.ErrInvalidData
	}

	lt.backend.mu.Lock()
	defer lt.backend.mu.Unlock()
	if err := lt.backend.checkAttached(); err != nil {
		return "", err
	}

	isCreate := id == "" && link.LinkID == ""
	if isCreate {
		// An identical edge already present wins.
		var existing string
		err := lt.backend.db.QueryRow(
			"SELECT link_id FROM links WHERE link_type = ? AND from_id = ? AND to_id = ?",
			link.LinkType, link.FromID, link.ToID,
		).Scan(&existing)
		if err == nil {
			link.LinkID = existing
			return existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("checking link: %w", err)
		}
		link.LinkID = newUUID()
		link.CreatedAt = time.Now()
	} else if id != "" {
		link.LinkID = id
	}

	_, err := lt.backend.db.Exec(`
		INSERT INTO links (link_id, link_type, from_id, to_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(link_id) DO UPDATE SET
			link_type = excluded.link_type,
			from_id = excluded.from_id,
			to_id = excluded.to_id`,
		link.LinkID, link.LinkType, link.FromID, link.ToID,
		link.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting link: %w", err)
	}

	if err := persistTableJSONL(lt.backend, "links", "links.jsonl"); err != nil {
		return "", fmt.Errorf("persisting links.jsonl: %w", err)
	}
	return link.LinkID, nil
}

// Delete removes a link by ID.
func (lt *linksTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	lt.backend.mu.Lock()
	defer lt.backend.mu.Unlock()
	if err := lt.backend.checkAttached(); err != nil {
		return err
	}

	var exists int
	if err := lt.backend.db.QueryRow(
		"SELECT 1 FROM links WHERE link_id = ?", id,
	).Scan(&exists); errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking link: %w", err)
	}

	if _, err := lt.backend.db.Exec("DELETE FROM links WHERE link_id = ?", id); err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	if err := persistTableJSONL(lt.backend, "links", "links.jsonl"); err != nil {
		return fmt.Errorf("persisting links.jsonl: %w", err)
	}
	return nil
}

// Fetch queries links matching the filter. Supported keys: "link_type",
// "from_id", "to_id", "limit", "offset". Results order by creation time,
// newest first.
func (lt *linksTable) Fetch(filter types.Filter) ([]any, error) {
	lt.backend.mu.RLock()
	defer lt.backend.mu.RUnlock()
	if err := lt.backend.checkAttached(); err != nil {
		return nil, err
	}

	query := "SELECT link_id, link_type, from_id, to_id, created_at FROM links"
	var conditions []string
	var args []any

	for _, key := range []string{"link_type", "from_id", "to_id"} {
		if v, ok := filter[key]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, types.ErrInvalidFilter
			}
			conditions = append(conditions, key+" = ?")
			args = append(args, s)
		}
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

	rows, err := lt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching links: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		link, err := scanLink(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		results = append(results, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	if results == nil {
		results = []any{}
	}
	return results, nil
}

// scanLink converts a SQLite row into a *types.Link.
func scanLink(scan func(...any) error) (*types.Link, error) {
	var l types.Link
	var createdAt string
	if err := scan(&l.LinkID, &l.LinkType, &l.FromID, &l.ToID, &createdAt); err != nil {
		return nil, err
	}
	var err error
	l.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &l, nil
}
