// First-run seeding of built-in context tags.
package sqlite

import (
	"fmt"
	"time"
)

// builtinTags are the starter GTD contexts created when the tags table is
// empty. Users extend the set through the tags table.
var builtinTags = []string{
	"home",
	"work",
	"phone",
	"errand",
	"waiting",
}

// seedBuiltinTags inserts the built-in context tags when no tags exist yet.
// Runs inside Attach, after JSONL loading, so an existing notebook is never
// re-seeded. Callers must hold b.mu.
func (b *Backend) seedBuiltinTags() error {
	var count int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM tags").Scan(&count); err != nil {
		return fmt.Errorf("counting tags: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().Format(time.RFC3339)
	for _, name := range builtinTags {
		if _, err := b.db.Exec(
			"INSERT INTO tags (tag_id, name, created_at) VALUES (?, ?, ?)",
			newUUID(), name, now,
		); err != nil {
			return fmt.Errorf("seeding tag %s: %w", name, err)
		}
	}

	return persistTableJSONL(b, "tags", "tags.jsonl")
}
