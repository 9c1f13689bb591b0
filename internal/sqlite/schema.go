// Package sqlite implements the SQLite storage backend for a satchel
// notebook. SQLite is the query engine; JSONL files in the data directory
// are the source of truth and are reloaded on every Attach.
package sqlite

// Schema DDL for all tables.
const (
	createPages = `CREATE TABLE pages (
    page_id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTasks = `CREATE TABLE tasks (
    task_id TEXT PRIMARY KEY,
    summary TEXT NOT NULL,
    state TEXT NOT NULL,
    page_id TEXT,
    priority INTEGER NOT NULL DEFAULT 0,
    due TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    done_at TEXT,
    FOREIGN KEY (page_id) REFERENCES pages(page_id)
);`

	createProjects = `CREATE TABLE projects (
    project_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    state TEXT NOT NULL,
    page_path TEXT,
    created_at TEXT NOT NULL,
    completed_at TEXT
);`

	createTags = `CREATE TABLE tags (
    tag_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);`

	createLinks = `CREATE TABLE links (
    link_id TEXT PRIMARY KEY,
    link_type TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxPagesPath     = `CREATE INDEX idx_pages_path ON pages(path);`
	idxTasksState    = `CREATE INDEX idx_tasks_state ON tasks(state);`
	idxTasksDue      = `CREATE INDEX idx_tasks_due ON tasks(due);`
	idxTasksPage     = `CREATE INDEX idx_tasks_page ON tasks(page_id);`
	idxProjectsState = `CREATE INDEX idx_projects_state ON projects(state);`
	idxLinksUnique   = `CREATE UNIQUE INDEX idx_links_unique ON links(link_type, from_id, to_id);`
	idxLinksTypeFrom = `CREATE INDEX idx_links_type_from ON links(link_type, from_id);`
	idxLinksTypeTo   = `CREATE INDEX idx_links_type_to ON links(link_type, to_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createPages,
	createTasks,
	createProjects,
	createTags,
	createLinks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxPagesPath,
	idxTasksState,
	idxTasksDue,
	idxTasksPage,
	idxProjectsState,
	idxLinksUnique,
	idxLinksTypeFrom,
	idxLinksTypeTo,
}
