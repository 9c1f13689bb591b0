package types

// Standard table names for Notebook.GetTable.
const (
	TablePages    = "pages"
	TableTasks    = "tasks"
	TableProjects = "projects"
	TableTags     = "tags"
	TableLinks    = "links"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TablePages,
	TableTasks,
	TableProjects,
	TableTags,
	TableLinks,
}
