package types

import "errors"

// Notebook is the backend-agnostic storage interface. Callers attach to a
// backend, access entity tables by name, and detach when done.
type Notebook interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Notebook to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations on tables return ErrNotebookDetached.
	Detach() error
}

// Notebook lifecycle errors.
var (
	ErrNotebookDetached = errors.New("notebook is detached")
	ErrAlreadyAttached  = errors.New("notebook is already attached")
	ErrTableNotFound    = errors.New("table not found")
)
