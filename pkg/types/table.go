package types

import "errors"

// Filter narrows a Table.Fetch query. Keys are table-specific; unknown keys
// are ignored. Values with the wrong dynamic type yield ErrInvalidFilter.
type Filter = map[string]any

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter Filter) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
)

// Entity validation errors.
var (
	ErrInvalidState      = errors.New("invalid state value")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidPath       = errors.New("invalid page path")
	ErrDuplicatePath     = errors.New("page path already exists")
	ErrDuplicateName     = errors.New("name already exists")
	ErrInvalidTag        = errors.New("invalid tag name")
	ErrInvalidFilter     = errors.New("invalid filter value type")
)
