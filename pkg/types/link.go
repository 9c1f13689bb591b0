package types

import "time"

// Link type constants.
const (
	LinkTypeRefersTo   = "refers_to"   // page → page wiki link
	LinkTypeBelongsTo  = "belongs_to"  // task → project membership
	LinkTypeTaggedWith = "tagged_with" // task or page → tag
)

// validLinkTypes is the set of recognized link types.
var validLinkTypes = map[string]bool{
	LinkTypeRefersTo:   true,
	LinkTypeBelongsTo:  true,
	LinkTypeTaggedWith: true,
}

// Link represents a directed edge in the entity graph. Edges are unique on
// (LinkType, FromID, ToID).
type Link struct {
	// LinkID is a UUID v7, generated on creation.
	LinkID string `json:"link_id"`

	// LinkType is the relationship type (refers_to, belongs_to, tagged_with).
	LinkType string `json:"link_type"`

	// FromID is the source entity ID.
	FromID string `json:"from_id"`

	// ToID is the target entity ID.
	ToID string `json:"to_id"`

	// CreatedAt is the timestamp of creation.
	CreatedAt time.Time `json:"created_at"`
}

// IsValidLinkType reports whether the given string is a recognized link type.
func IsValidLinkType(lt string) bool {
	return validLinkTypes[lt]
}
