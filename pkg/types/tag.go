package types

import (
	"strings"
	"time"
	"unicode"
)

// Tag represents a context or label attached to tasks and pages, e.g.
// "home", "phone", "errand". Names are stored without the "@" marker used
// in wikitext.
type Tag struct {
	TagID     string    `json:"tag_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeTagName lowercases a tag name and strips a leading "@".
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, "@"))
}

// ValidateTagName checks that a normalized tag name is non-empty and
// contains only letters, digits, "-" and "_". Returns ErrInvalidTag on
// failure.
func ValidateTagName(name string) error {
	if name == "" {
		return ErrInvalidTag
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			continue
		}
		return ErrInvalidTag
	}
	return nil
}
