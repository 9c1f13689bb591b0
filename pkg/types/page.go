package types

import (
	"strings"
	"time"
)

// PathSep separates namespace segments in a page path, e.g.
// "Projects:Home:Renovation".
const PathSep = ":"

// Page represents a wiki page in the notebook. A page's Path places it in
// the namespace hierarchy; a page acts as a namespace when other pages
// extend its path. Body holds wikitext markup.
type Page struct {
	PageID    string    `json:"page_id"`
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidatePath checks that a page path is well-formed: non-empty, no empty
// segments, and no segment starting with "." or "+". Returns ErrInvalidPath
// on failure.
func ValidatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}
	for _, seg := range strings.Split(path, PathSep) {
		if seg == "" {
			return ErrInvalidPath
		}
		if strings.HasPrefix(seg, ".") || strings.HasPrefix(seg, "+") {
			return ErrInvalidPath
		}
	}
	return nil
}

// ParentPath returns the namespace containing the path, or "" for a
// top-level page.
func ParentPath(path string) string {
	i := strings.LastIndex(path, PathSep)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// Basename returns the final segment of a page path.
func Basename(path string) string {
	i := strings.LastIndex(path, PathSep)
	if i < 0 {
		return path
	}
	return path[i+len(PathSep):]
}

// IsAncestorOf reports whether ancestor strictly contains path in its
// namespace. The empty path is the root and contains every page.
func IsAncestorOf(ancestor, path string) bool {
	if ancestor == "" {
		return path != ""
	}
	return strings.HasPrefix(path, ancestor+PathSep)
}

// DisplayTitle returns the page title, falling back to the path basename
// when no explicit title is set.
func (p *Page) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return Basename(p.Path)
}

// Rename moves the page to a new path. Returns ErrInvalidPath if the new
// path is malformed. The caller must persist via Table.Set; the backend
// rejects the change when the target path is taken.
func (p *Page) Rename(newPath string) error {
	if err := ValidatePath(newPath); err != nil {
		return err
	}
	p.Path = newPath
	p.UpdatedAt = time.Now()
	return nil
}
