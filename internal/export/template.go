// Package export renders a notebook to a static HTML tree.
package export

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
)

//go:embed default.html
var defaultTemplate string

// Generator is the generator line stamped into exported pages.
const Generator = "satchel"

// NavLink is a navigation entry in the page template.
type NavLink struct {
	Href  string
	Title string
}

// PageContext is the data passed to the page template.
type PageContext struct {
	Title     string
	Body      template.HTML
	Generator string
	Home      *NavLink
	Up        *NavLink
	Prev      *NavLink
	Next      *NavLink
	Index     template.HTML
}

// loadTemplate parses the template file at path, or the embedded default
// when path is empty.
func loadTemplate(path string) (*template.Template, error) {
	text := defaultTemplate
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", path, err)
		}
		text = string(data)
	}

	tmpl, err := template.New("page").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return tmpl, nil
}
