package export

import (
	"fmt"
	"html"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkwell-tools/satchel/internal/wikitext"
	"github.com/inkwell-tools/satchel/pkg/types"
)

// Exporter writes every page of a notebook as a static HTML file, with an
// index.html listing the page tree.
type Exporter struct {
	notebook types.Notebook
	tmpl     *template.Template
}

// New creates an Exporter. templatePath selects a custom page template;
// empty means the embedded default.
func New(notebook types.Notebook, templatePath string) (*Exporter, error) {
	tmpl, err := loadTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	return &Exporter{notebook: notebook, tmpl: tmpl}, nil
}

// Export renders all pages into outDir. Namespaces become directories
// (Projects:Garden -> Projects/Garden.html) and wiki links resolve to
// relative hrefs so the tree works from any location.
func (e *Exporter) Export(outDir string) error {
	table, err := e.notebook.GetTable(types.TablePages)
	if err != nil {
		return err
	}

	results, err := table.Fetch(nil)
	if err != nil {
		return fmt.Errorf("fetching pages: %w", err)
	}

	pages := make([]*types.Page, len(results))
	byPath := make(map[string]bool, len(results))
	for i, r := range results {
		pages[i] = r.(*types.Page)
		byPath[pages[i].Path] = true
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for i := range pages {
		if err := e.exportPage(outDir, pages, byPath, i); err != nil {
			return err
		}
	}

	return e.exportIndex(outDir, pages)
}

// exportPage renders one page to its file.
func (e *Exporter) exportPage(outDir string, pages []*types.Page, byPath map[string]bool, i int) error {
	page := pages[i]
	segments := strings.Split(page.Path, types.PathSep)
	prefix := strings.Repeat("../", len(segments)-1)

	resolve := func(target string) string {
		return prefix + hrefFor(target)
	}

	ctx := PageContext{
		Title:     page.DisplayTitle(),
		Body:      template.HTML(wikitext.RenderHTML(page.Body, resolve)),
		Generator: Generator,
		Home:      homeLink(prefix, byPath),
	}

	if parent := types.ParentPath(page.Path); parent != "" && byPath[parent] {
		ctx.Up = &NavLink{Href: prefix + hrefFor(parent), Title: parent}
	}
	if i > 0 {
		ctx.Prev = &NavLink{Href: prefix + hrefFor(pages[i-1].Path), Title: pages[i-1].DisplayTitle()}
	}
	if i < len(pages)-1 {
		ctx.Next = &NavLink{Href: prefix + hrefFor(pages[i+1].Path), Title: pages[i+1].DisplayTitle()}
	}

	outPath := filepath.Join(outDir, filepath.Join(segments...)+".html")
	return e.writeFile(outPath, ctx)
}

// exportIndex writes index.html with the full page tree.
func (e *Exporter) exportIndex(outDir string, pages []*types.Page) error {
	ctx := PageContext{
		Title:     "Index",
		Generator: Generator,
		Index:     template.HTML(renderTree(pages)),
	}
	return e.writeFile(filepath.Join(outDir, "index.html"), ctx)
}

// writeFile renders the template into path, creating parent directories.
func (e *Exporter) writeFile(path string, ctx PageContext) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := e.tmpl.Execute(f, ctx); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return f.Close()
}

// renderTree renders the nested page list with hrefs relative to outDir.
func renderTree(pages []*types.Page) string {
	var out strings.Builder
	depth := 0
	for _, page := range pages {
		d := len(strings.Split(page.Path, types.PathSep))
		for depth < d {
			out.WriteString("<ul>\n")
			depth++
		}
		for depth > d {
			out.WriteString("</ul>\n")
			depth--
		}
		fmt.Fprintf(&out, "<li><a href=\"%s\">%s</a></li>\n",
			html.EscapeString(hrefFor(page.Path)),
			html.EscapeString(page.DisplayTitle()))
	}
	for depth > 0 {
		out.WriteString("</ul>\n")
		depth--
	}
	return out.String()
}

// homeLink points at the Home page when one exists, else at index.html.
func homeLink(prefix string, byPath map[string]bool) *NavLink {
	if byPath["Home"] {
		return &NavLink{Href: prefix + hrefFor("Home"), Title: "Home"}
	}
	return &NavLink{Href: prefix + "index.html", Title: "Index"}
}

// hrefFor maps a page path to its exported file, relative to the export
// root.
func hrefFor(target string) string {
	target = strings.Trim(target, types.PathSep)
	segments := strings.Split(target, types.PathSep)
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/") + ".html"
}
