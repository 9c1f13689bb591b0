package server

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/inkwell-tools/satchel/internal/wikitext"
	"github.com/inkwell-tools/satchel/pkg/types"
)

// handler serves pages and namespace indexes. All responses are rendered
// per request; the notebook is the single source of state.
type handler struct {
	notebook types.Notebook
	logger   *log.Logger
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	pagePath, isDir, err := cleanPath(r.URL.Path)
	if err != nil {
		writeError(w, http.StatusForbidden, "Invalid path")
		return
	}

	if err := h.serve(w, pagePath, isDir); err != nil {
		switch {
		case err == errNoSuchPage:
			writeError(w, http.StatusNotFound, "No such page: "+pagePath)
		case err == errNotHTML:
			writeError(w, http.StatusNotFound, "No such page: "+pagePath)
		default:
			// Unexpected error, do not expose details to the outside world.
			h.logger.Printf("Unexpected error serving %q: %v", pagePath, err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
	}
}

var (
	errNoSuchPage = fmt.Errorf("no such page")
	errNotHTML    = fmt.Errorf("not an html path")
)

// writeError sends a plain-text error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, msg)
}

// cleanPath normalizes a URL path into a colon-separated page path.
// Backslashes count as separators, empty and "." segments drop out, and
// any segment starting with "." is rejected so hidden files and ".." can
// never resolve.
func cleanPath(raw string) (pagePath string, isDir bool, err error) {
	raw = strings.ReplaceAll(raw, `\`, "/")
	isDir = strings.HasSuffix(raw, "/")

	var parts []string
	for _, p := range strings.Split(raw, "/") {
		if p == "" || p == "." {
			continue
		}
		if strings.HasPrefix(p, ".") {
			return "", false, fmt.Errorf("hidden segment in path")
		}
		parts = append(parts, p)
	}

	return strings.Join(parts, types.PathSep), isDir, nil
}

// serve renders the index, a page, or a namespace listing.
func (h *handler) serve(w http.ResponseWriter, pagePath string, isDir bool) error {
	if pagePath == "" {
		return h.renderIndex(w, "")
	}

	if strings.HasSuffix(pagePath, ".html") {
		pagePath = strings.TrimSuffix(pagePath, ".html")
	} else if !isDir {
		return errNotHTML
	}

	table, err := h.notebook.GetTable(types.TablePages)
	if err != nil {
		return err
	}

	results, err := table.Fetch(types.Filter{"path": pagePath})
	if err != nil {
		return err
	}
	if len(results) > 0 {
		page := results[0].(*types.Page)
		if strings.TrimSpace(page.Body) != "" {
			return h.renderPage(w, page)
		}
	}

	// A page without content (or no page at all) may still be a namespace
	// with children.
	children, err := table.Fetch(types.Filter{"namespace": pagePath})
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return h.renderIndex(w, pagePath)
	}

	return errNoSuchPage
}

// renderPage writes a content page.
func (h *handler) renderPage(w http.ResponseWriter, page *types.Page) error {
	body := wikitext.RenderHTML(page.Body, hrefForTarget)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeHeader(w, page.DisplayTitle(), page.Path)
	fmt.Fprintln(w, body)
	writeFooter(w)
	return nil
}

// renderIndex writes the page listing for a namespace ("" for the whole
// notebook).
func (h *handler) renderIndex(w http.ResponseWriter, namespace string) error {
	table, err := h.notebook.GetTable(types.TablePages)
	if err != nil {
		return err
	}

	filter := types.Filter{}
	if namespace != "" {
		filter["namespace"] = namespace
	}
	results, err := table.Fetch(filter)
	if err != nil {
		return err
	}

	title := "Index"
	if namespace != "" {
		title = namespace
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writeHeader(w, title, namespace)
	writeTree(w, results, namespace)
	writeFooter(w)
	return nil
}

// writeTree renders pages as a nested list. Pages arrive sorted by path,
// so depth changes map directly to list nesting.
func writeTree(w http.ResponseWriter, results []any, namespace string) {
	baseDepth := 0
	if namespace != "" {
		baseDepth = len(strings.Split(namespace, types.PathSep))
	}

	depth := 0
	for _, r := range results {
		page := r.(*types.Page)
		d := len(strings.Split(page.Path, types.PathSep)) - baseDepth
		if d < 1 {
			continue
		}
		for depth < d {
			fmt.Fprintln(w, "<ul>")
			depth++
		}
		for depth > d {
			fmt.Fprintln(w, "</ul>")
			depth--
		}
		fmt.Fprintf(w, "<li><a href=\"%s\">%s</a></li>\n",
			html.EscapeString(hrefForTarget(page.Path)),
			html.EscapeString(page.DisplayTitle()))
	}
	for depth > 0 {
		fmt.Fprintln(w, "</ul>")
		depth--
	}
}

// hrefForTarget maps a page path to its URL.
func hrefForTarget(target string) string {
	target = strings.Trim(target, types.PathSep)
	if target == "" {
		return "/"
	}
	segments := strings.Split(target, types.PathSep)
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(segments, "/") + ".html"
}

func writeHeader(w http.ResponseWriter, title, pagePath string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
`, html.EscapeString(title))

	fmt.Fprint(w, `<p class="nav"><a href="/">Home</a>`)
	if parent := parentOf(pagePath); parent != "" {
		fmt.Fprintf(w, ` | <a href="%s">Up</a>`, html.EscapeString(hrefForTarget(parent)))
	}
	fmt.Fprintln(w, `</p>`)
	fmt.Fprintf(w, "<h1>%s</h1>\n", html.EscapeString(title))
}

func writeFooter(w http.ResponseWriter) {
	fmt.Fprintln(w, "</body>\n</html>")
}

func parentOf(pagePath string) string {
	idx := strings.LastIndex(pagePath, types.PathSep)
	if idx < 0 {
		return ""
	}
	return pagePath[:idx]
}
