package wikitext

import (
	"bufio"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// LinkResolver maps a wiki link target to an href. Renderers supply one so
// the same markup works for the live server and the static export.
type LinkResolver func(target string) string

var (
	boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	// A "//" directly after ":" is a protocol separator, not italics.
	italicRe   = regexp.MustCompile(`(^|[^:])//(.+?)//`)
	verbatimRe = regexp.MustCompile(`''(.+?)''`)
)

// RenderHTML renders a page body to HTML. All text is escaped; wiki link
// targets go through resolve to produce hrefs. A nil resolver leaves the
// target as the href.
func RenderHTML(body string, resolve LinkResolver) string {
	if resolve == nil {
		resolve = func(target string) string { return target }
	}

	var out strings.Builder
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		out.WriteString("<p>")
		out.WriteString(strings.Join(para, "<br>\n"))
		out.WriteString("</p>\n")
		para = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			level := 7 - len(m[1])
			if level < 1 {
				level = 1
			}
			fmt.Fprintf(&out, "<h%d>%s</h%d>\n",
				level, renderInline(strings.TrimSpace(m[2]), resolve), level)
			continue
		}

		if m := checkboxRe.FindStringSubmatch(line); m != nil {
			box := "&#9744;"
			if m[1] != " " {
				box = "&#9745;"
			}
			para = append(para, box+" "+renderInline(m[2], resolve))
			continue
		}

		para = append(para, renderInline(line, resolve))
	}
	flush()

	return out.String()
}

// renderInline escapes a line and applies inline markup and wiki links.
func renderInline(line string, resolve LinkResolver) string {
	var out strings.Builder
	last := 0
	for _, idx := range linkRe.FindAllStringSubmatchIndex(line, -1) {
		out.WriteString(renderMarkup(line[last:idx[0]]))

		target := strings.TrimSpace(line[idx[2]:idx[3]])
		label := target
		if idx[4] >= 0 {
			label = strings.TrimSpace(line[idx[4]:idx[5]])
		}
		fmt.Fprintf(&out, `<a href="%s">%s</a>`,
			html.EscapeString(resolve(target)), escapeText(label))

		last = idx[1]
	}
	out.WriteString(renderMarkup(line[last:]))
	return out.String()
}

// renderMarkup escapes text and applies bold, italic, and verbatim spans.
// Verbatim content stays literal, so those spans are lifted out before the
// other substitutions run and restored afterwards.
func renderMarkup(text string) string {
	var spans []string
	text = verbatimRe.ReplaceAllStringFunc(text, func(m string) string {
		spans = append(spans, "<code>"+escapeText(m[2:len(m)-2])+"</code>")
		return fmt.Sprintf("\x00%d\x00", len(spans)-1)
	})

	escaped := escapeText(text)
	escaped = boldRe.ReplaceAllString(escaped, "<b>$1</b>")
	escaped = italicRe.ReplaceAllString(escaped, "$1<i>$2</i>")

	for i, span := range spans {
		escaped = strings.Replace(escaped, fmt.Sprintf("\x00%d\x00", i), span, 1)
	}
	return escaped
}

// escapeText escapes element content. Quotes survive so ''verbatim'' spans
// still match after escaping.
func escapeText(text string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(text)
}
