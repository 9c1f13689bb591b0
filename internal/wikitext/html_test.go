package wikitext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "heading",
			body: "====== Garden ======\n",
			want: "<h1>Garden</h1>\n",
		},
		{
			name: "deep heading",
			body: "== Detail ==\n",
			want: "<h5>Detail</h5>\n",
		},
		{
			name: "paragraph with line break",
			body: "first line\nsecond line\n",
			want: "<p>first line<br>\nsecond line</p>\n",
		},
		{
			name: "blank line splits paragraphs",
			body: "one\n\ntwo\n",
			want: "<p>one</p>\n<p>two</p>\n",
		},
		{
			name: "bold italic verbatim",
			body: "**bold** //italic// ''code''\n",
			want: "<p><b>bold</b> <i>italic</i> <code>code</code></p>\n",
		},
		{
			name: "verbatim keeps markup literal",
			body: "''**x**'' and ''//y//''\n",
			want: "<p><code>**x**</code> and <code>//y//</code></p>\n",
		},
		{
			name: "urls are not italicized",
			body: "see http://a.example and http://b.example\n",
			want: "<p>see http://a.example and http://b.example</p>\n",
		},
		{
			name: "italic still works near a url",
			body: "//really// see http://a.example\n",
			want: "<p><i>really</i> see http://a.example</p>\n",
		},
		{
			name: "open checkbox",
			body: "[ ] Water plants\n",
			want: "<p>&#9744; Water plants</p>\n",
		},
		{
			name: "done checkbox",
			body: "[*] Prune roses\n",
			want: "<p>&#9745; Prune roses</p>\n",
		},
		{
			name: "html is escaped",
			body: "a <script>alert(1)</script> & more\n",
			want: "<p>a &lt;script&gt;alert(1)&lt;/script&gt; &amp; more</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderHTML(tt.body, nil))
		})
	}
}

func TestRenderHTMLLinks(t *testing.T) {
	t.Run("nil resolver uses target as href", func(t *testing.T) {
		got := RenderHTML("see [[Projects:Garden]]\n", nil)
		assert.Equal(t, `<p>see <a href="Projects:Garden">Projects:Garden</a></p>`+"\n", got)
	})

	t.Run("resolver rewrites hrefs", func(t *testing.T) {
		resolve := func(target string) string {
			return "/" + strings.ReplaceAll(target, ":", "/") + ".html"
		}
		got := RenderHTML("see [[Projects:Garden|the garden]]\n", resolve)
		assert.Equal(t, `<p>see <a href="/Projects/Garden.html">the garden</a></p>`+"\n", got)
	})

	t.Run("link inside heading", func(t *testing.T) {
		got := RenderHTML("== See [[Home]] ==\n", nil)
		assert.Equal(t, `<h5>See <a href="Home">Home</a></h5>`+"\n", got)
	})

	t.Run("markup around link", func(t *testing.T) {
		got := RenderHTML("**note** [[A|a]] //aside//\n", nil)
		assert.Equal(t, `<p><b>note</b> <a href="A">a</a> <i>aside</i></p>`+"\n", got)
	})
}
