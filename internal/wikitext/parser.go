// Package wikitext parses the zim-flavored markup used in page bodies.
//
// The dialect is line oriented: headings are fenced with runs of "=",
// checkbox lines open with "[ ]" or "[*]", wiki links use double square
// brackets, and context tags are "@" words. ParsePage extracts the
// structure; RenderHTML turns a body into escaped HTML.
package wikitext

import (
	"bufio"
	"regexp"
	"strings"
	"time"

	"github.com/inkwell-tools/satchel/pkg/types"
)

// MaxHeadingLevel is the deepest heading the dialect supports (== H5 ==).
const MaxHeadingLevel = 5

// Heading is a section heading. Level 1 is the page title heading
// (====== text ======), level 5 the deepest (== text ==).
type Heading struct {
	Level int
	Text  string
}

// TaskLine is a checkbox line extracted from a page body. Summary is the
// line text with checkbox, priority markers, tags, and due markers
// stripped. Priority counts the "!" markers, Tags the inline "@" words.
type TaskLine struct {
	Summary  string
	Done     bool
	Priority int
	Tags     []string
	Due      *time.Time
}

// Link is an outgoing wiki link. Target is the raw page path as written
// (relative or absolute); Label is the display text, defaulting to Target.
type Link struct {
	Target string
	Label  string
}

// Document is the parsed structure of a page body.
type Document struct {
	Headings []Heading
	Tasks    []TaskLine
	Links    []Link
	Tags     []string
}

var (
	headingRe  = regexp.MustCompile(`^(={2,6})\s+(.+?)\s+=+\s*$`)
	checkboxRe = regexp.MustCompile(`^\s*\[([ *xX])\]\s*(.*)$`)
	linkRe     = regexp.MustCompile(`\[\[([^\]|]+?)(?:\|([^\]]+?))?\]\]`)
	tagRe      = regexp.MustCompile(`(^|\s)@([A-Za-z0-9][A-Za-z0-9_-]*)`)
	dueRe      = regexp.MustCompile(`\[d:\s*([^\]]+)\]`)
	bangRe     = regexp.MustCompile(`!+`)
)

// ParsePage parses a page body. Parsing is lenient: lines that match no
// construct are plain text and contribute only their links and tags.
func ParsePage(body string) Document {
	var doc Document
	seenTags := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if m := headingRe.FindStringSubmatch(line); m != nil {
			level := 7 - len(m[1])
			if level < 1 {
				level = 1
			}
			doc.Headings = append(doc.Headings, Heading{Level: level, Text: strings.TrimSpace(m[2])})
			continue
		}

		for _, lm := range linkRe.FindAllStringSubmatch(line, -1) {
			link := Link{Target: strings.TrimSpace(lm[1])}
			if lm[2] != "" {
				link.Label = strings.TrimSpace(lm[2])
			} else {
				link.Label = link.Target
			}
			doc.Links = append(doc.Links, link)
		}

		lineTags := extractTags(line)
		for _, tag := range lineTags {
			if !seenTags[tag] {
				seenTags[tag] = true
				doc.Tags = append(doc.Tags, tag)
			}
		}

		if m := checkboxRe.FindStringSubmatch(line); m != nil {
			doc.Tasks = append(doc.Tasks, parseTaskLine(m[1], m[2], lineTags))
		}
	}

	return doc
}

// parseTaskLine builds a TaskLine from a checkbox marker and the rest of
// the line.
func parseTaskLine(marker, rest string, tags []string) TaskLine {
	task := TaskLine{
		Done: marker == "*" || marker == "x" || marker == "X",
		Tags: tags,
	}

	if m := dueRe.FindStringSubmatch(rest); m != nil {
		if due, ok := ParseDue(strings.TrimSpace(m[1]), time.Now()); ok {
			task.Due = &due
		}
		rest = dueRe.ReplaceAllString(rest, "")
	}

	for _, run := range bangRe.FindAllString(rest, -1) {
		task.Priority += len(run)
	}
	if task.Priority > types.MaxPriority {
		task.Priority = types.MaxPriority
	}
	rest = bangRe.ReplaceAllString(rest, "")
	rest = tagRe.ReplaceAllString(rest, "$1")

	task.Summary = strings.Join(strings.Fields(rest), " ")
	return task
}

// extractTags returns the "@" words on a line, in order, without the "@".
func extractTags(line string) []string {
	var tags []string
	for _, m := range tagRe.FindAllStringSubmatch(line, -1) {
		tags = append(tags, strings.ToLower(m[2]))
	}
	return tags
}
