package wikitext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageHeadings(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Heading
	}{
		{
			name: "title heading",
			body: "====== Renovation ======\n",
			want: []Heading{{Level: 1, Text: "Renovation"}},
		},
		{
			name: "nested levels",
			body: "====== Top ======\n===== Second =====\n== Fifth ==\n",
			want: []Heading{
				{Level: 1, Text: "Top"},
				{Level: 2, Text: "Second"},
				{Level: 5, Text: "Fifth"},
			},
		},
		{
			name: "single equals is not a heading",
			body: "= not a heading =\n",
			want: nil,
		},
		{
			name: "heading needs closing fence",
			body: "====== dangling\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ParsePage(tt.body)
			assert.Equal(t, tt.want, doc.Headings)
		})
	}
}

func TestParsePageTasks(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantSummary  string
		wantDone     bool
		wantPriority int
		wantTags     []string
	}{
		{
			name:        "open checkbox",
			body:        "[ ] Call plumber\n",
			wantSummary: "Call plumber",
		},
		{
			name:        "star checkbox is done",
			body:        "[*] Pay invoice\n",
			wantSummary: "Pay invoice",
			wantDone:    true,
		},
		{
			name:        "x checkbox is done",
			body:        "[x] Old entry\n",
			wantSummary: "Old entry",
			wantDone:    true,
		},
		{
			name:         "priority markers counted and stripped",
			body:         "[ ] !! Fix the leak\n",
			wantSummary:  "Fix the leak",
			wantPriority: 2,
		},
		{
			name:         "priority capped at maximum",
			body:         "[ ] !!!!! Everything is on fire\n",
			wantSummary:  "Everything is on fire",
			wantPriority: 3,
		},
		{
			name:        "inline tags collected and stripped",
			body:        "[ ] Buy compost @errand @garden\n",
			wantSummary: "Buy compost",
			wantTags:    []string{"errand", "garden"},
		},
		{
			name:        "indented checkbox",
			body:        "\t[ ] Sub-item\n",
			wantSummary: "Sub-item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ParsePage(tt.body)
			require.Len(t, doc.Tasks, 1)
			task := doc.Tasks[0]
			assert.Equal(t, tt.wantSummary, task.Summary)
			assert.Equal(t, tt.wantDone, task.Done)
			assert.Equal(t, tt.wantPriority, task.Priority)
			assert.Equal(t, tt.wantTags, task.Tags)
		})
	}
}

func TestParsePageDueDates(t *testing.T) {
	t.Run("exact date", func(t *testing.T) {
		doc := ParsePage("[ ] File taxes [d: 2026-09-15]\n")
		require.Len(t, doc.Tasks, 1)
		task := doc.Tasks[0]
		assert.Equal(t, "File taxes", task.Summary)
		require.NotNil(t, task.Due)
		assert.Equal(t, 2026, task.Due.Year())
		assert.Equal(t, time.September, task.Due.Month())
		assert.Equal(t, 15, task.Due.Day())
	})

	t.Run("natural language", func(t *testing.T) {
		doc := ParsePage("[ ] Water plants [d: tomorrow]\n")
		require.Len(t, doc.Tasks, 1)
		task := doc.Tasks[0]
		assert.Equal(t, "Water plants", task.Summary)
		require.NotNil(t, task.Due)
		assert.True(t, task.Due.After(time.Now()))
	})

	t.Run("unparseable due is dropped", func(t *testing.T) {
		doc := ParsePage("[ ] Vague thing [d: whenever the mood strikes maybe]\n")
		require.Len(t, doc.Tasks, 1)
		assert.Nil(t, doc.Tasks[0].Due)
	})
}

func TestParseDue(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)

	t.Run("date layout", func(t *testing.T) {
		got, ok := ParseDue("2026-12-24", now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 12, 24, 0, 0, 0, 0, time.Local), got)
	})

	t.Run("date and time layout", func(t *testing.T) {
		got, ok := ParseDue("2026-12-24 18:30", now)
		require.True(t, ok)
		assert.Equal(t, 18, got.Hour())
	})

	t.Run("relative expression", func(t *testing.T) {
		got, ok := ParseDue("tomorrow", now)
		require.True(t, ok)
		assert.Equal(t, 31, got.Day())
	})

	t.Run("gibberish fails", func(t *testing.T) {
		_, ok := ParseDue("xyzzy", now)
		assert.False(t, ok)
	})
}

func TestParsePageLinks(t *testing.T) {
	body := "See [[Projects:Garden]] and [[Journal:2026|this year's journal]].\n" +
		"[ ] Review [[Someday]] list\n"
	doc := ParsePage(body)

	require.Len(t, doc.Links, 3)
	assert.Equal(t, Link{Target: "Projects:Garden", Label: "Projects:Garden"}, doc.Links[0])
	assert.Equal(t, Link{Target: "Journal:2026", Label: "this year's journal"}, doc.Links[1])
	assert.Equal(t, Link{Target: "Someday", Label: "Someday"}, doc.Links[2])
}

func TestParsePageTags(t *testing.T) {
	body := "Notes about @Work stuff.\n[ ] Call supplier @phone\nMore @work detail.\n"
	doc := ParsePage(body)

	// Tags are lowercased and de-duplicated across the page.
	assert.Equal(t, []string{"work", "phone"}, doc.Tags)
}

func TestParsePageEmailNotATag(t *testing.T) {
	doc := ParsePage("Mail bob@example.org about the fence.\n")
	assert.Empty(t, doc.Tags)
}

func TestParsePageWholeDocument(t *testing.T) {
	body := `====== Garden ======

Planning notes for the @garden project, see [[Projects:Home]].

===== Spring =====
[ ] ! Order seeds [d: 2026-03-01]
[*] Prune roses
`
	doc := ParsePage(body)

	assert.Len(t, doc.Headings, 2)
	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, "Order seeds", doc.Tasks[0].Summary)
	assert.Equal(t, 1, doc.Tasks[0].Priority)
	assert.NotNil(t, doc.Tasks[0].Due)
	assert.True(t, doc.Tasks[1].Done)
	assert.Equal(t, []string{"garden"}, doc.Tags)
	require.Len(t, doc.Links, 1)
	assert.Equal(t, "Projects:Home", doc.Links[0].Target)
}
