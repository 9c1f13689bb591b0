package wikitext

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// dueLayouts are tried before falling back to natural-language parsing.
var dueLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
}

// ParseDue parses a due-date expression. Exact layouts are tried first
// ("2026-09-15"); anything else goes through natural-language parsing
// ("next friday", "in 2 weeks") relative to now in the local timezone.
func ParseDue(text string, now time.Time) (time.Time, bool) {
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, true
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(text, now)
	if err != nil || result == nil {
		return time.Time{}, false
	}
	return result.Time, true
}
