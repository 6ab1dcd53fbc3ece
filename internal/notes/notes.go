// Package notes flattens album notes into short display entries.
//
// Normalize applies an explicit, ordered rule list to a NoteRecord. Each
// rule appends zero or more entries and later rules may look at what
// earlier rules produced:
//
//  1. blurb          -> plain entry
//  2. title          -> plain entry, only when there is no blurb
//  3. each section   -> {title} then {text} (markup stripped, truncated)
//  4. body           -> plain entry (stripped, truncated), only if nothing
//     else was produced
//
// The output feeds compact summaries such as cards and previews. Detail
// views read the raw note instead and can render its HTML with Markdown.
package notes

import (
	"strings"

	"github.com/handiism/discography/internal/model"
)

// MaxSummaryLength bounds, in code points, every stripped body entry.
const MaxSummaryLength = 200

// rule appends the entries derived from one part of a note.
type rule struct {
	name  string
	apply func(n *model.NoteRecord, out []model.NoteEntry) []model.NoteEntry
}

// rules is evaluated in order; the order is the precedence.
var rules = []rule{
	{"blurb", blurbRule},
	{"title", titleRule},
	{"sections", sectionsRule},
	{"body", bodyRule},
}

// Normalize returns the display entries of n. A nil note yields an empty,
// non-nil slice.
func Normalize(n *model.NoteRecord) []model.NoteEntry {
	out := []model.NoteEntry{}
	if n == nil {
		return out
	}
	for _, r := range rules {
		out = r.apply(n, out)
	}
	return out
}

func blurbRule(n *model.NoteRecord, out []model.NoteEntry) []model.NoteEntry {
	if n.Blurb == "" {
		return out
	}
	return append(out, model.Plain(n.Blurb))
}

// titleRule stands in for a missing blurb; a note never yields both.
func titleRule(n *model.NoteRecord, out []model.NoteEntry) []model.NoteEntry {
	if n.Blurb != "" || n.Title == "" {
		return out
	}
	return append(out, model.Plain(n.Title))
}

func sectionsRule(n *model.NoteRecord, out []model.NoteEntry) []model.NoteEntry {
	for _, s := range n.Sections {
		if s.Title != "" {
			out = append(out, model.Title(s.Title))
		}
		if s.Body != "" {
			out = append(out, model.Text(Summarize(s.Body)))
		}
	}
	return out
}

func bodyRule(n *model.NoteRecord, out []model.NoteEntry) []model.NoteEntry {
	if len(out) > 0 || n.Body == "" {
		return out
	}
	return append(out, model.Plain(Summarize(n.Body)))
}

// Summarize strips markup from s and truncates the result to
// MaxSummaryLength code points.
func Summarize(s string) string {
	return Truncate(StripHTML(s), MaxSummaryLength)
}

// Truncate cuts s to at most n code points. It never splits a multi-byte
// character and appends no ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// collapseSpace folds runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
