// Package slug derives URL and filename safe identifiers from titles.
//
// A slug is the join key between album records and note records, the base
// name of probed cover files, and the in-page anchor of an album:
//
//	slug.Slugify("Café  Été")    // "cafe-ete"
//	slug.Slugify("Hello World!") // "hello-world"
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases s, strips diacritics and replaces every run of
// characters outside [a-z0-9] with a single hyphen.
//
// Leading and trailing hyphens are trimmed, so input made only of
// punctuation or whitespace yields "". Callers that need a non-empty key
// must supply their own fallback.
func Slugify(s string) string {
	decomposed := norm.NFKD.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(decomposed))

	pendingHyphen := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// Of returns the slug of the first non-empty candidate.
//
// It mirrors how records are keyed: an explicit slug wins over the title,
// and the title is only consulted when the slug field is blank.
//
//	slug.Of(record.Slug, record.Title)
func Of(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return Slugify(c)
		}
	}
	return ""
}
