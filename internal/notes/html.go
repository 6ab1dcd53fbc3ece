package notes

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// tagPattern is the fallback used when a fragment cannot be parsed.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// markdown converts note bodies for detail views.
var markdown = md.NewConverter("", true, nil)

// StripHTML returns the text content of an HTML fragment.
//
// The fragment is parsed as HTML, so entities are decoded ("&amp;" -> "&")
// and no tag survives. Whitespace runs, including the line breaks left
// between block elements, collapse to single spaces.
//
//	StripHTML("<p>Recorded in <b>Berlin</b> &amp; Oslo</p>") // "Recorded in Berlin & Oslo"
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(tagPattern.ReplaceAllString(s, ""))
	}
	return collapseSpace(doc.Text())
}

// Markdown renders an HTML fragment as Markdown for full-length display.
//
// Plain text passes through unchanged. If conversion fails the stripped
// text is returned instead, so callers always get something readable.
func Markdown(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	out, err := markdown.ConvertString(s)
	if err != nil {
		return StripHTML(s)
	}
	return strings.TrimSpace(out)
}
