// Package discography selects and labels albums for display.
//
// The helpers here sit between the repository and the front ends (CLI,
// TUI). They never mutate their input; functions that reorder return a new
// slice.
//
// # Home Layout
//
//	home := discography.Newest(albums, release.Default)
//	fmt.Println(home.HighlightTitle) // "Upcoming Releases" or "Newest Release"
//	for _, a := range home.Highlight { ... }
//	for _, a := range home.Rest { ... }
//
// # Music Layout
//
//	sorted := discography.SortByDateDesc(albums)
//	hero, ok := discography.Hero(sorted)
package discography

import (
	"cmp"
	"slices"
	"strings"

	"github.com/handiism/discography/internal/model"
	"github.com/handiism/discography/internal/release"
)

// Labels are the fixed UI strings.
type Labels struct {
	Upcoming         string
	NewestRelease    string
	UpcomingReleases string
	Featured         string
	LatestRelease    string
	Single           string
	NoFeatured       string
	NoMatches        string
	LoadError        string
}

// DefaultLabels returns the site's English labels.
func DefaultLabels() Labels {
	return Labels{
		Upcoming:         release.UpcomingLabel,
		NewestRelease:    "Newest Release",
		UpcomingReleases: "Upcoming Releases",
		Featured:         "Featured",
		LatestRelease:    "Latest Release",
		Single:           "Single",
		NoFeatured:       "No featured release.",
		NoMatches:        "No matching releases.",
		LoadError:        "Couldn’t load albums right now. Please try again later.",
	}
}

// Featured returns the first album flagged featured.
func Featured(albums []model.AlbumViewModel) (model.AlbumViewModel, bool) {
	i := slices.IndexFunc(albums, func(a model.AlbumViewModel) bool { return a.Featured })
	if i < 0 {
		return model.AlbumViewModel{}, false
	}
	return albums[i], true
}

// Latest returns the first album flagged latest.
func Latest(albums []model.AlbumViewModel) (model.AlbumViewModel, bool) {
	i := slices.IndexFunc(albums, func(a model.AlbumViewModel) bool { return a.Latest })
	if i < 0 {
		return model.AlbumViewModel{}, false
	}
	return albums[i], true
}

// Hero returns the featured album, or the first album when none is
// featured. It reports false only for an empty list.
func Hero(albums []model.AlbumViewModel) (model.AlbumViewModel, bool) {
	if a, ok := Featured(albums); ok {
		return a, true
	}
	if len(albums) == 0 {
		return model.AlbumViewModel{}, false
	}
	return albums[0], true
}

// SortByDateDesc returns albums ordered by their releaseDate string,
// newest first. Ties keep input order and missing dates sort last.
func SortByDateDesc(albums []model.AlbumViewModel) []model.AlbumViewModel {
	out := slices.Clone(albums)
	slices.SortStableFunc(out, func(a, b model.AlbumViewModel) int {
		return cmp.Compare(b.ReleaseDate, a.ReleaseDate)
	})
	return out
}

// Partition splits albums into upcoming ones, in input order, and released
// ones, newest calendar day first.
func Partition(albums []model.AlbumViewModel, c release.Classifier) (upcoming, released []model.AlbumViewModel) {
	upcoming = []model.AlbumViewModel{}
	released = []model.AlbumViewModel{}
	for _, a := range albums {
		if c.IsFuture(a.ReleaseDate) {
			upcoming = append(upcoming, a)
		} else {
			released = append(released, a)
		}
	}

	// Released albums always have a parseable date.
	slices.SortStableFunc(released, func(a, b model.AlbumViewModel) int {
		da, _ := c.Day(a.ReleaseDate)
		db, _ := c.Day(b.ReleaseDate)
		return db.Compare(da)
	})
	return upcoming, released
}

// Home is the home page arrangement of the discography.
type Home struct {
	// HighlightTitle heads the highlight group; empty when there is none.
	HighlightTitle string

	// Highlight is every upcoming album, or else the newest released one.
	Highlight []model.AlbumViewModel

	// Rest is the released albums not highlighted, newest first.
	Rest []model.AlbumViewModel
}

// Newest arranges albums for the home page.
func Newest(albums []model.AlbumViewModel, c release.Classifier) Home {
	labels := DefaultLabels()
	upcoming, released := Partition(albums, c)

	switch {
	case len(upcoming) > 0:
		return Home{HighlightTitle: labels.UpcomingReleases, Highlight: upcoming, Rest: released}
	case len(released) > 0:
		return Home{HighlightTitle: labels.NewestRelease, Highlight: released[:1], Rest: released[1:]}
	default:
		return Home{Highlight: []model.AlbumViewModel{}, Rest: []model.AlbumViewModel{}}
	}
}

// FilterByType keeps albums of type t. An empty t or "all" keeps all.
func FilterByType(albums []model.AlbumViewModel, t string) []model.AlbumViewModel {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" || t == "all" {
		return slices.Clone(albums)
	}
	out := []model.AlbumViewModel{}
	for _, a := range albums {
		if string(a.Type) == t {
			out = append(out, a)
		}
	}
	return out
}

// FilterByYear keeps albums whose release date falls in year, as rendered
// by c.FormatYear. An empty year keeps all; undated albums never match.
func FilterByYear(albums []model.AlbumViewModel, year string, c release.Classifier) []model.AlbumViewModel {
	year = strings.TrimSpace(year)
	if year == "" {
		return slices.Clone(albums)
	}
	out := []model.AlbumViewModel{}
	for _, a := range albums {
		if c.FormatYear(a.ReleaseDate) == year {
			out = append(out, a)
		}
	}
	return out
}

// Search keeps albums whose title contains q, ignoring case.
func Search(albums []model.AlbumViewModel, q string) []model.AlbumViewModel {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return slices.Clone(albums)
	}
	out := []model.AlbumViewModel{}
	for _, a := range albums {
		if strings.Contains(strings.ToLower(a.Title), q) {
			out = append(out, a)
		}
	}
	return out
}

// CanonicalLink returns the primary listening link: link, then Spotify,
// Apple Music, YouTube.
func CanonicalLink(a model.AlbumViewModel) string {
	for _, l := range []string{a.Link, a.Spotify, a.Apple, a.YouTube} {
		if l != "" {
			return l
		}
	}
	return ""
}

// Tagline returns the text of the first note entry.
func Tagline(a model.AlbumViewModel) string {
	if len(a.Notes) == 0 {
		return ""
	}
	return a.Notes[0].Text
}

// Blurb returns the note blurb, else the first text-like note entry, else
// the album description.
func Blurb(a model.AlbumViewModel) string {
	if a.Note != nil && a.Note.Blurb != "" {
		return a.Note.Blurb
	}
	for _, e := range a.Notes {
		if e.IsTextLike() && e.Text != "" {
			return e.Text
		}
	}
	return a.Description
}

// MetaLine renders "Album • January 1, 2030", or just the type label when
// there is no date.
func MetaLine(a model.AlbumViewModel, c release.Classifier) string {
	label := a.Type.Label()
	if strings.TrimSpace(a.ReleaseDate) == "" {
		return label
	}
	return label + " • " + c.FormatDisplayDate(a.ReleaseDate)
}

// Badge returns the card badge: "Single" for singles, otherwise "".
func Badge(a model.AlbumViewModel) string {
	if a.IsSingle() {
		return DefaultLabels().Single
	}
	return ""
}

// HeroLabel returns the label over a highlighted album: Upcoming before
// release, Latest Release after.
func HeroLabel(a model.AlbumViewModel, c release.Classifier) string {
	labels := DefaultLabels()
	if c.IsFuture(a.ReleaseDate) {
		return labels.Upcoming
	}
	return labels.LatestRelease
}
