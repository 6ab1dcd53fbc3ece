package model

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReleaseType is the kind of release an album record describes.
type ReleaseType string

const (
	TypeAlbum   ReleaseType = "album"
	TypeEP      ReleaseType = "ep"
	TypeSingle  ReleaseType = "single"
	TypeFeature ReleaseType = "feature"
)

// Label returns the capitalized display name of the release type.
//
//	TypeEP.Label()     // "EP"
//	TypeSingle.Label() // "Single"
func (t ReleaseType) Label() string {
	switch t {
	case TypeEP:
		return "EP"
	case "":
		return TypeAlbum.Label()
	}
	r, size := utf8.DecodeRuneInString(string(t))
	return string(unicode.ToUpper(r)) + string(t)[size:]
}

// AlbumRecord is one entry of albums.json as authored.
//
// Only Title is required. An empty Slug means the slug is derived from the
// title; an empty ReleaseDate means the release is not out yet; a non-empty
// Cover is used as-is and never probed.
type AlbumRecord struct {
	// Title is the album title.
	Title string `json:"title"`

	// Slug overrides the identifier derived from Title.
	Slug string `json:"slug,omitempty"`

	// Type is the release kind, lower-case. Defaults to TypeAlbum.
	Type ReleaseType `json:"type"`

	// ReleaseDate is an ISO date ("2024-05-01") or empty.
	ReleaseDate string `json:"releaseDate,omitempty"`

	// Cover is an explicit cover URL. In a view model it is always set.
	Cover string `json:"cover,omitempty"`

	// External listening links.
	Link    string `json:"link,omitempty"`
	Spotify string `json:"spotify,omitempty"`
	Apple   string `json:"apple,omitempty"`
	YouTube string `json:"youtube,omitempty"`

	// Featured and Latest select hero placements. At most one of each is
	// expected per document but this is not enforced.
	Featured bool `json:"featured,omitempty"`
	Latest   bool `json:"latest,omitempty"`

	// Hidden records are dropped by the repository.
	Hidden bool `json:"hidden,omitempty"`

	// Description is fallback text when no note is attached.
	Description string `json:"description,omitempty"`
}

// linkAliases lists every accepted spelling per canonical link field, in
// order of preference.
var linkAliases = struct {
	spotify []string
	apple   []string
	youtube []string
}{
	spotify: []string{"spotify", "spotfy"},
	apple:   []string{"apple", "apple-music", "appleMusic", "apple_music"},
	youtube: []string{"youtube", "yt"},
}

// UnmarshalJSON decodes an album record and folds alias keys into their
// canonical fields.
func (a *AlbumRecord) UnmarshalJSON(data []byte) error {
	type plain AlbumRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var links map[string]json.RawMessage
	if nested, ok := raw["links"]; ok {
		// A malformed links object is ignored rather than failing the record.
		_ = json.Unmarshal(nested, &links)
	}

	p.Spotify = canonicalLink(p.Spotify, raw, links, linkAliases.spotify)
	p.Apple = canonicalLink(p.Apple, raw, links, linkAliases.apple)
	p.YouTube = canonicalLink(p.YouTube, raw, links, linkAliases.youtube)
	if p.Link == "" {
		p.Link = stringField(links, "link")
	}

	p.Type = ReleaseType(strings.ToLower(strings.TrimSpace(string(p.Type))))
	if p.Type == "" {
		p.Type = TypeAlbum
	}

	*a = AlbumRecord(p)
	return nil
}

// IsSingle reports whether the record is a single.
func (a AlbumRecord) IsSingle() bool {
	return a.Type == TypeSingle
}

// canonicalLink returns current if set, otherwise the first alias found at
// the top level, otherwise the first alias found in the nested links object.
func canonicalLink(current string, top, nested map[string]json.RawMessage, aliases []string) string {
	if current != "" {
		return current
	}
	for _, key := range aliases {
		if v := stringField(top, key); v != "" {
			return v
		}
	}
	for _, key := range aliases {
		if v := stringField(nested, key); v != "" {
			return v
		}
	}
	return ""
}

func stringField(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
