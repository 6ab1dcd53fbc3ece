package model

import (
	"encoding/json"
	"strings"
)

// MediaType is the kind of media attached to a note.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
)

// NoteRecord is one entry of notes.json: the long-form story behind an album.
//
// A note is joined to an album by slug. An empty Slug means the key is
// derived from Title.
type NoteRecord struct {
	Slug     string    `json:"slug,omitempty"`
	Title    string    `json:"title,omitempty"`
	Blurb    string    `json:"blurb,omitempty"`
	Body     string    `json:"body,omitempty"` // may contain inline HTML
	Sections []Section `json:"sections,omitempty"`
	Media    []Media   `json:"media,omitempty"`
}

// Section is a titled block of a note. Either part may be empty.
type Section struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// sectionTitleKeys are the accepted spellings of a section title.
var sectionTitleKeys = []string{"section-title", "sectionTitle", "title"}

// UnmarshalJSON accepts every spelling in sectionTitleKeys for the title.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Section
	for _, key := range sectionTitleKeys {
		if v := stringField(raw, key); v != "" {
			out.Title = v
			break
		}
	}
	if body, ok := raw["body"]; ok {
		if err := json.Unmarshal(body, &out.Body); err != nil {
			return err
		}
	}

	*s = out
	return nil
}

// Media is an image or audio clip attached to a note.
type Media struct {
	Type MediaType `json:"type"`
	Src  string    `json:"src"`
	Alt  string    `json:"alt,omitempty"`
}

// UnmarshalJSON normalizes the media type to lower case.
func (m *Media) UnmarshalJSON(data []byte) error {
	type plain Media
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Type = MediaType(strings.ToLower(strings.TrimSpace(string(p.Type))))
	*m = Media(p)
	return nil
}
