package model

import (
	"encoding/json"
	"fmt"
)

// EntryKind distinguishes the flattened note entries.
type EntryKind string

const (
	// EntryPlain is a bare string entry (blurb, title or truncated body).
	EntryPlain EntryKind = ""

	// EntryTitle is a section heading.
	EntryTitle EntryKind = "title"

	// EntryText is a truncated section body.
	EntryText EntryKind = "text"
)

// NoteEntry is one display fragment produced from a note.
//
// On the wire a plain entry is a JSON string and a typed entry is an object:
//
//	"A short blurb"
//	{"type": "title", "text": "Recording"}
type NoteEntry struct {
	Kind EntryKind
	Text string
}

// Plain returns a plain entry.
func Plain(text string) NoteEntry { return NoteEntry{Kind: EntryPlain, Text: text} }

// Title returns a section title entry.
func Title(text string) NoteEntry { return NoteEntry{Kind: EntryTitle, Text: text} }

// Text returns a section body entry.
func Text(text string) NoteEntry { return NoteEntry{Kind: EntryText, Text: text} }

// IsTextLike reports whether the entry reads as prose (plain or body text).
func (e NoteEntry) IsTextLike() bool {
	return e.Kind == EntryPlain || e.Kind == EntryText
}

// MarshalJSON encodes plain entries as strings and typed entries as objects.
func (e NoteEntry) MarshalJSON() ([]byte, error) {
	if e.Kind == EntryPlain {
		return json.Marshal(e.Text)
	}
	return json.Marshal(struct {
		Type EntryKind `json:"type"`
		Text string    `json:"text"`
	}{e.Kind, e.Text})
}

// UnmarshalJSON accepts either wire form.
func (e *NoteEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Plain(s)
		return nil
	}

	var obj struct {
		Type EntryKind `json:"type"`
		Text string    `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("note entry must be a string or {type, text} object: %w", err)
	}
	*e = NoteEntry{Kind: obj.Type, Text: obj.Text}
	return nil
}

// AlbumViewModel is a fully resolved, display-ready album.
//
// The embedded record's Slug holds the join key actually used and Cover the
// resolved cover URL. Notes is never nil; Note is nil when no note matched.
type AlbumViewModel struct {
	AlbumRecord

	// Notes is the flattened, truncated note for compact summaries.
	Notes []NoteEntry `json:"notes"`

	// Note is the raw matched note for detail views.
	Note *NoteRecord `json:"note"`
}

// UnmarshalJSON decodes a view model snapshot. It is needed because the
// embedded record's UnmarshalJSON would otherwise swallow the whole object.
func (v *AlbumViewModel) UnmarshalJSON(data []byte) error {
	var rec AlbumRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	var extra struct {
		Notes []NoteEntry `json:"notes"`
		Note  *NoteRecord `json:"note"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}

	v.AlbumRecord = rec
	v.Notes = extra.Notes
	if v.Notes == nil {
		v.Notes = []NoteEntry{}
	}
	v.Note = extra.Note
	return nil
}

// HasNote reports whether a note was joined to the album.
func (v AlbumViewModel) HasNote() bool {
	return v.Note != nil
}
