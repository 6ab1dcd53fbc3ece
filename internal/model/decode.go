package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeAlbums decodes an albums document.
//
// A document that is not a JSON array yields no records and no errors.
// Null elements are dropped. Elements that fail to decode are skipped; one
// error per skipped element is returned so the caller can log them.
func DecodeAlbums(data []byte) ([]AlbumRecord, []error) {
	return decodeArray[AlbumRecord](data)
}

// DecodeNotes decodes a notes document with the same tolerance as
// DecodeAlbums.
func DecodeNotes(data []byte) ([]NoteRecord, []error) {
	return decodeArray[NoteRecord](data)
}

func decodeArray[T any](data []byte) ([]T, []error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return []T{}, []error{fmt.Errorf("malformed document: %w", err)}
	}

	out := make([]T, 0, len(elems))
	var errs []error
	for i, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			continue
		}
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			errs = append(errs, fmt.Errorf("element %d: %w", i, err))
			continue
		}
		out = append(out, v)
	}
	return out, errs
}
