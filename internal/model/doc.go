// Package model defines the records read from the site's JSON documents and
// the view models the album pipeline produces from them.
//
// # Records
//
// AlbumRecord and NoteRecord mirror albums.json and notes.json. Decoding
// canonicalizes alternative key spellings once, at ingestion, so that the
// rest of the code only ever sees one field per concept:
//
//	{"appleMusic": "..."}  -> AlbumRecord.Apple
//	{"apple_music": "..."} -> AlbumRecord.Apple
//	{"section-title": ""}  -> Section.Title
//
// # View Models
//
// AlbumViewModel is an AlbumRecord with its cover resolved, its matching
// note attached and the note flattened into display entries:
//
//	vm := model.AlbumViewModel{AlbumRecord: rec, Notes: entries, Note: note}
//	vm.Cover // never empty once produced by the repository
//
// View models are built once and never mutated afterwards.
//
// # Documents
//
// DecodeAlbums and DecodeNotes tolerate malformed documents: anything that
// is not a JSON array decodes to an empty collection, and array elements
// that fail to decode are skipped and reported.
package model
