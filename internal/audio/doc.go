// Package audio builds playlists of the audio media linked from album
// notes.
//
// # Playlist Generation
//
//	entries := audio.Entries(albums, resolve)
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist("Discography", entries)
//
// Supported formats:
//   - M3U (standard and extended)
//   - PLS (Winamp)
//   - WPL (Windows Media Player)
package audio
