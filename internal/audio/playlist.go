package audio

import (
	"fmt"
	"strings"

	"github.com/handiism/discography/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	FormatWPL
)

// ParseFormat maps a config value to a format. It reports false for
// "none", the empty string and unknown names.
func ParseFormat(s string) (PlaylistFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u":
		return FormatM3U, true
	case "pls":
		return FormatPLS, true
	case "wpl":
		return FormatWPL, true
	default:
		return FormatM3U, false
	}
}

// Extension returns the file extension of f, with the dot.
func (f PlaylistFormat) Extension() string {
	switch f {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	default:
		return ".m3u"
	}
}

// Entry is one playable item.
type Entry struct {
	Title string
	URL   string
}

// Entries collects the audio media of every album note, in album order.
//
// resolve turns a media src into the URL written to the playlist; nil
// keeps src as is. Titles read "Album - Alt", or just the album title when
// the media has no alt text.
func Entries(albums []model.AlbumViewModel, resolve func(string) string) []Entry {
	var entries []Entry
	for _, a := range albums {
		if a.Note == nil {
			continue
		}
		for _, media := range a.Note.Media {
			if media.Type != model.MediaAudio || media.Src == "" {
				continue
			}
			url := media.Src
			if resolve != nil {
				url = resolve(media.Src)
			}
			title := a.Title
			if media.Alt != "" {
				title = a.Title + " - " + media.Alt
			}
			entries = append(entries, Entry{Title: title, URL: url})
		}
	}
	return entries
}

// PlaylistCreator generates playlist files in various formats.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist("Discography", entries)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Night Drive - Demo
//	// https://band.example/assets/audio/demo.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with titles
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only affects M3U output.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content titled name.
//
// Durations are unknown for streamed media and written as -1.
func (p *PlaylistCreator) CreatePlaylist(name string, entries []Entry) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(entries)
	case FormatWPL:
		return p.createWPL(name, entries)
	default:
		return p.createM3U(entries)
	}
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:-1,Album - Title
//	https://band.example/a.mp3
func (p *PlaylistCreator) createM3U(entries []Entry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range entries {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s\n", e.Title)
		}
		sb.WriteString(e.URL + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=https://band.example/a.mp3
//	Title1=Album - Title
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range entries {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, e.URL)
		fmt.Fprintf(&sb, "Title%d=%s\n", idx, e.Title)
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(entries))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
func (p *PlaylistCreator) createWPL(name string, entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(name))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, e := range entries {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(e.URL))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes & < > " and '.
func escapeXML(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	).Replace(s)
}
