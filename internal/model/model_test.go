package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbumRecord_AppleAliases(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"apple", `{"title":"A","apple":"https://music.apple.com/x"}`},
		{"apple-music", `{"title":"A","apple-music":"https://music.apple.com/x"}`},
		{"appleMusic", `{"title":"A","appleMusic":"https://music.apple.com/x"}`},
		{"apple_music", `{"title":"A","apple_music":"https://music.apple.com/x"}`},
		{"nested links", `{"title":"A","links":{"appleMusic":"https://music.apple.com/x"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec AlbumRecord
			require.NoError(t, json.Unmarshal([]byte(tt.json), &rec))
			assert.Equal(t, "https://music.apple.com/x", rec.Apple)
		})
	}
}

func TestAlbumRecord_LinkPrecedence(t *testing.T) {
	data := `{
		"title": "A",
		"spotfy": "https://open.spotify.com/typo",
		"yt": "https://youtu.be/x",
		"appleMusic": "https://top",
		"links": {"apple": "https://nested", "spotify": "https://nested-spotify", "link": "https://nested-link"}
	}`

	var rec AlbumRecord
	require.NoError(t, json.Unmarshal([]byte(data), &rec))

	assert.Equal(t, "https://open.spotify.com/typo", rec.Spotify, "top-level alias beats nested canonical key")
	assert.Equal(t, "https://top", rec.Apple)
	assert.Equal(t, "https://youtu.be/x", rec.YouTube)
	assert.Equal(t, "https://nested-link", rec.Link)
}

func TestAlbumRecord_TypeDefaults(t *testing.T) {
	tests := []struct {
		json string
		want ReleaseType
	}{
		{`{"title":"A"}`, TypeAlbum},
		{`{"title":"A","type":""}`, TypeAlbum},
		{`{"title":"A","type":"Single"}`, TypeSingle},
		{`{"title":"A","type":" EP "}`, TypeEP},
		{`{"title":"A","type":"feature"}`, TypeFeature},
	}

	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			var rec AlbumRecord
			require.NoError(t, json.Unmarshal([]byte(tt.json), &rec))
			assert.Equal(t, tt.want, rec.Type)
		})
	}
}

func TestAlbumRecord_MarshalUsesCanonicalKeys(t *testing.T) {
	var rec AlbumRecord
	require.NoError(t, json.Unmarshal([]byte(`{"title":"A","apple_music":"u"}`), &rec))

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"A","type":"album","apple":"u"}`, string(out))
}

func TestReleaseType_Label(t *testing.T) {
	assert.Equal(t, "Album", TypeAlbum.Label())
	assert.Equal(t, "EP", TypeEP.Label())
	assert.Equal(t, "Single", TypeSingle.Label())
	assert.Equal(t, "Feature", TypeFeature.Label())
	assert.Equal(t, "Album", ReleaseType("").Label())
	assert.Equal(t, "Remix", ReleaseType("remix").Label())
	assert.Equal(t, "Épica", ReleaseType("épica").Label())
}

func TestSection_TitleVariants(t *testing.T) {
	tests := []string{
		`{"section-title":"S1","body":"b"}`,
		`{"sectionTitle":"S1","body":"b"}`,
		`{"title":"S1","body":"b"}`,
	}

	for _, data := range tests {
		t.Run(data, func(t *testing.T) {
			var s Section
			require.NoError(t, json.Unmarshal([]byte(data), &s))
			assert.Equal(t, Section{Title: "S1", Body: "b"}, s)
		})
	}
}

func TestNoteEntry_WireFormat(t *testing.T) {
	entries := []NoteEntry{Plain("blurb"), Title("S1"), Text("body")}

	out, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.JSONEq(t, `["blurb",{"type":"title","text":"S1"},{"type":"text","text":"body"}]`, string(out))

	var back []NoteEntry
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, entries, back)
}

func TestNoteEntry_RejectsOtherShapes(t *testing.T) {
	var e NoteEntry
	assert.Error(t, json.Unmarshal([]byte(`42`), &e))
}

func TestAlbumViewModel_Snapshot(t *testing.T) {
	vm := AlbumViewModel{
		AlbumRecord: AlbumRecord{Title: "Album One", Slug: "album-one", Type: TypeAlbum, Cover: "assets/covers/album-one.webp"},
		Notes:       []NoteEntry{Plain("B")},
		Note:        &NoteRecord{Slug: "album-one", Blurb: "B"},
	}

	out, err := json.Marshal(vm)
	require.NoError(t, err)

	var back AlbumViewModel
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, vm, back)
	assert.True(t, back.HasNote())
}

func TestAlbumViewModel_SnapshotWithoutNote(t *testing.T) {
	var back AlbumViewModel
	require.NoError(t, json.Unmarshal([]byte(`{"title":"A","cover":"c","notes":[],"note":null}`), &back))

	assert.NotNil(t, back.Notes)
	assert.Empty(t, back.Notes)
	assert.False(t, back.HasNote())
}

func TestDecodeAlbums(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantTitles []string
		wantErrs   int
	}{
		{"array", `[{"title":"A"},{"title":"B"}]`, []string{"A", "B"}, 0},
		{"object is not an array", `{"albums":[{"title":"A"}]}`, nil, 0},
		{"string", `"nope"`, nil, 0},
		{"empty body", ``, nil, 0},
		{"null", `null`, nil, 0},
		{"null elements dropped", `[null,{"title":"A"}]`, []string{"A"}, 0},
		{"bad element skipped", `[{"title":"A"},{"title":42},{"title":"C"}]`, []string{"A", "C"}, 1},
		{"truncated array", `[{"title":"A"}`, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, errs := DecodeAlbums([]byte(tt.doc))
			require.NotNil(t, recs)

			var titles []string
			for _, r := range recs {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}

func TestDecodeNotes(t *testing.T) {
	doc := `[
		{"slug":"album-one","blurb":"B","sections":[{"section-title":"S","body":"<p>x</p>"}],
		 "media":[{"type":"IMAGE","src":"a.jpg","alt":"a"},{"type":"audio","src":"a.mp3"}]}
	]`

	notes, errs := DecodeNotes([]byte(doc))
	require.Empty(t, errs)
	require.Len(t, notes, 1)

	n := notes[0]
	assert.Equal(t, "album-one", n.Slug)
	assert.Equal(t, []Section{{Title: "S", Body: "<p>x</p>"}}, n.Sections)
	assert.Equal(t, []Media{{Type: MediaImage, Src: "a.jpg", Alt: "a"}, {Type: MediaAudio, Src: "a.mp3"}}, n.Media)
}
