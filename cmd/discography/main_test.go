package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSiteServer(t *testing.T, albums string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/assets/albums.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(albums))
	})
	mux.HandleFunc("/assets/notes.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"slug":"old-songs","blurb":"Where it started."}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	// Flag values outlive a single Execute; start every run from defaults.
	for _, cmd := range append(rootCmd.Commands(), rootCmd) {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		})
	}
	configFile, siteURL, verboseMode = "", "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestListCommand(t *testing.T) {
	srv := newSiteServer(t, `[
		{"title":"Old Songs","releaseDate":"2019-04-01","link":"https://listen.example/old"},
		{"title":"Newer","releaseDate":"2023-04-01","type":"single"}
	]`)

	out := run(t, "--site", srv.URL, "list")

	assert.Contains(t, out, "Newest Release")
	assert.Contains(t, out, "Newer — Single • April 1, 2023 [Single]")
	assert.Contains(t, out, "Old Songs — Album • April 1, 2019")
	assert.Contains(t, out, "Where it started.")
	assert.Contains(t, out, "https://listen.example/old")
	assert.Less(t, bytes.Index([]byte(out), []byte("Newer")), bytes.Index([]byte(out), []byte("Old Songs")))
}

func TestListCommand_JSONAndType(t *testing.T) {
	srv := newSiteServer(t, `[{"title":"Old Songs","releaseDate":"2019-04-01"},{"title":"Newer","type":"single"}]`)

	out := run(t, "--site", srv.URL, "list", "--json", "--type", "album")

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Old Songs", got[0]["title"])
	assert.Equal(t, "assets/covers/cover-default.webp", got[0]["cover"])
}

func TestListCommand_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	out := run(t, "--site", srv.URL, "list")
	assert.Contains(t, out, "Couldn’t load albums right now. Please try again later.")
}

func TestListCommand_EmptyFilterIsNotALoadError(t *testing.T) {
	srv := newSiteServer(t, `[{"title":"Old Songs","releaseDate":"2019-04-01"}]`)

	out := run(t, "--site", srv.URL, "list", "--type", "ep")
	assert.Contains(t, out, "No matching releases.")
	assert.NotContains(t, out, "Couldn’t load albums")
}

func TestListCommand_Year(t *testing.T) {
	srv := newSiteServer(t, `[
		{"title":"Old Songs","releaseDate":"2019"},
		{"title":"Newer","releaseDate":"2023-4-1"}
	]`)

	out := run(t, "--site", srv.URL, "list", "--year", "2019")
	assert.Contains(t, out, "Old Songs — Album • January 1, 2019")
	assert.NotContains(t, out, "Newer")
}

func TestExportCommand(t *testing.T) {
	srv := newSiteServer(t, `[{"title":"Old Songs","releaseDate":"2019-04-01"}]`)
	dir := filepath.Join(t.TempDir(), "out")

	out := run(t, "--site", srv.URL, "export", "--out", dir)
	assert.Contains(t, out, "Done: 1 albums, 0 thumbnails, 1 failed")

	data, err := os.ReadFile(filepath.Join(dir, "albums.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Old Songs"`)
}
