package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/handiism/discography/internal/config"
	"github.com/handiism/discography/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LoadsThroughSettings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/band/data/albums.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title":"Album One"}]`))
	})
	mux.HandleFunc("/band/data/notes.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"slug":"album-one","blurb":"Hi"}]`))
	})
	mux.HandleFunc("/band/img/album-one.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	settings := config.DefaultSettings()
	settings.SiteURL = srv.URL + "/band/"
	settings.JSONPath = "data/albums.json"
	settings.NotesPath = "data/notes.json"
	settings.CoversDir = "img"
	settings.CoverCandidates = []string{"webp", "png"}

	s, err := New(settings, nil)
	require.NoError(t, err)

	albums := s.Repository.Albums(context.Background())
	require.Len(t, albums, 1)
	assert.Equal(t, "img/album-one.png", albums[0].Cover)
	assert.True(t, albums[0].HasNote())
	assert.Equal(t, repository.StateReady, s.Repository.State())
	assert.NotNil(t, s.Exporter(nil))
}

func TestNew_InvalidSiteURL(t *testing.T) {
	settings := config.DefaultSettings()
	settings.SiteURL = "not a url"

	_, err := New(settings, nil)
	assert.Error(t, err)
}
