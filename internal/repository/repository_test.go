package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/handiism/discography/internal/cover"
	sitehttp "github.com/handiism/discography/internal/http"
	"github.com/handiism/discography/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	albumsPath   = "assets/albums.json"
	notesPath    = "assets/notes.json"
	defaultCover = "assets/covers/cover-default.webp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// site is an httptest server serving the album assets.
type site struct {
	srv         *httptest.Server
	albumsCalls atomic.Int32
	notesCalls  atomic.Int32
	probeCalls  atomic.Int32
}

type siteContent struct {
	albums       string
	albumsStatus int
	notes        string
	notesStatus  int
	covers       map[string]bool
	gate         chan struct{}
}

func newSite(t *testing.T, content siteContent) *site {
	t.Helper()

	s := &site{}
	mux := http.NewServeMux()
	mux.HandleFunc("/"+albumsPath, func(w http.ResponseWriter, r *http.Request) {
		s.albumsCalls.Add(1)
		if content.gate != nil {
			<-content.gate
		}
		if content.albumsStatus != 0 {
			w.WriteHeader(content.albumsStatus)
			return
		}
		w.Write([]byte(content.albums))
	})
	mux.HandleFunc("/"+notesPath, func(w http.ResponseWriter, r *http.Request) {
		s.notesCalls.Add(1)
		if content.notesStatus != 0 {
			w.WriteHeader(content.notesStatus)
			return
		}
		w.Write([]byte(content.notes))
	})
	mux.HandleFunc("/assets/covers/", func(w http.ResponseWriter, r *http.Request) {
		s.probeCalls.Add(1)
		if content.covers[r.URL.Path] {
			w.Write([]byte("img"))
			return
		}
		http.NotFound(w, r)
	})

	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *site) repository(t *testing.T) *Repository {
	t.Helper()

	client, err := sitehttp.NewClient(sitehttp.Config{BaseURL: s.srv.URL})
	require.NoError(t, err)

	resolver := cover.NewResolver(client, cover.Config{
		Dir:          "assets/covers",
		Candidates:   []string{"webp", "jpg", "png"},
		DefaultCover: defaultCover,
	}, discardLogger())

	return New(client, resolver, Config{AlbumsPath: albumsPath, NotesPath: notesPath}, discardLogger())
}

func TestRepository_JoinsNotesAndResolvesCovers(t *testing.T) {
	s := newSite(t, siteContent{
		albums: `[
			{"title":"Album One","releaseDate":"2020-01-01"},
			{"title":"Second Wind","slug":"second-wind","cover":"custom/second.png"},
			{"title":"Lonely"}
		]`,
		notes: `[
			{"slug":"album-one","blurb":"First record.","sections":[{"section-title":"Credits","body":"<p>Everyone</p>"}]},
			{"title":"Second Wind","body":"Only a body."}
		]`,
		covers: map[string]bool{"/assets/covers/album-one.jpg": true},
	})
	repo := s.repository(t)

	albums := repo.Albums(context.Background())
	require.Len(t, albums, 3)
	assert.Equal(t, StateReady, repo.State())

	one := albums[0]
	assert.Equal(t, "album-one", one.Slug)
	assert.Equal(t, "assets/covers/album-one.jpg", one.Cover)
	require.True(t, one.HasNote())
	assert.Equal(t, []model.NoteEntry{
		model.Plain("First record."),
		model.Title("Credits"),
		model.Text("Everyone"),
	}, one.Notes)

	second := albums[1]
	assert.Equal(t, "custom/second.png", second.Cover, "explicit cover is kept")
	assert.Equal(t, []model.NoteEntry{model.Plain("Second Wind")}, second.Notes)

	lonely := albums[2]
	assert.Equal(t, defaultCover, lonely.Cover)
	assert.False(t, lonely.HasNote())
	assert.NotNil(t, lonely.Notes)
	assert.Empty(t, lonely.Notes)
}

func TestRepository_DropsHiddenRecords(t *testing.T) {
	s := newSite(t, siteContent{
		albums: `[{"title":"A"},{"title":"Secret","hidden":true},{"title":"B","hidden":false}]`,
		notes:  `[]`,
	})

	albums := s.repository(t).Albums(context.Background())

	var titles []string
	for _, a := range albums {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"A", "B"}, titles)
}

func TestRepository_LastDuplicateNoteWins(t *testing.T) {
	s := newSite(t, siteContent{
		albums: `[{"title":"Dup"}]`,
		notes:  `[{"slug":"dup","blurb":"first"},{"slug":"dup","blurb":"second"},{"blurb":"no key"}]`,
	})

	albums := s.repository(t).Albums(context.Background())
	require.Len(t, albums, 1)
	assert.Equal(t, []model.NoteEntry{model.Plain("second")}, albums[0].Notes)
}

func TestRepository_CachesAfterFirstLoad(t *testing.T) {
	s := newSite(t, siteContent{
		albums: `[{"title":"A"},{"title":"B"}]`,
		notes:  `[]`,
	})
	repo := s.repository(t)
	assert.Equal(t, StateUninitialized, repo.State())

	first := repo.Albums(context.Background())
	probes := s.probeCalls.Load()
	second := repo.Albums(context.Background())

	require.Len(t, first, 2)
	assert.Same(t, &first[0], &second[0], "callers share one cached slice")
	assert.Equal(t, int32(1), s.albumsCalls.Load())
	assert.Equal(t, int32(1), s.notesCalls.Load())
	assert.Equal(t, probes, s.probeCalls.Load(), "no probes after the first load")
}

func TestRepository_CoalescesConcurrentCallers(t *testing.T) {
	gate := make(chan struct{})
	s := newSite(t, siteContent{
		albums: `[{"title":"A"}]`,
		notes:  `[]`,
		gate:   gate,
	})
	repo := s.repository(t)

	const callers = 16
	results := make([][]model.AlbumViewModel, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = repo.Albums(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return s.albumsCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateLoading, repo.State())
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), s.albumsCalls.Load())
	for i := range callers {
		require.Len(t, results[i], 1)
		assert.Same(t, &results[0][0], &results[i][0])
	}
}

func TestRepository_AlbumsFetchFailureCachesEmpty(t *testing.T) {
	s := newSite(t, siteContent{albumsStatus: http.StatusInternalServerError})
	repo := s.repository(t)

	albums := repo.Albums(context.Background())
	assert.NotNil(t, albums)
	assert.Empty(t, albums)
	assert.Equal(t, StateFailed, repo.State())

	repo.Albums(context.Background())
	assert.Equal(t, int32(1), s.albumsCalls.Load(), "failure is cached too")
	assert.Equal(t, int32(0), s.notesCalls.Load())
}

func TestRepository_NotesFailureKeepsAlbums(t *testing.T) {
	s := newSite(t, siteContent{
		albums:      `[{"title":"A"}]`,
		notesStatus: http.StatusNotFound,
	})
	repo := s.repository(t)

	albums := repo.Albums(context.Background())
	require.Len(t, albums, 1)
	assert.False(t, albums[0].HasNote())
	assert.Empty(t, albums[0].Notes)
	assert.Equal(t, StateReady, repo.State())
}

func TestRepository_NonArrayDocuments(t *testing.T) {
	s := newSite(t, siteContent{
		albums: `{"albums":[{"title":"A"}]}`,
		notes:  `{"oops":true}`,
	})
	repo := s.repository(t)

	albums := repo.Albums(context.Background())
	assert.NotNil(t, albums)
	assert.Empty(t, albums)
	assert.Equal(t, StateReady, repo.State())
}

func TestRepository_EmptyNotesPathSkipsFetch(t *testing.T) {
	s := newSite(t, siteContent{albums: `[{"title":"A"}]`})

	client, err := sitehttp.NewClient(sitehttp.Config{BaseURL: s.srv.URL})
	require.NoError(t, err)
	repo := New(client, staticResolver("c"), Config{AlbumsPath: albumsPath}, discardLogger())

	require.Len(t, repo.Albums(context.Background()), 1)
	assert.Equal(t, int32(0), s.notesCalls.Load())
}

// staticResolver resolves every album to the same cover.
type staticResolver string

func (s staticResolver) Resolve(context.Context, model.AlbumRecord) string { return string(s) }

// staggeredResolver finishes earlier albums last.
type staggeredResolver struct {
	n        int
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *staggeredResolver) Resolve(_ context.Context, album model.AlbumRecord) string {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if cur <= p || s.peak.CompareAndSwap(p, cur) {
			break
		}
	}

	var i int
	fmt.Sscanf(album.Title, "album %d", &i)
	time.Sleep(time.Duration(s.n-i) * 3 * time.Millisecond)
	return "cover-" + album.Slug
}

type memFetcher map[string]string

func (m memFetcher) Get(_ context.Context, ref string) ([]byte, error) {
	doc, ok := m[ref]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(doc), nil
}

func titledAlbums(n int) string {
	doc := "["
	for i := range n {
		if i > 0 {
			doc += ","
		}
		doc += fmt.Sprintf(`{"title":"album %d"}`, i)
	}
	return doc + "]"
}

func TestRepository_PreservesOrderUnderConcurrentResolution(t *testing.T) {
	const n = 12
	resolver := &staggeredResolver{n: n}
	repo := New(memFetcher{albumsPath: titledAlbums(n)}, resolver, Config{AlbumsPath: albumsPath}, discardLogger())

	albums := repo.Albums(context.Background())
	require.Len(t, albums, n)
	for i, a := range albums {
		assert.Equal(t, fmt.Sprintf("album %d", i), a.Title)
		assert.Equal(t, fmt.Sprintf("cover-album-%d", i), a.Cover)
	}
	assert.Greater(t, resolver.peak.Load(), int32(1), "covers resolve concurrently")
}

func TestRepository_MaxConcurrentProbes(t *testing.T) {
	const n = 8
	resolver := &staggeredResolver{n: n}
	repo := New(memFetcher{albumsPath: titledAlbums(n)}, resolver, Config{
		AlbumsPath:          albumsPath,
		MaxConcurrentProbes: 2,
	}, discardLogger())

	require.Len(t, repo.Albums(context.Background()), n)
	assert.LessOrEqual(t, resolver.peak.Load(), int32(2))
}

// blockingFetcher holds albums.json until release is closed.
type blockingFetcher struct {
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingFetcher) Get(ctx context.Context, ref string) ([]byte, error) {
	if ref != albumsPath {
		return nil, errors.New("not found")
	}
	b.calls.Add(1)
	<-b.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(`[{"title":"A"}]`), nil
}

func TestRepository_CancelledCallerDoesNotAbortLoad(t *testing.T) {
	fetcher := &blockingFetcher{release: make(chan struct{})}
	repo := New(fetcher, staticResolver("c"), Config{AlbumsPath: albumsPath, NotesPath: notesPath}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []model.AlbumViewModel, 1)
	go func() { done <- repo.Albums(ctx) }()

	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.Nil(t, <-done, "cancelled caller gets nothing")

	close(fetcher.release)
	require.Eventually(t, func() bool { return repo.State() == StateReady }, time.Second, 5*time.Millisecond)

	albums := repo.Albums(context.Background())
	require.Len(t, albums, 1)
	assert.Equal(t, "A", albums[0].Title)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
