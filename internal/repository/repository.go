// Package repository loads, joins and caches the site's albums.
//
// The Repository is the album pipeline: it fetches albums.json and
// notes.json, joins notes to albums by slug, drops hidden records,
// flattens notes, resolves every cover concurrently and caches the result
// for the lifetime of the process.
//
// # Basic Usage
//
//	repo := repository.New(client, resolver, repository.Config{
//	    AlbumsPath: "assets/albums.json",
//	    NotesPath:  "assets/notes.json",
//	}, logger)
//
//	for _, album := range repo.Albums(ctx) {
//	    fmt.Println(album.Title, album.Cover)
//	}
//
// # Lifecycle
//
// The first call to Albums loads the data; every later call returns the
// same cached slice without any network I/O. Callers arriving while the
// first load is in flight wait for that load instead of starting their
// own. There is no invalidation: a new Repository is needed to reload.
//
// # Failure Policy
//
// Albums never returns an error:
//   - albums.json unavailable: an empty list is cached for good
//   - notes.json unavailable: albums are returned without notes
//   - a cover missing: the configured default cover is used
//   - a document that is not a JSON array: treated as empty
package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/handiism/discography/internal/model"
	"github.com/handiism/discography/internal/notes"
	"github.com/handiism/discography/internal/slug"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// State is the load state of a Repository.
type State int

const (
	// StateUninitialized means Albums has not been called yet.
	StateUninitialized State = iota

	// StateLoading means the first load is in flight.
	StateLoading

	// StateReady means albums were loaded and cached.
	StateReady

	// StateFailed means albums.json could not be fetched and an empty list
	// was cached.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// loadKey is the single-flight key; there is only one dataset.
const loadKey = "albums"

// Fetcher retrieves a site-relative document.
type Fetcher interface {
	Get(ctx context.Context, ref string) ([]byte, error)
}

// CoverResolver picks the cover URL of an album. It must not fail.
type CoverResolver interface {
	Resolve(ctx context.Context, album model.AlbumRecord) string
}

// Config holds repository settings.
type Config struct {
	// AlbumsPath is the site-relative path of albums.json.
	AlbumsPath string

	// NotesPath is the site-relative path of notes.json. Empty disables
	// notes entirely.
	NotesPath string

	// MaxConcurrentProbes bounds concurrent cover resolutions. Zero or
	// less means one goroutine per album.
	MaxConcurrentProbes int
}

// Repository is the cached album pipeline. It is safe for concurrent use.
type Repository struct {
	fetcher Fetcher
	covers  CoverResolver
	cfg     Config
	logger  *slog.Logger

	group singleflight.Group

	mu     sync.RWMutex
	state  State
	albums []model.AlbumViewModel
}

// New creates a Repository. Nothing is fetched until Albums is called.
// A nil logger means slog.Default().
func New(fetcher Fetcher, covers CoverResolver, cfg Config, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		fetcher: fetcher,
		covers:  covers,
		cfg:     cfg,
		logger:  logger,
	}
}

// Albums returns the album view models in albums.json order.
//
// The returned slice is shared by every caller and must be treated as
// read-only. The load itself is detached from ctx: if ctx ends first,
// Albums returns nil while the load carries on and fills the cache for the
// next caller.
func (r *Repository) Albums(ctx context.Context) []model.AlbumViewModel {
	if albums, ok := r.cached(); ok {
		return albums
	}

	ch := r.group.DoChan(loadKey, func() (any, error) {
		// A previous flight may have completed between cached() and DoChan.
		if albums, ok := r.cached(); ok {
			return albums, nil
		}
		r.setState(StateLoading)
		albums, state := r.load(context.WithoutCancel(ctx))
		r.store(albums, state)
		return albums, nil
	})

	select {
	case res := <-ch:
		return res.Val.([]model.AlbumViewModel)
	case <-ctx.Done():
		return nil
	}
}

// State returns the current load state.
func (r *Repository) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Repository) cached() ([]model.AlbumViewModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == StateReady || r.state == StateFailed {
		return r.albums, true
	}
	return nil, false
}

func (r *Repository) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Repository) store(albums []model.AlbumViewModel, s State) {
	r.mu.Lock()
	r.albums = albums
	r.state = s
	r.mu.Unlock()
}

// load runs the pipeline once: fetch, join, normalize, resolve covers.
func (r *Repository) load(ctx context.Context) ([]model.AlbumViewModel, State) {
	data, err := r.fetcher.Get(ctx, r.cfg.AlbumsPath)
	if err != nil {
		r.logger.Error("Failed to fetch albums", "path", r.cfg.AlbumsPath, "error", err)
		return []model.AlbumViewModel{}, StateFailed
	}

	records, errs := model.DecodeAlbums(data)
	for _, err := range errs {
		r.logger.Warn("Skipping malformed album record", "path", r.cfg.AlbumsPath, "error", err)
	}

	notesBySlug := r.loadNotes(ctx)

	albums := make([]model.AlbumViewModel, 0, len(records))
	for _, rec := range records {
		if rec.Hidden {
			continue
		}
		albums = append(albums, buildViewModel(rec, notesBySlug))
	}

	r.resolveCovers(ctx, albums)

	r.logger.Info("Albums loaded",
		"albums", len(albums),
		"hidden", len(records)-len(albums),
		"notes", len(notesBySlug),
	)
	return albums, StateReady
}

// loadNotes fetches notes.json and indexes it by slug. Any failure yields
// an empty index.
func (r *Repository) loadNotes(ctx context.Context) map[string]*model.NoteRecord {
	index := make(map[string]*model.NoteRecord)
	if r.cfg.NotesPath == "" {
		return index
	}

	data, err := r.fetcher.Get(ctx, r.cfg.NotesPath)
	if err != nil {
		r.logger.Warn("Failed to fetch notes, continuing without notes", "path", r.cfg.NotesPath, "error", err)
		return index
	}

	records, errs := model.DecodeNotes(data)
	for _, err := range errs {
		r.logger.Warn("Skipping malformed note record", "path", r.cfg.NotesPath, "error", err)
	}

	for i := range records {
		key := slug.Of(records[i].Slug, records[i].Title)
		if key == "" {
			r.logger.Debug("Skipping note without slug or title", "index", i)
			continue
		}
		// Later notes with the same slug replace earlier ones.
		index[key] = &records[i]
	}
	return index
}

// buildViewModel joins rec with its note. Cover resolution happens later.
func buildViewModel(rec model.AlbumRecord, notesBySlug map[string]*model.NoteRecord) model.AlbumViewModel {
	key := slug.Of(rec.Slug, rec.Title)

	var note *model.NoteRecord
	if key != "" {
		note = notesBySlug[key]
	}

	vm := model.AlbumViewModel{
		AlbumRecord: rec,
		Notes:       notes.Normalize(note),
		Note:        note,
	}
	vm.Slug = key
	return vm
}

// resolveCovers fans out one resolution per album and writes each result
// back to its own index, so completion order never affects list order.
func (r *Repository) resolveCovers(ctx context.Context, albums []model.AlbumViewModel) {
	g := new(errgroup.Group)
	if r.cfg.MaxConcurrentProbes > 0 {
		g.SetLimit(r.cfg.MaxConcurrentProbes)
	}

	for i := range albums {
		g.Go(func() error {
			albums[i].Cover = r.covers.Resolve(ctx, albums[i].AlbumRecord)
			return nil
		})
	}

	// Resolution never fails, so Wait only synchronizes.
	_ = g.Wait()
}
