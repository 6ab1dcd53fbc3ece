package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/handiism/discography/internal/audio"
	sitehttp "github.com/handiism/discography/internal/http"
	ioutils "github.com/handiism/discography/internal/io"
	"github.com/handiism/discography/internal/model"
	"github.com/handiism/discography/internal/slug"
	"golang.org/x/sync/errgroup"
)

const (
	// SnapshotFile is the name of the exported album list.
	SnapshotFile = "albums.json"

	// CoversDir is the export subdirectory holding thumbnails.
	CoversDir = "covers"

	// PlaylistName is the base name of the note media playlist.
	PlaylistName = "playlist"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ProgressEvent represents an export progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Downloader fetches a cover by its resolved reference.
type Downloader interface {
	DownloadBytes(ctx context.Context, ref string) ([]byte, error)
}

// refResolver is implemented by downloaders that can turn site-relative
// references into absolute URLs.
type refResolver interface {
	Resolve(ref string) (string, error)
}

// Thumbnailer shrinks an encoded image into a JPEG.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, data []byte, maxSize int) ([]byte, error)
}

// Config holds export settings.
type Config struct {
	// OutputPath is the export directory. It is created if missing.
	OutputPath string

	// ThumbnailMaxSize bounds thumbnail width and height in pixels.
	ThumbnailMaxSize int

	// MaxConcurrentDownloads bounds parallel cover downloads. Values below
	// one mean one.
	MaxConcurrentDownloads int

	// MaxRetries is the number of download attempts per cover. Values
	// below one mean one.
	MaxRetries int

	// RetryCooldown is the first backoff delay in seconds.
	RetryCooldown float64

	// RetryExponent multiplies the delay after each failed attempt.
	RetryExponent float64

	// PlaylistFormat is "m3u", "pls", "wpl", or "none" to skip the
	// playlist of note audio media.
	PlaylistFormat string

	// M3UExtended adds #EXTINF lines to M3U playlists.
	M3UExtended bool
}

// Result summarizes a finished export.
type Result struct {
	Albums     int
	Thumbnails int
	Failed     int

	// Playlist is the playlist file name, empty when none was written.
	Playlist string
}

// Album is one entry of the exported snapshot.
type Album struct {
	model.AlbumViewModel

	// Thumbnail is the thumbnail path relative to the export directory,
	// empty when the cover could not be exported.
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Manager coordinates an export.
type Manager struct {
	cfg        Config
	client     Downloader
	images     Thumbnailer
	onProgress func(ProgressEvent)

	totalFiles int32
	doneFiles  atomic.Int32
}

// NewManager creates a new export Manager.
func NewManager(client Downloader, cfg Config, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		cfg:        cfg,
		client:     client,
		images:     ioutils.NewImageService(),
		onProgress: onProgress,
	}
}

// WithThumbnailer replaces the image backend, mostly for tests.
func (m *Manager) WithThumbnailer(t Thumbnailer) *Manager {
	m.images = t
	return m
}

// GetProgress returns how many covers have been handled so far.
func (m *Manager) GetProgress() (done, total int32) {
	return m.doneFiles.Load(), atomic.LoadInt32(&m.totalFiles)
}

// Export writes thumbnails and the albums.json snapshot under OutputPath.
//
// Individual cover failures are reported through the progress callback
// and counted in Result.Failed. An error is returned only when the export
// directory or snapshot cannot be written, or ctx ends.
func (m *Manager) Export(ctx context.Context, albums []model.AlbumViewModel) (Result, error) {
	if err := ioutils.EnsureDir(filepath.Join(m.cfg.OutputPath, CoversDir)); err != nil {
		return Result{}, err
	}

	names := ThumbnailNames(albums)
	entries := make([]Album, len(albums))
	for i, a := range albums {
		entries[i].AlbumViewModel = a
	}

	atomic.StoreInt32(&m.totalFiles, int32(len(albums)))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Exporting %d albums to %s", len(albums), m.cfg.OutputPath), Level: LevelInfo})

	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, m.cfg.MaxConcurrentDownloads))

	for i := range albums {
		g.Go(func() error {
			defer m.doneFiles.Add(1)

			rel, err := m.exportCover(gctx, albums[i], names[i])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error exporting cover for %s: %v", albums[i].Title, err), Level: LevelError})
				return nil // Continue with other covers
			}
			entries[i].Thumbnail = rel
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := ioutils.WriteFile(ctx, filepath.Join(m.cfg.OutputPath, SnapshotFile), data); err != nil {
		return Result{}, err
	}

	result := Result{
		Albums:     len(albums),
		Thumbnails: len(albums) - int(failed.Load()),
		Failed:     int(failed.Load()),
	}

	playlist, err := m.writePlaylist(ctx, albums)
	if err != nil {
		return Result{}, err
	}
	result.Playlist = playlist

	if result.Failed == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Exported %d albums", result.Albums), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Exported %d albums, %d covers failed", result.Albums, result.Failed), Level: LevelWarning})
	}

	return result, nil
}

// exportCover downloads, shrinks and stores one cover and returns its
// path relative to the export directory.
func (m *Manager) exportCover(ctx context.Context, album model.AlbumViewModel, name string) (string, error) {
	if album.Cover == "" {
		return "", errors.New("album has no cover")
	}

	data, err := m.download(ctx, album.Cover)
	if err != nil {
		return "", err
	}

	thumb, err := m.images.Thumbnail(ctx, data, m.cfg.ThumbnailMaxSize)
	if err != nil {
		return "", fmt.Errorf("thumbnail %s: %w", album.Cover, err)
	}

	rel := path.Join(CoversDir, name)
	if err := ioutils.WriteFile(ctx, filepath.Join(m.cfg.OutputPath, filepath.FromSlash(rel)), thumb); err != nil {
		return "", err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Exported cover: %s", rel), Level: LevelVerbose})
	return rel, nil
}

// writePlaylist writes the note audio playlist and returns its file name.
// Nothing is written when playlists are disabled or there is no audio.
func (m *Manager) writePlaylist(ctx context.Context, albums []model.AlbumViewModel) (string, error) {
	format, ok := audio.ParseFormat(m.cfg.PlaylistFormat)
	if !ok {
		return "", nil
	}

	entries := audio.Entries(albums, m.resolveRef)
	if len(entries) == 0 {
		return "", nil
	}

	name := PlaylistName + format.Extension()
	content := audio.NewPlaylistCreator(format, m.cfg.M3UExtended).CreatePlaylist("Discography", entries)
	if err := ioutils.WriteFile(ctx, filepath.Join(m.cfg.OutputPath, name), []byte(content)); err != nil {
		return "", err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist with %d entries", len(entries)), Level: LevelSuccess})
	return name, nil
}

// resolveRef makes ref absolute when the downloader knows the site root.
func (m *Manager) resolveRef(ref string) string {
	r, ok := m.client.(refResolver)
	if !ok {
		return ref
	}
	abs, err := r.Resolve(ref)
	if err != nil {
		return ref
	}
	return abs
}

// download fetches ref, retrying transient failures with backoff.
func (m *Manager) download(ctx context.Context, ref string) ([]byte, error) {
	attempts := max(1, m.cfg.MaxRetries)

	var err error
	for tries := 0; tries < attempts; tries++ {
		var data []byte
		data, err = m.client.DownloadBytes(ctx, ref)
		if err == nil {
			return data, nil
		}
		if !retryable(err) || tries == attempts-1 {
			break
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, attempts, ref), Level: LevelWarning})
		m.waitForRetry(ctx, tries)
	}

	return nil, err
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if sitehttp.IsStatus(err, http.StatusTooManyRequests) {
		return true
	}
	var se *sitehttp.StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	select {
	case <-ctx.Done():
	case <-time.After(m.backoff(tries)):
	}
}

func (m *Manager) backoff(tries int) time.Duration {
	cooldown := m.cfg.RetryCooldown * math.Pow(m.cfg.RetryExponent, float64(tries))
	return time.Duration(cooldown * float64(time.Second))
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// ThumbnailNames returns one unique JPEG file name per album, in order.
//
// Names derive from the album slug, falling back to the sanitized title and
// then to "album". Collisions get a numeric suffix: "demo.jpg", "demo-2.jpg".
func ThumbnailNames(albums []model.AlbumViewModel) []string {
	used := make(map[string]bool, len(albums))
	names := make([]string, len(albums))

	for i, a := range albums {
		base := slug.Of(a.Slug, a.Title)
		if base == "" {
			base = ioutils.SanitizeFileName(a.Title)
		}
		if base == "" {
			base = "album"
		}

		name := base
		for n := 2; used[name]; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		used[name] = true
		names[i] = name + ".jpg"
	}
	return names
}
