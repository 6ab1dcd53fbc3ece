// Package cover resolves the cover image URL of an album.
//
// An explicit cover on the record always wins. Otherwise the Resolver
// probes conventional file names, {dir}/{slug}.{ext}, for each configured
// extension in order and settles on the first one the server serves. When
// none exists the configured default cover is used, so resolution always
// ends in a concrete URL.
//
// Example:
//
//	r := cover.NewResolver(client, cover.Config{
//	    Dir:          "assets/covers",
//	    Candidates:   []string{"webp", "jpg", "png"},
//	    DefaultCover: "assets/covers/cover-default.webp",
//	}, nil)
//
//	url := r.Resolve(ctx, album) // "assets/covers/album-one.jpg"
package cover

import (
	"context"
	"log/slog"
	"strings"

	"github.com/handiism/discography/internal/model"
	"github.com/handiism/discography/internal/slug"
)

// fallbackSlug names covers of records whose title yields no slug.
const fallbackSlug = "album"

// DefaultCover is the site's stock cover, used when Config.DefaultCover is
// blank.
const DefaultCover = "assets/covers/cover-default.webp"

// Prober checks whether a site-relative reference exists. A nil error means
// it does.
type Prober interface {
	Probe(ctx context.Context, ref string) error
}

// Config holds cover resolution settings.
type Config struct {
	// Dir is the site-relative directory probed for covers.
	Dir string

	// Candidates are file extensions in order of preference, without dots.
	Candidates []string

	// DefaultCover is returned when no candidate exists. Blank means the
	// package DefaultCover.
	DefaultCover string
}

// Resolver resolves album covers. It is safe for concurrent use; each
// Resolve call probes its candidates sequentially.
type Resolver struct {
	prober Prober
	cfg    Config
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger means slog.Default().
func NewResolver(prober Prober, cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.DefaultCover = strings.TrimSpace(cfg.DefaultCover)
	if cfg.DefaultCover == "" {
		cfg.DefaultCover = DefaultCover
	}
	return &Resolver{prober: prober, cfg: cfg, logger: logger}
}

// Resolve returns the cover URL to display for album.
//
// Probe failures of any kind only move resolution on to the next
// candidate; Resolve never fails. Candidates after the first hit are not
// probed. If ctx is cancelled the remaining probes fail fast and the
// default cover is returned.
func (r *Resolver) Resolve(ctx context.Context, album model.AlbumRecord) string {
	if album.Cover != "" {
		return album.Cover
	}

	name := slug.Of(album.Slug, album.Title, fallbackSlug)
	if name == "" {
		name = fallbackSlug
	}

	for _, candidate := range r.Candidates(name) {
		err := r.prober.Probe(ctx, candidate)
		if err == nil {
			return candidate
		}
		r.logger.Debug("Cover candidate unavailable", "album", album.Title, "url", candidate, "error", err)
	}

	return r.cfg.DefaultCover
}

// Candidates returns the probe URLs for a slug in probe order.
func (r *Resolver) Candidates(name string) []string {
	dir := strings.TrimSuffix(r.cfg.Dir, "/")
	urls := make([]string, 0, len(r.cfg.Candidates))
	for _, ext := range r.cfg.Candidates {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		if dir == "" {
			urls = append(urls, name+"."+ext)
			continue
		}
		urls = append(urls, dir+"/"+name+"."+ext)
	}
	return urls
}
