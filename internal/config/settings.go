package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/discography/internal/cover"
	"github.com/handiism/discography/internal/export"
	sitehttp "github.com/handiism/discography/internal/http"
	"github.com/handiism/discography/internal/release"
	"github.com/handiism/discography/internal/repository"
	"gopkg.in/yaml.v3"
)

// Settings holds all configuration options.
type Settings struct {
	// Site settings
	SiteURL        string  `json:"site_url" yaml:"site_url"`
	RequestTimeout float64 `json:"request_timeout" yaml:"request_timeout"`
	UserAgent      string  `json:"user_agent" yaml:"user_agent"`

	// Data documents
	JSONPath  string `json:"json_path" yaml:"json_path"`
	NotesPath string `json:"notes_path" yaml:"notes_path"`

	// Cover resolution
	CoversDir           string   `json:"covers_dir" yaml:"covers_dir"`
	CoverCandidates     []string `json:"cover_candidates" yaml:"cover_candidates"`
	DefaultCover        string   `json:"default_cover" yaml:"default_cover"`
	MaxConcurrentProbes int      `json:"max_concurrent_probes" yaml:"max_concurrent_probes"`

	// Release dates. Nil means the local time zone.
	ReleaseTZOffset *float64 `json:"release_tz_offset,omitempty" yaml:"release_tz_offset,omitempty"`

	// Export settings
	ExportPath             string  `json:"export_path" yaml:"export_path"`
	ThumbnailMaxSize       int     `json:"thumbnail_max_size" yaml:"thumbnail_max_size"`
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads" yaml:"max_concurrent_downloads"`
	DownloadMaxRetries     int     `json:"download_max_retries" yaml:"download_max_retries"`
	DownloadRetryCooldown  float64 `json:"download_retry_cooldown" yaml:"download_retry_cooldown"`
	DownloadRetryExponent  float64 `json:"download_retry_exponent" yaml:"download_retry_exponent"`

	// Playlist settings
	PlaylistFormat string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls, wpl, none
	M3UExtended    bool   `json:"m3u_extended" yaml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		SiteURL:        "http://localhost:8000/",
		RequestTimeout: 30,
		UserAgent:      "discography",

		JSONPath:  "assets/albums.json",
		NotesPath: "assets/notes.json",

		CoversDir:           "assets/covers",
		CoverCandidates:     []string{"webp", "jpg", "png"},
		DefaultCover:        cover.DefaultCover,
		MaxConcurrentProbes: 0,

		ExportPath:             "./export",
		ThumbnailMaxSize:       600,
		MaxConcurrentDownloads: 4,
		DownloadMaxRetries:     3,
		DownloadRetryCooldown:  0.2,
		DownloadRetryExponent:  4.0,

		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// Load reads settings from a JSON or YAML file, chosen by extension.
//
// A missing file yields DefaultSettings. Keys absent from the file keep
// their defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to path in the format its extension names.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ToClientConfig converts settings to the site HTTP client config.
func (s *Settings) ToClientConfig() sitehttp.Config {
	return sitehttp.Config{
		BaseURL:   s.SiteURL,
		Timeout:   time.Duration(s.RequestTimeout * float64(time.Second)),
		UserAgent: s.UserAgent,
	}
}

// ToResolverConfig converts settings to cover.Config.
func (s *Settings) ToResolverConfig() cover.Config {
	return cover.Config{
		Dir:          s.CoversDir,
		Candidates:   append([]string(nil), s.CoverCandidates...),
		DefaultCover: s.DefaultCover,
	}
}

// ToRepositoryConfig converts settings to repository.Config.
func (s *Settings) ToRepositoryConfig() repository.Config {
	return repository.Config{
		AlbumsPath:          s.JSONPath,
		NotesPath:           s.NotesPath,
		MaxConcurrentProbes: s.MaxConcurrentProbes,
	}
}

// ToExportConfig converts settings to export.Config.
func (s *Settings) ToExportConfig() export.Config {
	return export.Config{
		OutputPath:             s.ExportPath,
		ThumbnailMaxSize:       s.ThumbnailMaxSize,
		MaxConcurrentDownloads: s.MaxConcurrentDownloads,
		MaxRetries:             s.DownloadMaxRetries,
		RetryCooldown:          s.DownloadRetryCooldown,
		RetryExponent:          s.DownloadRetryExponent,
		PlaylistFormat:         s.PlaylistFormat,
		M3UExtended:            s.M3UExtended,
	}
}

// Classifier returns the release date classifier for the configured zone.
func (s *Settings) Classifier() release.Classifier {
	if s.ReleaseTZOffset == nil {
		return release.Default
	}
	return release.FixedOffset(*s.ReleaseTZOffset)
}
