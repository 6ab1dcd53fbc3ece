// Package site wires the album pipeline from settings.
//
// It is the single place where the HTTP client, cover resolver and
// repository are assembled, so every front end loads albums the same way.
//
// Example:
//
//	s, err := site.New(settings, logger)
//	if err != nil {
//	    return err
//	}
//	albums := s.Repository.Albums(ctx)
package site

import (
	"fmt"
	"log/slog"

	"github.com/handiism/discography/internal/config"
	"github.com/handiism/discography/internal/cover"
	"github.com/handiism/discography/internal/export"
	sitehttp "github.com/handiism/discography/internal/http"
	"github.com/handiism/discography/internal/release"
	"github.com/handiism/discography/internal/repository"
)

// Site is an assembled album pipeline.
type Site struct {
	Settings   *config.Settings
	Client     *sitehttp.Client
	Resolver   *cover.Resolver
	Repository *repository.Repository
	Classifier release.Classifier
}

// New builds a Site from settings. A nil logger means slog.Default().
func New(settings *config.Settings, logger *slog.Logger) (*Site, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := sitehttp.NewClient(settings.ToClientConfig())
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	resolver := cover.NewResolver(client, settings.ToResolverConfig(), logger.With("component", "cover"))
	repo := repository.New(client, resolver, settings.ToRepositoryConfig(), logger.With("component", "repository"))

	return &Site{
		Settings:   settings,
		Client:     client,
		Resolver:   resolver,
		Repository: repo,
		Classifier: settings.Classifier(),
	}, nil
}

// Exporter returns an export manager downloading through the site client.
func (s *Site) Exporter(onProgress func(export.ProgressEvent)) *export.Manager {
	return export.NewManager(s.Client, s.Settings.ToExportConfig(), onProgress)
}
