// Package config provides configuration management for discography.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to the per-package configs of http, cover, repository
//     and export
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Reads http://localhost:8000/assets/albums.json
//	// Probes assets/covers/{slug}.webp, .jpg, .png
//
// # Loading from File
//
// The format follows the extension: .yaml and .yml are YAML, anything
// else is JSON.
//
//	settings, err := config.Load("discography.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// A minimal YAML file:
//
//	site_url: https://band.example/
//	release_tz_offset: 1
//	cover_candidates: [webp, jpg]
//
// # Saving Settings
//
//	settings.SiteURL = "https://band.example/"
//	err := settings.Save("discography.json")
package config
