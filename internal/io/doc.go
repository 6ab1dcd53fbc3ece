// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Atomic file writing
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Cover thumbnails and average colours
//
// # File Operations
//
//	// Write data to file, creating parents
//	err := ioutils.WriteFile(ctx, "export/albums.json", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("export/covers")
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Side A: Live/Raw") // "Side A_ Live_Raw"
//
// # Image Processing
//
// The ImageService handles cover manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Shrink a WebP cover into a 600px JPEG
//	thumb, _ := svc.Thumbnail(ctx, coverData, 600)
//
//	// Accent colour for a detail view
//	c, _ := svc.AverageColor(ctx, coverData)
package ioutils
