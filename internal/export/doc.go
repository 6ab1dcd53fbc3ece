// Package export writes a static snapshot of the resolved discography.
//
// # Manager
//
// The Manager turns the repository's view models into files on disk:
//
//  1. Pick a unique thumbnail file name per album
//  2. Download every resolved cover concurrently
//  3. Shrink each cover into a JPEG thumbnail
//  4. Write albums.json, the view models plus their thumbnail paths
//
// # Basic Usage
//
//	manager := export.NewManager(client, settings.ToExportConfig(), func(event export.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := manager.Export(ctx, repo.Albums(ctx))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// MaxConcurrentDownloads bounds how many covers are fetched and resized in
// parallel.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Retry Logic
//
// Failed cover downloads are retried with exponential backoff, configurable
// via MaxRetries, RetryCooldown and RetryExponent. Client errors (4xx) are
// not retried. A cover that still fails is reported and left out; it never
// aborts the export.
package export
