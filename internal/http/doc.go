// Package http provides the HTTP client the album pipeline fetches with.
//
// Every path the site configures ("assets/albums.json",
// "assets/covers/x.webp") is relative to the site's base URL. The Client
// resolves those references, sets the User-Agent header and turns non-2xx
// responses into *StatusError values.
//
// # Basic Usage
//
//	client, err := http.NewClient(http.Config{BaseURL: "https://band.example/"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Fetch a JSON document
//	data, err := client.Get(ctx, "assets/albums.json")
//
//	// Check whether a cover exists, bypassing caches
//	if err := client.Probe(ctx, "assets/covers/album-one.webp"); err == nil {
//	    fmt.Println("cover found")
//	}
//
// # Probing
//
// Probe issues a full GET rather than HEAD because some static hosts reject
// HEAD requests. The body is discarded without being read to the end.
package http
