package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "discography"
)

// StatusError reports a response whose status code is not 2xx.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s loading %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Config configures a Client.
type Config struct {
	// BaseURL is the site root every relative reference resolves against.
	// Empty means references must be absolute.
	BaseURL string

	// Timeout bounds each request. Zero means 30 seconds.
	Timeout time.Duration

	// UserAgent is sent with every request. Empty means "discography".
	UserAgent string

	// Transport overrides the underlying transport, mostly for tests.
	Transport http.RoundTripper
}

// Client wraps HTTP operations against one site.
//
// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    *url.URL
}

// NewClient creates a Client from cfg.
//
// Returns an error if BaseURL is set but is not an absolute URL.
func NewClient(cfg Config) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		userAgent: cfg.UserAgent,
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = defaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}

	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
		}
		if !base.IsAbs() {
			return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
		}
		// A base without a trailing slash would drop its last segment on
		// resolution: "https://x/site" + "a.json" -> "https://x/a.json".
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		c.baseURL = base
	}

	return c, nil
}

// Resolve turns a site-relative reference into an absolute URL.
//
// Absolute references are returned unchanged.
//
// Example:
//
//	// base "https://band.example/"
//	client.Resolve("assets/covers/x.webp") // "https://band.example/assets/covers/x.webp"
func (c *Client) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if c.baseURL == nil {
		return "", fmt.Errorf("relative reference %q without a base URL", ref)
	}
	return c.baseURL.ResolveReference(u).String(), nil
}

// Get performs a GET request and returns the response body.
//
// The request bypasses intermediate caches, like the site's own
// fetch(path, {cache: "no-store"}).
//
// Returns an error if:
//   - ref cannot be resolved
//   - The request fails
//   - The response status is not 2xx (*StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, ref string) ([]byte, error) {
	resp, err := c.do(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Probe reports whether ref exists by requesting it.
//
// A nil error means the server answered 2xx. The body is closed unread.
func (c *Client) Probe(ctx context.Context, ref string) error {
	resp, err := c.do(ctx, ref)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// DownloadBytes downloads a small file such as a cover image into memory.
func (c *Client) DownloadBytes(ctx context.Context, ref string) ([]byte, error) {
	return c.Get(ctx, ref)
}

// do sends a cache-bypassing GET and rejects non-2xx responses. On success
// the caller owns resp.Body.
func (c *Client) do(ctx context.Context, ref string) (*http.Response, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	return resp, nil
}
