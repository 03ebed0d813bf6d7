// Package fetch retrieves archive documents over HTTP with a filesystem
// cache keyed by URL path. A cached document is always preferred over the
// network, which makes repeated harvests of the same term cheap and
// reproducible.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"stenograf/internal/psp"
)

// ErrUnavailable marks a document that could not be fetched and has no
// cached copy. Callers skip the affected unit and continue.
var ErrUnavailable = errors.New("fetch: document unavailable")

// HTTPDoer describes the HTTP client used by the fetcher.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches documents with filesystem memoization. It is not safe for
// concurrent use; the harvest pipeline is strictly sequential.
type Client struct {
	client    HTTPDoer
	cacheDir  string
	userAgent string
	logger    *slog.Logger
	requests  int
}

// New constructs a Client caching under cacheDir. A nil doer falls back to
// http.DefaultClient.
func New(cacheDir, userAgent string, doer HTTPDoer, logger *slog.Logger) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		client:    doer,
		cacheDir:  cacheDir,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Requests returns the number of network requests issued so far, excluding
// cache hits.
func (c *Client) Requests() int {
	return c.requests
}

// Get returns the document at rawURL, reading the cache first and writing
// the cache on a successful network fetch.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	cachePath, err := c.cachePath(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnavailable, rawURL, err)
	}

	if data, err := os.ReadFile(cachePath); err == nil {
		c.logger.DebugContext(ctx, "cache hit", "url", rawURL, "path", cachePath)
		return string(data), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: read cache %s: %v", ErrUnavailable, cachePath, err)
	}

	body, err := c.download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if err := writeCache(cachePath, body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}

func (c *Client) download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request for %s: %v", ErrUnavailable, rawURL, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.requests++
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrUnavailable, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "unexpected status", "url", rawURL, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: get %s: status %d", ErrUnavailable, rawURL, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrUnavailable, rawURL, err)
	}
	c.logger.DebugContext(ctx, "fetched", "url", rawURL, "bytes", len(payload))
	return string(payload), nil
}

// cachePath maps a URL to its cache file under the host's directory. The
// archive prefix is stripped so the cache mirrors the eknih tree directly,
// and any query string stays part of the file name.
func (c *Client) cachePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	rel := strings.TrimPrefix(u.Path, psp.CacheRoot)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		rel = "index"
	}
	if u.RawQuery != "" {
		rel += "?" + u.RawQuery
	}
	return filepath.Join(c.cacheDir, u.Host, filepath.FromSlash(rel)), nil
}

func writeCache(path, body string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure cache dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write cache temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}
