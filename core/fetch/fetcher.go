// Package fetch implements plain-HTTP retrieval: the Fetcher used by crawl
// discovery and the liveness Prober behind the dead-link and broken-image
// rules.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/karthik-anand/webaudit/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "webaudit/1.0 (+https://github.com/karthik-anand/webaudit)"

	// maxBodyBytes bounds how much of a page (or sitemap) discovery will
	// read. Pages past this size get truncated link extraction rather than
	// an unbounded download.
	maxBodyBytes = 8 << 20
)

// HTTPFetcher fetches web pages via HTTP for crawl discovery.
type HTTPFetcher struct {
	client *http.Client
}

var _ core.Fetcher = (*HTTPFetcher)(nil)

// New creates an HTTPFetcher with a sensible timeout.
func New() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch retrieves the body of the given URL, either a page's HTML or a
// sitemap's XML. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}
