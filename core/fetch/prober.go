// Package fetch — liveness prober.
// Probes resolved link and image URLs for the rule battery. A fetch error and
// an HTTP >=400 response both count as broken; the caller's description text
// distinguishes the two.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/karthik-anand/webaudit/core"
)

// Prober checks whether a URL is reachable within a bounded timeout.
type Prober struct {
	client *http.Client
}

var _ core.LivenessChecker = (*Prober)(nil)

// NewProber creates a Prober with the given per-request timeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{
		client: &http.Client{Timeout: timeout},
	}
}

// Check issues a GET and returns the status code. A non-nil error means the
// request itself failed (timeout, DNS, connection refused).
func (p *Prober) Check(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	// The body is irrelevant; drain a little so the connection can be reused.
	io.CopyN(io.Discard, resp.Body, 1024)
	resp.Body.Close()

	return resp.StatusCode, nil
}
