// Package browser implements the headless-browser session on top of chromedp.
// One Session serves a whole scan: it is acquired once, reused for every page,
// and must be released on all exit paths.
package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/karthik-anand/webaudit/core"
	"github.com/karthik-anand/webaudit/logging"
)

// Options configures a browser session.
type Options struct {
	ViewportWidth  int
	ViewportHeight int
	SettleDelay    time.Duration
	Logger         *logging.Logger
}

// Session is a live headless Chrome session with a fixed viewport.
type Session struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	settle      time.Duration
	log         *logging.Logger
}

var _ core.Browser = (*Session)(nil)
var _ core.Locator = (*Session)(nil)

// Start launches headless Chrome sized to the fixed viewport. Failure here is
// fatal to the whole scan; there is no degraded mode without a browser.
func Start(ctx context.Context, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Run an empty task to force the browser process up front, so a missing
	// or broken Chrome install surfaces before the first page.
	if err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(opts.ViewportWidth), int64(opts.ViewportHeight)),
	); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser session: %w", err)
	}

	return &Session{
		ctx:         browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		settle:      opts.SettleDelay,
		log:         opts.Logger,
	}, nil
}

// Navigate loads the URL and waits the settle delay for async rendering.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := chromedp.Run(s.ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.settle),
	); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// HTML returns the rendered DOM serialization, not the raw network response.
// The heuristics need to see post-script state.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(s.ctx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("reading rendered DOM: %w", err)
	}
	return html, nil
}

// Evaluate runs the script in the page and unmarshals its JSON result into out.
func (s *Session) Evaluate(ctx context.Context, script string, out any) error {
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("evaluating page script: %w", err)
	}
	return nil
}

// Screenshot captures the full page to path.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("capturing screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("writing screenshot %s: %w", path, err)
	}
	return nil
}

// Locate runs a script expected to return one rect object or null.
func (s *Session) Locate(ctx context.Context, script string) (*core.Rect, error) {
	var rect *core.Rect
	if err := s.Evaluate(ctx, script, &rect); err != nil {
		return nil, err
	}
	return rect, nil
}

// LocateAll runs a script expected to return an array of rect objects.
func (s *Session) LocateAll(ctx context.Context, script string, max int) ([]core.Rect, error) {
	var rects []core.Rect
	if err := s.Evaluate(ctx, script, &rects); err != nil {
		return nil, err
	}
	if max > 0 && len(rects) > max {
		rects = rects[:max]
	}
	return rects, nil
}

// Close releases the browser process and its allocator.
func (s *Session) Close() error {
	s.log.Debugf("closing browser session")
	s.cancelCtx()
	s.cancelAlloc()
	return nil
}
