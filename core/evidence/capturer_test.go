package evidence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthik-anand/webaudit/core"
	"github.com/karthik-anand/webaudit/logging"
)

// fakeBrowser records evaluated scripts and writes empty screenshot files.
type fakeBrowser struct {
	scripts    []string
	evalErr    error
	shotErr    error
	shotsTaken int
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string) error { return nil }
func (b *fakeBrowser) HTML(ctx context.Context) (string, error)       { return "", nil }
func (b *fakeBrowser) Close() error                                   { return nil }

func (b *fakeBrowser) Evaluate(ctx context.Context, script string, out any) error {
	b.scripts = append(b.scripts, script)
	if b.evalErr != nil {
		return b.evalErr
	}
	if p, ok := out.(*bool); ok {
		*p = true
	}
	return nil
}

func (b *fakeBrowser) Screenshot(ctx context.Context, path string) error {
	if b.shotErr != nil {
		return b.shotErr
	}
	b.shotsTaken++
	return os.WriteFile(path, []byte("png"), 0644)
}

func TestCaptureWithRegions(t *testing.T) {
	dir := t.TempDir()
	browser := &fakeBrowser{}
	c := New(browser, dir, logging.Discard())

	name, err := c.Capture(context.Background(), []core.Rect{
		{Left: 10, Top: 20, Width: 100, Height: 40},
	}, "contrast", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "screenshot_"))
	assert.True(t, strings.HasSuffix(name, "_contrast.png"))
	assert.FileExists(t, filepath.Join(dir, name))

	// Inject then remove: two script evaluations around the screenshot.
	require.Len(t, browser.scripts, 2)
	assert.Contains(t, browser.scripts[0], overlayContainerID)
	assert.Contains(t, browser.scripts[1], "remove")
}

func TestCaptureBannerFallback(t *testing.T) {
	browser := &fakeBrowser{}
	c := New(browser, t.TempDir(), logging.Discard())

	name, err := c.Capture(context.Background(), nil, "title", "Page title")
	require.NoError(t, err)
	assert.NotEmpty(t, name, "a finding with a label but no rects still gets a marker")
	assert.Contains(t, browser.scripts[0], "Page title")
}

func TestCaptureOverlayFailureStillScreenshots(t *testing.T) {
	browser := &fakeBrowser{evalErr: errors.New("context destroyed")}
	c := New(browser, t.TempDir(), logging.Discard())

	name, err := c.Capture(context.Background(), nil, "headings", "Missing H1")
	require.NoError(t, err)
	assert.NotEmpty(t, name)
	assert.Equal(t, 1, browser.shotsTaken, "plain screenshot still saved when overlay fails")
}

func TestCaptureScreenshotFailure(t *testing.T) {
	browser := &fakeBrowser{shotErr: errors.New("disk full")}
	c := New(browser, t.TempDir(), logging.Discard())

	name, err := c.Capture(context.Background(), nil, "title", "Page title")
	assert.Error(t, err)
	assert.Empty(t, name, "evidence ref stays absent when the screenshot cannot be written")
}

func TestScreenshotNamesDoNotCollide(t *testing.T) {
	a := ScreenshotName("links")
	b := ScreenshotName("links")
	assert.NotEqual(t, a, b)
}
