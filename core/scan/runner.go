// Package scan orchestrates one scan: a single browser session reused across
// all pages, signals extracted and the full rule battery evaluated per page,
// evidence captured synchronously before each finding is appended, and the
// cross-page aggregation appended after the loop.
//
// A failing page never aborts the scan; it becomes one page-load-error
// finding and the loop moves on.
package scan

import (
	"context"
	"path/filepath"
	"time"

	"github.com/karthik-anand/webaudit/core"
	"github.com/karthik-anand/webaudit/core/aggregate"
	"github.com/karthik-anand/webaudit/core/evidence"
	"github.com/karthik-anand/webaudit/logging"
)

// Extractor produces the per-page signals. Satisfied by *signal.Extractor.
type Extractor interface {
	Extract(ctx context.Context, url string) (*core.PageSignals, error)
}

// Runner drives the sequential scan loop.
type Runner struct {
	browser   core.Browser
	locator   core.Locator
	extractor Extractor
	rules     []core.Rule
	capturer  core.Capturer
	shotsDir  string
	log       *logging.Logger
}

// NewRunner wires a Runner. The locator may be nil; rules then fall back to
// banner evidence.
func NewRunner(
	browser core.Browser,
	locator core.Locator,
	extractor Extractor,
	rules []core.Rule,
	capturer core.Capturer,
	shotsDir string,
	log *logging.Logger,
) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{
		browser:   browser,
		locator:   locator,
		extractor: extractor,
		rules:     rules,
		capturer:  capturer,
		shotsDir:  shotsDir,
		log:       log,
	}
}

// Run scans the URLs in order and returns the complete result. The browser
// session is owned by the caller; Run never closes it.
func (r *Runner) Run(ctx context.Context, urls []string) *core.ScanResult {
	builder := core.NewResultBuilder()
	state := aggregate.NewState()

	for i, url := range urls {
		r.log.Infof("[%d/%d] scanning %s", i+1, len(urls), url)
		start := time.Now()

		before := len(builder.Result().Findings)
		r.scanPage(ctx, url, builder, state)

		r.log.Infof("done %s in %.1fs, %d finding(s)",
			url, time.Since(start).Seconds(), len(builder.Result().Findings)-before)
	}

	for _, f := range state.Findings() {
		builder.Append(f)
	}

	return builder.Result()
}

// scanPage handles one page end to end. Extraction failures are recorded as
// a single high-severity finding; rule evaluation failures cannot happen by
// contract (rules degrade internally).
func (r *Runner) scanPage(ctx context.Context, url string, builder *core.ResultBuilder, state *aggregate.State) {
	sig, err := r.extractor.Extract(ctx, url)
	if err != nil {
		r.log.Errorf("error scanning %s: %v", url, err)
		builder.Append(core.Finding{
			Rule:        "Page load error",
			PageURL:     url,
			Description: err.Error(),
			Severity:    core.SeverityHigh,
		})
		return
	}

	// Page-level screenshot, no overlays.
	shotName := evidence.ScreenshotName("page")
	if err := r.browser.Screenshot(ctx, filepath.Join(r.shotsDir, shotName)); err != nil {
		r.log.Errorf("failed to save page screenshot for %s: %v", url, err)
		shotName = ""
	}
	builder.AddPage(core.PageShot{URL: url, Screenshot: shotName, Preview: sig.ContentPreview})

	state.Record(url, sig.Doc.Title(), sig.Doc.NavLinkTexts(aggregate.NavSignatureLinks))

	for _, rule := range r.rules {
		for _, f := range rule.Evaluate(ctx, sig, r.locator) {
			r.attachEvidence(ctx, &f)
			builder.Append(f)
		}
	}
}

// attachEvidence captures the finding's screenshot before it is appended, so
// every non-empty evidence ref points at a file that exists.
func (r *Runner) attachEvidence(ctx context.Context, f *core.Finding) {
	if r.capturer == nil || (len(f.Regions) == 0 && f.Label == "") {
		return
	}
	tag := f.Tag
	if tag == "" {
		tag = "finding"
	}
	ref, err := r.capturer.Capture(ctx, f.Regions, tag, f.Label)
	if err != nil {
		// Already logged by the capturer; the finding stands without evidence.
		return
	}
	f.EvidenceRef = ref
}
