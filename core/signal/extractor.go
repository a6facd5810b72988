// Package signal — live-DOM extraction.
// The scripts here run inside the page and return JSON that maps onto the
// core types: style samples with document-absolute geometry, media-query and
// tab-order counts, and navigation timing.
package signal

import (
	"context"
	"fmt"

	"github.com/karthik-anand/webaudit/core"
	"github.com/karthik-anand/webaudit/logging"
)

// styleSampleScript walks up the ancestor chain per element to resolve the
// effective background (first non-transparent, defaulting to white at the
// root) and translates viewport rects to document coordinates via the scroll
// offset. The %d caps the number of sampled elements.
const styleSampleScript = `
(() => {
  function effectiveBackground(el) {
    let node = el;
    while (node && node !== document.documentElement) {
      const cs = getComputedStyle(node);
      const bg = cs.backgroundColor;
      if (bg && bg !== 'transparent' && bg !== 'rgba(0, 0, 0, 0)') {
        return bg;
      }
      node = node.parentElement;
    }
    const bodyBg = document.body ? getComputedStyle(document.body).backgroundColor : '';
    if (bodyBg && bodyBg !== 'transparent' && bodyBg !== 'rgba(0, 0, 0, 0)') return bodyBg;
    return 'rgb(255, 255, 255)';
  }
  const selectors = ['p', 'a', 'h1', 'h2', 'h3', 'h4', 'h5', 'h6', 'li', 'span', 'label'];
  const els = [];
  selectors.forEach(s => document.querySelectorAll(s).forEach(e => {
    if (e && e.innerText && e.innerText.trim().length > 0) { els.push(e); }
  }));
  const out = [];
  els.slice(0, %d).forEach(e => {
    const cs = getComputedStyle(e);
    const r = e.getBoundingClientRect();
    out.push({
      text: e.innerText.trim().slice(0, 120),
      color: cs.color,
      bg: effectiveBackground(e),
      fontSize: cs.fontSize,
      lineHeight: cs.lineHeight,
      left: r.left + window.scrollX,
      top: r.top + window.scrollY,
      width: r.width,
      height: r.height
    });
  });
  return out;
})()`

// interactionScript counts media-query rules (cross-origin sheets tolerated
// as zero), keyboard-reachable elements, tabindex=-1 elements, and reads the
// navigation timing duration.
const interactionScript = `
(() => {
  let mq = 0;
  for (const ss of document.styleSheets) {
    try {
      const rules = ss.cssRules;
      if (!rules) continue;
      for (const r of rules) { if (r.type === 4) mq++; }
    } catch (e) {}
  }
  const nodes = document.querySelectorAll(
    'a[href], button:not([disabled]), input:not([disabled]), textarea:not([disabled]), select:not([disabled]), [tabindex]');
  let tabbables = 0;
  nodes.forEach(n => {
    const ti = n.getAttribute('tabindex');
    if (ti === null || parseInt(ti, 10) >= 0) tabbables++;
  });
  const blocked = document.querySelectorAll('[tabindex="-1"]').length;
  const nav = performance.getEntriesByType('navigation')[0];
  const duration = nav ? nav.duration : 0;
  return { mq: mq, tabbables: tabbables, blocked: blocked, duration: duration };
})()`

type interactionCounts struct {
	MediaQueries int     `json:"mq"`
	Tabbables    int     `json:"tabbables"`
	Blocked      int     `json:"blocked"`
	DurationMs   float64 `json:"duration"`
}

// Extractor pulls PageSignals from an already-navigated page.
type Extractor struct {
	browser     core.Browser
	sampleLimit int
	log         *logging.Logger
}

// NewExtractor creates an Extractor bound to a browser session.
func NewExtractor(b core.Browser, sampleLimit int, log *logging.Logger) *Extractor {
	if sampleLimit <= 0 {
		sampleLimit = 80
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Extractor{browser: b, sampleLimit: sampleLimit, log: log}
}

// Extract navigates to url and collects the full signal set for the page.
// Any navigation or extraction failure is returned to the caller, which
// records it as a page-load-error finding and moves on.
func (e *Extractor) Extract(ctx context.Context, url string) (*core.PageSignals, error) {
	if err := e.browser.Navigate(ctx, url); err != nil {
		return nil, err
	}

	html, err := e.browser.HTML(ctx)
	if err != nil {
		return nil, err
	}

	page, err := Parse(html)
	if err != nil {
		return nil, err
	}

	var samples []core.StyleSample
	script := fmt.Sprintf(styleSampleScript, e.sampleLimit)
	if err := e.browser.Evaluate(ctx, script, &samples); err != nil {
		return nil, fmt.Errorf("sampling computed styles: %w", err)
	}

	var counts interactionCounts
	if err := e.browser.Evaluate(ctx, interactionScript, &counts); err != nil {
		return nil, fmt.Errorf("counting interaction signals: %w", err)
	}

	// The Markdown preview is report garnish; failure to build one is not a
	// page failure.
	preview, err := ContentPreview(html, previewMaxRunes)
	if err != nil {
		e.log.Warnf("content preview failed for %s: %v", url, err)
		preview = ""
	}

	e.log.Debugf("extracted %d style samples from %s (mq=%d tabbables=%d blocked=%d)",
		len(samples), url, counts.MediaQueries, counts.Tabbables, counts.Blocked)

	return &core.PageSignals{
		URL:                 url,
		Doc:                 page,
		StyleSamples:        samples,
		ViewportMetaPresent: page.HasViewportMeta(),
		MediaQueryCount:     counts.MediaQueries,
		KeyboardReachable:   counts.Tabbables,
		NegativeTabindex:    counts.Blocked,
		NavigationMs:        counts.DurationMs,
		ContentPreview:      preview,
	}, nil
}
