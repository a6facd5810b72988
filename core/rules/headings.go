// Package rules — heading structure.
package rules

import (
	"context"

	"github.com/karthik-anand/webaudit/core"
)

const multipleH1Script = `
(() => Array.from(document.querySelectorAll('h1')).slice(0, 2).map(e => {
  const r = e.getBoundingClientRect();
  return { left: r.left + window.scrollX, top: r.top + window.scrollY,
           width: r.width, height: r.height, label: 'Multiple H1' };
}))()`

const headingSkipScript = `
(() => {
  const hs = Array.from(document.querySelectorAll('h1,h2,h3,h4,h5,h6'));
  for (let i = 1; i < hs.length; i++) {
    const p = parseInt(hs[i - 1].tagName.substring(1));
    const c = parseInt(hs[i].tagName.substring(1));
    if (c - p > 1) {
      const r = hs[i].getBoundingClientRect();
      return { left: r.left + window.scrollX, top: r.top + window.scrollY,
               width: r.width, height: r.height, label: 'Heading skip' };
    }
  }
  return null;
})()`

// MissingH1Rule flags pages without a level-1 heading.
type MissingH1Rule struct{}

// Name implements core.Rule.
func (r *MissingH1Rule) Name() string { return "Missing H1 heading" }

// Evaluate implements core.Rule.
func (r *MissingH1Rule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	for _, level := range sig.Doc.HeadingLevels() {
		if level == 1 {
			return nil
		}
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Include a single, clear <h1> per page.",
		Severity:    core.SeverityMedium,
		Label:       "Missing H1",
		Tag:         "headings",
	}}
}

// MultipleH1Rule flags pages with more than one level-1 heading.
type MultipleH1Rule struct{}

// Name implements core.Rule.
func (r *MultipleH1Rule) Name() string { return "Multiple H1 headings" }

// Evaluate implements core.Rule.
func (r *MultipleH1Rule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	count := 0
	for _, level := range sig.Doc.HeadingLevels() {
		if level == 1 {
			count++
		}
	}
	if count <= 1 {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Use only one <h1> to anchor page structure.",
		Severity:    core.SeverityLow,
		Regions:     locateMany(ctx, loc, multipleH1Script, 2),
		Label:       "Multiple H1",
		Tag:         "headings",
	}}
}

// HeadingSkipRule flags the first adjacent heading pair whose level jumps by
// more than one (e.g. h2 followed by h4).
type HeadingSkipRule struct{}

// Name implements core.Rule.
func (r *HeadingSkipRule) Name() string { return "Heading level skips" }

// Evaluate implements core.Rule.
func (r *HeadingSkipRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	levels := sig.Doc.HeadingLevels()
	for i := 1; i < len(levels); i++ {
		if levels[i]-levels[i-1] > 1 {
			return []core.Finding{{
				Rule:        r.Name(),
				PageURL:     sig.URL,
				Description: "Use hierarchical headings without skipping levels (e.g., h2 then h3).",
				Severity:    core.SeverityLow,
				Regions:     locateOne(ctx, loc, headingSkipScript),
				Label:       "Heading skip",
				Tag:         "headings",
			}}
		}
	}
	return nil
}
