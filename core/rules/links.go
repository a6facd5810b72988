// Package rules — link integrity: empty hrefs, vague link text, dead targets.
package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/karthik-anand/webaudit/core"
)

// noOpHrefs are href values that go nowhere.
var noOpHrefs = map[string]bool{
	"":                   true,
	"#":                  true,
	"javascript:void(0)": true,
}

// genericLinkPhrases are link texts that tell the user nothing about the target.
var genericLinkPhrases = map[string]bool{
	"click here": true,
	"here":       true,
	"read more":  true,
	"learn more": true,
	"more":       true,
}

const emptyLinkScript = `
(() => {
  const as = document.querySelectorAll('a');
  for (const el of as) {
    const h = el.getAttribute('href');
    if (!h || h === '' || h === '#' || h === 'javascript:void(0)') {
      const r = el.getBoundingClientRect();
      return { left: r.left + window.scrollX, top: r.top + window.scrollY,
               width: r.width, height: r.height, label: 'Broken link' };
    }
  }
  return null;
})()`

func anchorByTextScript(text string) string {
	return fmt.Sprintf(`
(() => {
  const t = %q;
  const el = Array.from(document.querySelectorAll('a')).find(a => a.innerText.trim().toLowerCase() === t);
  if (el) {
    const r = el.getBoundingClientRect();
    return { left: r.left + window.scrollX, top: r.top + window.scrollY,
             width: r.width, height: r.height, label: 'Link text' };
  }
  return null;
})()`, strings.ToLower(text))
}

func anchorByHrefScript(href string) string {
	return fmt.Sprintf(`
(() => {
  const el = Array.from(document.querySelectorAll('a')).find(a => a.getAttribute('href') === %q);
  if (el) {
    const r = el.getBoundingClientRect();
    return { left: r.left + window.scrollX, top: r.top + window.scrollY,
             width: r.width, height: r.height, label: 'Broken link' };
  }
  return null;
})()`, href)
}

// EmptyLinkRule flags anchors whose href is missing, '#', or a no-op.
type EmptyLinkRule struct {
	AllOffenders bool
}

// Name implements core.Rule.
func (r *EmptyLinkRule) Name() string { return "Empty or broken link" }

// Evaluate implements core.Rule.
func (r *EmptyLinkRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	var findings []core.Finding
	for _, a := range sig.Doc.Anchors() {
		if !noOpHrefs[a.Href] {
			continue
		}
		findings = append(findings, core.Finding{
			Rule:        r.Name(),
			PageURL:     sig.URL,
			Description: "Provide valid href and meaningful link text.",
			Severity:    core.SeverityMedium,
			Regions:     locateOne(ctx, loc, emptyLinkScript),
			Label:       "Broken link",
			Tag:         "links",
		})
		if !r.AllOffenders {
			break
		}
	}
	return findings
}

// LinkTextRule flags anchors whose visible text is a generic phrase.
type LinkTextRule struct {
	AllOffenders bool
}

// Name implements core.Rule.
func (r *LinkTextRule) Name() string { return "Link text not descriptive" }

// Evaluate implements core.Rule.
func (r *LinkTextRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	var findings []core.Finding
	for _, a := range sig.Doc.Anchors() {
		if a.Text == "" || !genericLinkPhrases[strings.ToLower(a.Text)] {
			continue
		}
		findings = append(findings, core.Finding{
			Rule:        r.Name(),
			PageURL:     sig.URL,
			Description: fmt.Sprintf("Use descriptive link text instead of '%s'.", a.Text),
			Severity:    core.SeverityLow,
			Regions:     locateOne(ctx, loc, anchorByTextScript(a.Text)),
			Label:       "Link text",
			Tag:         "links",
		})
		if !r.AllOffenders {
			break
		}
	}
	return findings
}

// DeadLinkRule probes each anchor's resolved target and flags the first that
// returns HTTP >=400 or fails to fetch within the probe timeout. Probes run
// synchronously per link.
type DeadLinkRule struct {
	Probe        core.LivenessChecker
	AllOffenders bool
}

// Name implements core.Rule.
func (r *DeadLinkRule) Name() string { return "Broken link detected" }

// Evaluate implements core.Rule.
func (r *DeadLinkRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	if r.Probe == nil {
		return nil
	}
	var findings []core.Finding
	for _, a := range sig.Doc.Anchors() {
		if !probeableHref(a.Href) {
			continue
		}
		absolute := resolveAgainst(sig.URL, a.Href)

		status, err := r.Probe.Check(ctx, absolute)
		var desc string
		switch {
		case err != nil:
			desc = fmt.Sprintf("Failed to open: %s", a.Href)
		case status >= 400:
			desc = fmt.Sprintf("Link returns HTTP %d: %s", status, absolute)
		default:
			continue
		}

		findings = append(findings, core.Finding{
			Rule:        r.Name(),
			PageURL:     sig.URL,
			Description: desc,
			Severity:    core.SeverityHigh,
			Regions:     locateOne(ctx, loc, anchorByHrefScript(a.Href)),
			Label:       "Broken link",
			Tag:         "links",
		})
		if !r.AllOffenders {
			break
		}
	}
	return findings
}

// probeableHref filters out hrefs that cannot be fetched over HTTP.
func probeableHref(href string) bool {
	if noOpHrefs[href] || strings.HasPrefix(href, "#") {
		return false
	}
	for _, scheme := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(href, scheme) {
			return false
		}
	}
	return true
}
