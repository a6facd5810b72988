// Package rules — image checks: alt text quality and broken sources.
package rules

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/karthik-anand/webaudit/core"
)

// genericAltWords are alt values that describe nothing.
var genericAltWords = map[string]bool{
	"image":   true,
	"photo":   true,
	"picture": true,
}

const badAltScript = `
(() => {
  const imgs = document.querySelectorAll('img');
  for (const im of imgs) {
    const alt = im.getAttribute('alt');
    if (!alt || alt.trim().length < 3) {
      const r = im.getBoundingClientRect();
      return { left: r.left + window.scrollX, top: r.top + window.scrollY,
               width: r.width, height: r.height, label: 'Alt missing' };
    }
  }
  return null;
})()`

func imageBySrcScript(src string) string {
	return fmt.Sprintf(`
(() => {
  const el = Array.from(document.querySelectorAll('img')).find(e => e.getAttribute('src') === %q);
  if (el) {
    const r = el.getBoundingClientRect();
    return { left: r.left + window.scrollX, top: r.top + window.scrollY,
             width: r.width, height: r.height, label: 'Broken image' };
  }
  return null;
})()`, src)
}

// AltTextRule flags images with missing, too short, generic, or
// filename-echoing alt text.
type AltTextRule struct {
	AllOffenders bool
}

// Name implements core.Rule.
func (r *AltTextRule) Name() string { return "Image alt text not meaningful" }

// Evaluate implements core.Rule.
func (r *AltTextRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	var findings []core.Finding
	for _, img := range sig.Doc.Images() {
		if !badAlt(img.Alt, img.Src) {
			continue
		}
		findings = append(findings, core.Finding{
			Rule:        r.Name(),
			PageURL:     sig.URL,
			Description: "Provide descriptive alt text (≥3 chars, not generic or filename).",
			Severity:    core.SeverityHigh,
			Regions:     locateOne(ctx, loc, badAltScript),
			Label:       "Alt missing",
			Tag:         "alt",
		})
		if !r.AllOffenders {
			break
		}
	}
	return findings
}

// badAlt applies the alt-quality heuristics to one image.
func badAlt(alt, src string) bool {
	trimmed := strings.TrimSpace(alt)
	if utf8.RuneCountInString(trimmed) < 3 {
		return true
	}
	lower := strings.ToLower(trimmed)
	if genericAltWords[lower] {
		return true
	}
	return lower == strings.ToLower(path.Base(srcPath(src)))
}

// srcPath extracts the path portion of a src attribute for filename
// comparison, falling back to the raw value.
func srcPath(src string) string {
	if parsed, err := url.Parse(src); err == nil && parsed.Path != "" {
		return parsed.Path
	}
	return src
}

// BrokenImageRule probes each image's resolved src and flags the first that
// returns HTTP >=400 or fails to fetch within the probe timeout.
type BrokenImageRule struct {
	Probe        core.LivenessChecker
	AllOffenders bool
}

// Name implements core.Rule.
func (r *BrokenImageRule) Name() string { return "Broken image source" }

// Evaluate implements core.Rule.
func (r *BrokenImageRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	if r.Probe == nil {
		return nil
	}
	var findings []core.Finding
	for _, img := range sig.Doc.Images() {
		if img.Src == "" {
			continue
		}
		absolute := resolveAgainst(sig.URL, img.Src)

		status, err := r.Probe.Check(ctx, absolute)
		var desc string
		switch {
		case err != nil:
			desc = fmt.Sprintf("Failed to load image: %s", img.Src)
		case status >= 400:
			desc = fmt.Sprintf("Image returns HTTP %d: %s", status, absolute)
		default:
			continue
		}

		findings = append(findings, core.Finding{
			Rule:        r.Name(),
			PageURL:     sig.URL,
			Description: desc,
			Severity:    core.SeverityLow,
			Regions:     locateOne(ctx, loc, imageBySrcScript(img.Src)),
			Label:       "Broken image",
			Tag:         "images",
		})
		if !r.AllOffenders {
			break
		}
	}
	return findings
}

// resolveAgainst resolves a possibly-relative reference against the page URL.
func resolveAgainst(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
