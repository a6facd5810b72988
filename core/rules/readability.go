// Package rules — readability: font size and line spacing over the sampled
// computed styles.
package rules

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/karthik-anand/webaudit/core"
)

const (
	// minFontPx is the smallest comfortable body font size.
	minFontPx = 12.0
	// minLineHeightRatio is the smallest comfortable line-height ÷ font-size.
	minLineHeightRatio = 1.2
)

var numericPattern = regexp.MustCompile(`[0-9.]+`)

// parsePx pulls the numeric value out of a CSS length like "14px".
// Returns fallback when there is nothing numeric (e.g. "normal").
func parsePx(s string, fallback float64) float64 {
	m := numericPattern.FindString(s)
	if m == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return fallback
	}
	return v
}

// SmallFontRule flags sampled elements rendered below 12px.
type SmallFontRule struct {
	AllOffenders bool
}

// Name implements core.Rule.
func (r *SmallFontRule) Name() string { return "Small font size" }

// Evaluate implements core.Rule.
func (r *SmallFontRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	var findings []core.Finding
	for _, sample := range sig.StyleSamples {
		size := parsePx(sample.FontSize, minFontPx)
		if size >= minFontPx {
			continue
		}
		findings = append(findings, core.Finding{
			Rule:        r.Name(),
			PageURL:     sig.URL,
			Description: fmt.Sprintf("Increase font size to ≥ 12px. Found %gpx.", size),
			Severity:    core.SeverityLow,
			Regions:     []core.Rect{sample.Rect("Small font")},
			Tag:         "readability",
		})
		if !r.AllOffenders {
			break
		}
	}
	return findings
}

// LineSpacingRule flags sampled elements whose line-height ÷ font-size falls
// below 1.2. A non-numeric line-height ("normal") is treated as 1.2× the font
// size and passes.
type LineSpacingRule struct {
	AllOffenders bool
}

// Name implements core.Rule.
func (r *LineSpacingRule) Name() string { return "Tight line spacing" }

// Evaluate implements core.Rule.
func (r *LineSpacingRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	var findings []core.Finding
	for _, sample := range sig.StyleSamples {
		size := parsePx(sample.FontSize, minFontPx)
		if size <= 0 {
			continue
		}
		height := parsePx(sample.LineHeight, size*minLineHeightRatio)
		if height/size >= minLineHeightRatio {
			continue
		}
		findings = append(findings, core.Finding{
			Rule:        r.Name(),
			PageURL:     sig.URL,
			Description: "Use line-height ≈ 1.4 for comfortable reading.",
			Severity:    core.SeverityLow,
			Regions:     []core.Rect{sample.Rect("Line-height")},
			Tag:         "readability",
		})
		if !r.AllOffenders {
			break
		}
	}
	return findings
}
