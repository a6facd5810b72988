// Package rules — colour contrast.
// Implements the WCAG relative-luminance contrast check over the sampled
// computed styles, using each sample's effective background.
package rules

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/karthik-anand/webaudit/core"
)

// minContrastRatio is the WCAG AA threshold for normal text.
const minContrastRatio = 4.5

// maxContrastRegions bounds how many offending regions go into one
// evidence shot.
const maxContrastRegions = 3

var rgbPattern = regexp.MustCompile(`rgba?\((\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)

// RGB is an 8-bit-per-channel colour.
type RGB struct {
	R, G, B int
}

// ParseRGB parses 'rgb(r, g, b)' / 'rgba(r, g, b, a)' strings. Anything else
// parses as black: an unparsable sample should flag, not silently pass.
func ParseRGB(s string) RGB {
	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return RGB{}
	}
	r, _ := strconv.Atoi(m[1])
	g, _ := strconv.Atoi(m[2])
	b, _ := strconv.Atoi(m[3])
	return RGB{R: r, G: g, B: b}
}

// relativeLuminance applies the sRGB gamma correction per channel.
func relativeLuminance(c RGB) float64 {
	channel := func(v int) float64 {
		n := float64(v) / 255.0
		if n <= 0.03928 {
			return n / 12.92
		}
		return math.Pow((n+0.055)/1.055, 2.4)
	}
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

// ContrastRatio computes the WCAG contrast ratio between two colours.
// Symmetric in operand order; black on white is 21:1.
func ContrastRatio(a, b RGB) float64 {
	la := relativeLuminance(a)
	lb := relativeLuminance(b)
	l1 := math.Max(la, lb)
	l2 := math.Min(la, lb)
	return (l1 + 0.05) / (l2 + 0.05)
}

// ContrastRule flags pages with text below the 4.5:1 ratio. It emits one
// finding describing the first offender, with evidence regions for up to
// three offending samples.
type ContrastRule struct{}

// Name implements core.Rule.
func (r *ContrastRule) Name() string { return "Insufficient colour contrast" }

// Evaluate implements core.Rule.
func (r *ContrastRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	var regions []core.Rect
	var firstDesc string

	for _, sample := range sig.StyleSamples {
		fg := ParseRGB(sample.Color)
		bg := ParseRGB(sample.Background)
		ratio := ContrastRatio(fg, bg)
		if ratio >= minContrastRatio {
			continue
		}
		if firstDesc == "" {
			firstDesc = fmt.Sprintf("Contrast %.2f:1 below %.1f:1 for text '%s'.", ratio, minContrastRatio, sample.Text)
		}
		regions = append(regions, sample.Rect(fmt.Sprintf("Contrast %.2f:1", ratio)))
		if len(regions) >= maxContrastRegions {
			break
		}
	}

	if len(regions) == 0 {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: firstDesc,
		Severity:    core.SeverityHigh,
		Regions:     regions,
		Tag:         "contrast",
	}}
}
