package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthik-anand/webaudit/core"
)

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"rgb(255, 255, 255)", RGB{255, 255, 255}},
		{"rgba(12,34,56,0.5)", RGB{12, 34, 56}},
		{"rgb(0, 0, 0)", RGB{0, 0, 0}},
		// Unparsable inputs default to black so they flag rather than pass.
		{"#ffffff", RGB{}},
		{"transparent", RGB{}},
		{"", RGB{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRGB(tt.in), "ParseRGB(%q)", tt.in)
	}
}

func TestContrastRatioBlackOnWhite(t *testing.T) {
	ratio := ContrastRatio(RGB{0, 0, 0}, RGB{255, 255, 255})
	assert.InDelta(t, 21.0, ratio, 0.01)
}

func TestContrastRatioSymmetric(t *testing.T) {
	pairs := [][2]RGB{
		{{0, 0, 0}, {255, 255, 255}},
		{{120, 120, 120}, {200, 210, 190}},
		{{255, 0, 0}, {0, 0, 255}},
	}
	for _, p := range pairs {
		assert.InDelta(t, ContrastRatio(p[0], p[1]), ContrastRatio(p[1], p[0]), 1e-12)
	}
}

func TestContrastRatioIdenticalColors(t *testing.T) {
	assert.InDelta(t, 1.0, ContrastRatio(RGB{90, 90, 90}, RGB{90, 90, 90}), 1e-12)
}

func TestContrastRuleFlagsLowContrast(t *testing.T) {
	sig := &core.PageSignals{
		URL: "https://example.com/",
		StyleSamples: []core.StyleSample{
			{Text: "faint text", Color: "rgb(200, 200, 200)", Background: "rgb(255, 255, 255)"},
			{Text: "crisp text", Color: "rgb(0, 0, 0)", Background: "rgb(255, 255, 255)"},
		},
	}
	findings := (&ContrastRule{}).Evaluate(context.Background(), sig, nil)
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityHigh, findings[0].Severity)
	assert.Contains(t, findings[0].Description, "faint text")
	assert.Len(t, findings[0].Regions, 1)
}

func TestContrastRuleCapsRegionsAtThree(t *testing.T) {
	var samples []core.StyleSample
	for i := 0; i < 6; i++ {
		samples = append(samples, core.StyleSample{
			Text: "washed out", Color: "rgb(230, 230, 230)", Background: "rgb(255, 255, 255)",
		})
	}
	sig := &core.PageSignals{URL: "u", StyleSamples: samples}

	findings := (&ContrastRule{}).Evaluate(context.Background(), sig, nil)
	require.Len(t, findings, 1)
	assert.Len(t, findings[0].Regions, 3)
}

// An unparsable foreground on a dark background reads as black-on-dark and
// flags; the fail-open default must not be replaced by skipping the sample.
func TestContrastRuleUnparsableColorFlags(t *testing.T) {
	sig := &core.PageSignals{
		URL: "u",
		StyleSamples: []core.StyleSample{
			{Text: "mystery", Color: "currentColor", Background: "rgb(10, 10, 10)"},
		},
	}
	findings := (&ContrastRule{}).Evaluate(context.Background(), sig, nil)
	require.Len(t, findings, 1)
}

func TestContrastRulePassesGoodContrast(t *testing.T) {
	sig := &core.PageSignals{
		URL: "u",
		StyleSamples: []core.StyleSample{
			{Text: "body", Color: "rgb(0, 0, 0)", Background: "rgb(255, 255, 255)"},
		},
	}
	assert.Empty(t, (&ContrastRule{}).Evaluate(context.Background(), sig, nil))
}
