package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/karthik-anand/webaudit/core"
)

// JSONRenderer renders a ScanResult as an indented JSON document, for
// piping into other tooling instead of the printable PDF.
type JSONRenderer struct {
	// Now is stubbed in tests.
	Now func() time.Time
}

var _ core.Renderer = (*JSONRenderer)(nil)

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{Now: time.Now}
}

type jsonSummary struct {
	Pages    int `json:"pages"`
	Findings int `json:"findings"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

type jsonReport struct {
	GeneratedAt string          `json:"generated_at"`
	Summary     jsonSummary     `json:"summary"`
	Pages       []core.PageShot `json:"pages"`
	Findings    []core.Finding  `json:"findings"`
}

// Render marshals the result. Screenshot references stay relative to the
// scan workspace's screenshots directory.
func (r *JSONRenderer) Render(result *core.ScanResult, shotsDir string) ([]byte, error) {
	counts := result.SeverityCounts()
	doc := jsonReport{
		GeneratedAt: r.Now().UTC().Format(time.RFC3339),
		Summary: jsonSummary{
			Pages:    len(result.Pages),
			Findings: len(result.Findings),
			High:     counts[core.SeverityHigh],
			Medium:   counts[core.SeverityMedium],
			Low:      counts[core.SeverityLow],
		},
		Pages:    result.Pages,
		Findings: result.Findings,
	}
	if doc.Pages == nil {
		doc.Pages = []core.PageShot{}
	}
	if doc.Findings == nil {
		doc.Findings = []core.Finding{}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("building JSON report: %w", err)
	}
	return out, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
