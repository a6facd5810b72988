// Package rules — mobile responsiveness signals.
package rules

import (
	"context"

	"github.com/karthik-anand/webaudit/core"
)

// ViewportMetaRule flags pages without a viewport meta tag.
type ViewportMetaRule struct{}

// Name implements core.Rule.
func (r *ViewportMetaRule) Name() string { return "Missing viewport meta" }

// Evaluate implements core.Rule.
func (r *ViewportMetaRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	if sig.ViewportMetaPresent {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Add <meta name='viewport' content='width=device-width, initial-scale=1.0'>.",
		Severity:    core.SeverityMedium,
		Label:       "Viewport meta missing",
		Tag:         "viewport",
	}}
}

// MediaQueriesRule flags pages whose stylesheets contain no media-query
// rules at all. Cross-origin sheets that refuse access count as zero.
type MediaQueriesRule struct{}

// Name implements core.Rule.
func (r *MediaQueriesRule) Name() string { return "No responsive media queries" }

// Evaluate implements core.Rule.
func (r *MediaQueriesRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	if sig.MediaQueryCount > 0 {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Add CSS media queries to adapt layout across devices.",
		Severity:    core.SeverityLow,
		Label:       "No media queries",
		Tag:         "viewport",
	}}
}
