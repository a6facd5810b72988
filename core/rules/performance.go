package rules

import (
	"context"
	"fmt"

	"github.com/karthik-anand/webaudit/core"
)

// SlowPageRule flags pages whose navigation timing duration exceeds the
// threshold.
type SlowPageRule struct {
	ThresholdMs float64
}

// Name implements core.Rule.
func (r *SlowPageRule) Name() string { return "Slow page performance" }

// Evaluate implements core.Rule.
func (r *SlowPageRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	threshold := r.ThresholdMs
	if threshold <= 0 {
		threshold = 3000
	}
	if sig.NavigationMs <= threshold {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: fmt.Sprintf("Navigation duration %.0fms; optimize assets and requests.", sig.NavigationMs),
		Severity:    core.SeverityMedium,
		Label:       "Slow page",
		Tag:         "performance",
	}}
}
