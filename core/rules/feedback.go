package rules

import (
	"context"

	"github.com/karthik-anand/webaudit/core"
)

// FeedbackHooksRule flags pages without any alert role or live-region
// attribute to announce system feedback.
type FeedbackHooksRule struct{}

// Name implements core.Rule.
func (r *FeedbackHooksRule) Name() string { return "Missing user feedback hooks" }

// Evaluate implements core.Rule.
func (r *FeedbackHooksRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	if sig.Doc.HasFeedbackHooks() {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Provide clear feedback areas (role='alert' or aria-live) for system actions/errors.",
		Severity:    core.SeverityLow,
		Label:       "Missing feedback",
		Tag:         "feedback",
	}}
}
