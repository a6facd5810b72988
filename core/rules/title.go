package rules

import (
	"context"
	"unicode/utf8"

	"github.com/karthik-anand/webaudit/core"
)

// minTitleLength is the shortest title considered descriptive.
const minTitleLength = 5

// TitleRule flags pages with a missing or too-short <title>.
type TitleRule struct{}

// Name implements core.Rule.
func (r *TitleRule) Name() string { return "Page title not descriptive" }

// Evaluate implements core.Rule.
func (r *TitleRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	title := sig.Doc.Title()
	if title != "" && utf8.RuneCountInString(title) >= minTitleLength {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Provide a unique, descriptive <title> of at least 5 characters.",
		Severity:    core.SeverityHigh,
		Label:       "Page title",
		Tag:         "title",
	}}
}
