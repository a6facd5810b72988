package rules

import (
	"context"
	"fmt"

	"github.com/karthik-anand/webaudit/core"
)

func controlByIDScript(id string) string {
	return fmt.Sprintf(`
(() => {
  const el = document.getElementById(%q);
  if (el) {
    const r = el.getBoundingClientRect();
    return { left: r.left + window.scrollX, top: r.top + window.scrollY,
             width: r.width, height: r.height, label: 'Missing label' };
  }
  return null;
})()`, id)
}

// FormLabelRule flags the first form control lacking both a <label for>
// association and an ancestor <label> wrapper.
type FormLabelRule struct{}

// Name implements core.Rule.
func (r *FormLabelRule) Name() string { return "Form field missing label" }

// Evaluate implements core.Rule.
func (r *FormLabelRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	id, found := sig.Doc.UnlabeledFormControl()
	if !found {
		return nil
	}
	var regions []core.Rect
	if id != "" {
		regions = locateOne(ctx, loc, controlByIDScript(id))
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Associate inputs with visible labels using <label for='id'>.",
		Severity:    core.SeverityMedium,
		Regions:     regions,
		Label:       "Missing label",
		Tag:         "forms",
	}}
}
