// Package rules — keyboard reachability and tab order.
package rules

import (
	"context"

	"github.com/karthik-anand/webaudit/core"
)

const blockedTabindexScript = `
(() => Array.from(document.querySelectorAll('[tabindex="-1"]')).slice(0, 3).map(el => {
  const r = el.getBoundingClientRect();
  return { left: r.left + window.scrollX, top: r.top + window.scrollY,
           width: r.width, height: r.height, label: 'tabindex -1' };
}))()`

// KeyboardReachabilityRule flags pages where no interactive element can be
// reached with the keyboard.
type KeyboardReachabilityRule struct{}

// Name implements core.Rule.
func (r *KeyboardReachabilityRule) Name() string { return "Keyboard navigation inaccessible" }

// Evaluate implements core.Rule.
func (r *KeyboardReachabilityRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	if sig.KeyboardReachable > 0 {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Ensure interactive elements are reachable via keyboard (Tab).",
		Severity:    core.SeverityHigh,
		Label:       "Keyboard nav",
		Tag:         "keyboard",
	}}
}

// TabOrderRule flags pages with elements removed from the tab order via
// tabindex="-1".
type TabOrderRule struct{}

// Name implements core.Rule.
func (r *TabOrderRule) Name() string { return "Elements removed from tab order" }

// Evaluate implements core.Rule.
func (r *TabOrderRule) Evaluate(ctx context.Context, sig *core.PageSignals, loc core.Locator) []core.Finding {
	if sig.NegativeTabindex == 0 {
		return nil
	}
	return []core.Finding{{
		Rule:        r.Name(),
		PageURL:     sig.URL,
		Description: "Avoid tabindex='-1' unless necessary; keep natural focus order.",
		Severity:    core.SeverityLow,
		Regions:     locateMany(ctx, loc, blockedTabindexScript, 3),
		Label:       "Tab order",
		Tag:         "keyboard",
	}}
}
