// Package rules implements the fixed battery of usability heuristics.
// Every rule is an independent core.Rule evaluated in a fixed order against
// one page's signals; a rule firing never suppresses later rules. Rules that
// scan a list of elements stop at the first offender by default — the report
// flags the page, not every instance — unless Options.AllOffenders is set.
package rules

import (
	"context"

	"github.com/karthik-anand/webaudit/core"
)

// Options tunes battery-wide behavior.
type Options struct {
	// AllOffenders reports every offending element in list-scanning rules
	// instead of short-circuiting at the first.
	AllOffenders bool

	// SlowPageMs is the navigation-duration threshold in milliseconds.
	// Zero means the default of 3000.
	SlowPageMs float64
}

// Battery returns the full rule set in evaluation order. The probe backs the
// network liveness rules (dead links, broken images).
func Battery(opts Options, probe core.LivenessChecker) []core.Rule {
	slowMs := opts.SlowPageMs
	if slowMs <= 0 {
		slowMs = 3000
	}
	return []core.Rule{
		&TitleRule{},
		&MissingH1Rule{},
		&MultipleH1Rule{},
		&HeadingSkipRule{},
		&AltTextRule{AllOffenders: opts.AllOffenders},
		&ViewportMetaRule{},
		&MediaQueriesRule{},
		&EmptyLinkRule{AllOffenders: opts.AllOffenders},
		&LinkTextRule{AllOffenders: opts.AllOffenders},
		&DeadLinkRule{Probe: probe, AllOffenders: opts.AllOffenders},
		&ContrastRule{},
		&KeyboardReachabilityRule{},
		&TabOrderRule{},
		&FormLabelRule{},
		&FeedbackHooksRule{},
		&SmallFontRule{AllOffenders: opts.AllOffenders},
		&LineSpacingRule{AllOffenders: opts.AllOffenders},
		&SlowPageRule{ThresholdMs: slowMs},
		&BrokenImageRule{Probe: probe, AllOffenders: opts.AllOffenders},
	}
}

// locateOne runs a supplementary locator script expected to return one rect.
// Failures are soft: the finding fires with no regions and the capturer falls
// back to its banner marker.
func locateOne(ctx context.Context, loc core.Locator, script string) []core.Rect {
	if loc == nil {
		return nil
	}
	rect, err := loc.Locate(ctx, script)
	if err != nil || rect == nil {
		return nil
	}
	return []core.Rect{*rect}
}

// locateMany is locateOne for scripts returning arrays of rects.
func locateMany(ctx context.Context, loc core.Locator, script string, max int) []core.Rect {
	if loc == nil {
		return nil
	}
	rects, err := loc.LocateAll(ctx, script, max)
	if err != nil {
		return nil
	}
	return rects
}
