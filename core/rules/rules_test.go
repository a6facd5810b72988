package rules

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthik-anand/webaudit/core"
)

// fakeDoc is a synthetic core.Document so rules run without a browser.
type fakeDoc struct {
	title        string
	headings     []int
	images       []core.ImageRef
	anchors      []core.AnchorRef
	viewportMeta bool
	unlabeledID  string
	unlabeled    bool
	feedback     bool
	navTexts     []string
}

func (d *fakeDoc) Title() string                         { return d.title }
func (d *fakeDoc) HeadingLevels() []int                  { return d.headings }
func (d *fakeDoc) Images() []core.ImageRef               { return d.images }
func (d *fakeDoc) Anchors() []core.AnchorRef             { return d.anchors }
func (d *fakeDoc) HasViewportMeta() bool                 { return d.viewportMeta }
func (d *fakeDoc) UnlabeledFormControl() (string, bool)  { return d.unlabeledID, d.unlabeled }
func (d *fakeDoc) HasFeedbackHooks() bool                { return d.feedback }
func (d *fakeDoc) NavLinkTexts(max int) []string         { return d.navTexts }

func sigWith(doc *fakeDoc) *core.PageSignals {
	return &core.PageSignals{
		URL:               "https://example.com/page",
		Doc:               doc,
		KeyboardReachable: 5,
	}
}

// fakeProbe maps URLs to statuses; unknown URLs fail like a timeout.
type fakeProbe struct {
	statuses map[string]int
}

func (p *fakeProbe) Check(_ context.Context, url string) (int, error) {
	if status, ok := p.statuses[url]; ok {
		return status, nil
	}
	return 0, errors.New("dial timeout")
}

func evaluate(t *testing.T, rule core.Rule, sig *core.PageSignals) []core.Finding {
	t.Helper()
	return rule.Evaluate(context.Background(), sig, nil)
}

func TestTitleRule(t *testing.T) {
	tests := []struct {
		name  string
		title string
		fires bool
	}{
		{"missing title", "", true},
		{"short title", "Shop", true},
		{"five characters", "Plans", false},
		{"descriptive title", "Pricing plans for teams", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := evaluate(t, &TitleRule{}, sigWith(&fakeDoc{title: tt.title}))
			if !tt.fires {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, core.SeverityHigh, findings[0].Severity)
			assert.Equal(t, "https://example.com/page", findings[0].PageURL)
		})
	}
}

func TestH1RulesAreMutuallyExclusive(t *testing.T) {
	missing := sigWith(&fakeDoc{headings: []int{2, 3}})
	two := sigWith(&fakeDoc{headings: []int{1, 2, 1}})
	one := sigWith(&fakeDoc{headings: []int{1, 2}})

	assert.Len(t, evaluate(t, &MissingH1Rule{}, missing), 1)
	assert.Empty(t, evaluate(t, &MultipleH1Rule{}, missing))

	assert.Empty(t, evaluate(t, &MissingH1Rule{}, two))
	findings := evaluate(t, &MultipleH1Rule{}, two)
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityLow, findings[0].Severity)

	assert.Empty(t, evaluate(t, &MissingH1Rule{}, one))
	assert.Empty(t, evaluate(t, &MultipleH1Rule{}, one))
}

func TestHeadingSkipRule(t *testing.T) {
	skip := sigWith(&fakeDoc{headings: []int{1, 2, 4}})
	require.Len(t, evaluate(t, &HeadingSkipRule{}, skip), 1)

	// Backward jumps are fine; only forward skips of more than one flag.
	ok := sigWith(&fakeDoc{headings: []int{1, 2, 3, 2, 3}})
	assert.Empty(t, evaluate(t, &HeadingSkipRule{}, ok))

	assert.Empty(t, evaluate(t, &HeadingSkipRule{}, sigWith(&fakeDoc{})))
}

func TestAltTextRule(t *testing.T) {
	tests := []struct {
		name  string
		img   core.ImageRef
		fires bool
	}{
		{"missing alt", core.ImageRef{Src: "/a.png"}, true},
		{"short alt", core.ImageRef{Src: "/a.png", Alt: "ab"}, true},
		{"generic photo", core.ImageRef{Src: "/a.png", Alt: "photo"}, true},
		{"generic uppercased", core.ImageRef{Src: "/a.png", Alt: " Image "}, true},
		{"filename echo", core.ImageRef{Src: "/img/team.png", Alt: "team.png"}, true},
		{"descriptive", core.ImageRef{Src: "/a.png", Alt: "Team photo from 2023 offsite"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := evaluate(t, &AltTextRule{}, sigWith(&fakeDoc{images: []core.ImageRef{tt.img}}))
			if tt.fires {
				require.Len(t, findings, 1)
				assert.Equal(t, core.SeverityHigh, findings[0].Severity)
			} else {
				assert.Empty(t, findings)
			}
		})
	}
}

func TestAltTextRuleFirstOffenderShortCircuit(t *testing.T) {
	doc := &fakeDoc{images: []core.ImageRef{
		{Src: "/a.png"},
		{Src: "/b.png"},
		{Src: "/c.png", Alt: "A proper description"},
	}}

	assert.Len(t, evaluate(t, &AltTextRule{}, sigWith(doc)), 1)
	assert.Len(t, evaluate(t, &AltTextRule{AllOffenders: true}, sigWith(doc)), 2)
}

func TestViewportRules(t *testing.T) {
	sig := sigWith(&fakeDoc{})
	sig.ViewportMetaPresent = false
	sig.MediaQueryCount = 0

	findings := evaluate(t, &ViewportMetaRule{}, sig)
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityMedium, findings[0].Severity)
	assert.Len(t, evaluate(t, &MediaQueriesRule{}, sig), 1)

	sig.ViewportMetaPresent = true
	sig.MediaQueryCount = 4
	assert.Empty(t, evaluate(t, &ViewportMetaRule{}, sig))
	assert.Empty(t, evaluate(t, &MediaQueriesRule{}, sig))
}

func TestEmptyLinkRule(t *testing.T) {
	doc := &fakeDoc{anchors: []core.AnchorRef{
		{Href: "/fine", Text: "Fine"},
		{Href: "#", Text: "Nowhere"},
		{Href: "javascript:void(0)", Text: "Nothing"},
	}}

	assert.Len(t, evaluate(t, &EmptyLinkRule{}, sigWith(doc)), 1)
	assert.Len(t, evaluate(t, &EmptyLinkRule{AllOffenders: true}, sigWith(doc)), 2)
	assert.Empty(t, evaluate(t, &EmptyLinkRule{}, sigWith(&fakeDoc{anchors: []core.AnchorRef{{Href: "/ok"}}})))
}

func TestLinkTextRule(t *testing.T) {
	doc := &fakeDoc{anchors: []core.AnchorRef{
		{Href: "/a", Text: "Compare plans"},
		{Href: "/b", Text: "Click Here"},
	}}
	findings := evaluate(t, &LinkTextRule{}, sigWith(doc))
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "Click Here")
	assert.Equal(t, core.SeverityLow, findings[0].Severity)
}

func TestDeadLinkRuleHTTPStatus(t *testing.T) {
	probe := &fakeProbe{statuses: map[string]int{
		"https://example.com/ok":      200,
		"https://example.com/missing": 404,
	}}
	doc := &fakeDoc{anchors: []core.AnchorRef{
		{Href: "/ok", Text: "Fine"},
		{Href: "/missing", Text: "Gone"},
	}}

	findings := evaluate(t, &DeadLinkRule{Probe: probe}, sigWith(doc))
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityHigh, findings[0].Severity)
	assert.Contains(t, findings[0].Description, "404")
}

func TestDeadLinkRuleFetchFailure(t *testing.T) {
	probe := &fakeProbe{} // every probe fails
	doc := &fakeDoc{anchors: []core.AnchorRef{{Href: "https://unreachable.invalid/", Text: "X"}}}

	findings := evaluate(t, &DeadLinkRule{Probe: probe}, sigWith(doc))
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "Failed to open")
}

func TestDeadLinkRuleSkipsUnprobeableHrefs(t *testing.T) {
	probe := &fakeProbe{}
	doc := &fakeDoc{anchors: []core.AnchorRef{
		{Href: "#section"},
		{Href: "mailto:team@example.com"},
		{Href: "tel:+123"},
		{Href: "javascript:void(0)"},
	}}
	assert.Empty(t, evaluate(t, &DeadLinkRule{Probe: probe}, sigWith(doc)))
}

func TestKeyboardRules(t *testing.T) {
	sig := sigWith(&fakeDoc{})
	sig.KeyboardReachable = 0
	findings := evaluate(t, &KeyboardReachabilityRule{}, sig)
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityHigh, findings[0].Severity)

	sig.KeyboardReachable = 3
	assert.Empty(t, evaluate(t, &KeyboardReachabilityRule{}, sig))

	sig.NegativeTabindex = 2
	blocked := evaluate(t, &TabOrderRule{}, sig)
	require.Len(t, blocked, 1)
	assert.Equal(t, core.SeverityLow, blocked[0].Severity)
}

func TestFormLabelRule(t *testing.T) {
	labelled := sigWith(&fakeDoc{})
	assert.Empty(t, evaluate(t, &FormLabelRule{}, labelled))

	unlabeled := sigWith(&fakeDoc{unlabeled: true, unlabeledID: "email"})
	findings := evaluate(t, &FormLabelRule{}, unlabeled)
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityMedium, findings[0].Severity)
}

func TestFeedbackHooksRule(t *testing.T) {
	assert.Len(t, evaluate(t, &FeedbackHooksRule{}, sigWith(&fakeDoc{})), 1)
	assert.Empty(t, evaluate(t, &FeedbackHooksRule{}, sigWith(&fakeDoc{feedback: true})))
}

func TestSmallFontRule(t *testing.T) {
	sig := sigWith(&fakeDoc{})
	sig.StyleSamples = []core.StyleSample{
		{Text: "fine", FontSize: "14px", LineHeight: "20px"},
		{Text: "tiny", FontSize: "10px", LineHeight: "14px"},
	}
	findings := evaluate(t, &SmallFontRule{}, sig)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Description, "10px")
}

// The tight-spacing comparison is line-height ÷ font-size < 1.2. The check
// must actually run, not constant-fold to a pass.
func TestLineSpacingRuleComparesRatio(t *testing.T) {
	sig := sigWith(&fakeDoc{})
	sig.StyleSamples = []core.StyleSample{
		{Text: "tight", FontSize: "16px", LineHeight: "16px"}, // ratio 1.0
	}
	findings := evaluate(t, &LineSpacingRule{}, sig)
	require.Len(t, findings, 1, "ratio below 1.2 must flag")

	sig.StyleSamples = []core.StyleSample{
		{Text: "comfortable", FontSize: "16px", LineHeight: "24px"}, // ratio 1.5
	}
	assert.Empty(t, evaluate(t, &LineSpacingRule{}, sig))

	// 'normal' line-height defaults to 1.2x the font size and passes.
	sig.StyleSamples = []core.StyleSample{
		{Text: "normal", FontSize: "16px", LineHeight: "normal"},
	}
	assert.Empty(t, evaluate(t, &LineSpacingRule{}, sig))
}

func TestSlowPageRule(t *testing.T) {
	sig := sigWith(&fakeDoc{})
	sig.NavigationMs = 4200
	findings := evaluate(t, &SlowPageRule{ThresholdMs: 3000}, sig)
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityMedium, findings[0].Severity)
	assert.Contains(t, findings[0].Description, "4200")

	sig.NavigationMs = 900
	assert.Empty(t, evaluate(t, &SlowPageRule{ThresholdMs: 3000}, sig))
}

func TestBrokenImageRule(t *testing.T) {
	probe := &fakeProbe{statuses: map[string]int{
		"https://example.com/ok.png":   200,
		"https://example.com/gone.png": 404,
	}}
	doc := &fakeDoc{images: []core.ImageRef{
		{Src: "/ok.png", Alt: "A fine image"},
		{Src: "/gone.png", Alt: "A missing image"},
	}}

	findings := evaluate(t, &BrokenImageRule{Probe: probe}, sigWith(doc))
	require.Len(t, findings, 1)
	assert.Equal(t, core.SeverityLow, findings[0].Severity)
	assert.Contains(t, findings[0].Description, "404")
}

func TestBatteryOrderIsStable(t *testing.T) {
	battery := Battery(Options{}, &fakeProbe{})
	require.NotEmpty(t, battery)

	var names []string
	for _, rule := range battery {
		names = append(names, rule.Name())
	}
	// Evaluation order is fixed: title first, liveness checks last.
	assert.Equal(t, "Page title not descriptive", names[0])
	assert.Equal(t, "Broken image source", names[len(names)-1])

	seen := map[string]bool{}
	for _, name := range names {
		assert.False(t, seen[name], "duplicate rule name %q", name)
		seen[name] = true
	}
	assert.True(t, strings.Contains(strings.Join(names, ","), "Insufficient colour contrast"))
}
