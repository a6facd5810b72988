// Package core defines the shared types and stage interfaces for webaudit.
// Each stage of the scan pipeline is a clean, testable interface.
package core

import "context"

// Severity classifies a finding. It is a label on the row, not a sort key:
// findings keep rule-evaluation order in the report.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Rect is a rectangle in page-document coordinates (element rect plus the
// scroll offset at sampling time). Used to drive evidence capture.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label,omitempty"`
}

// Finding is one reported usability issue on one page.
// EvidenceRef names a screenshot file captured before the finding was
// appended; it is empty when capture was not possible.
type Finding struct {
	Rule        string   `json:"rule"`
	PageURL     string   `json:"page_url"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	EvidenceRef string   `json:"evidence_ref,omitempty"`

	// Regions, Label and Tag are transient capture inputs set by the rule
	// and consumed by the runner; they never reach the report.
	Regions []Rect `json:"-"`
	Label   string `json:"-"`
	Tag     string `json:"-"`
}

// StyleSample is one computed-style snapshot of a text-bearing element.
type StyleSample struct {
	Text       string  `json:"text"`
	Color      string  `json:"color"`
	Background string  `json:"bg"`
	FontSize   string  `json:"fontSize"`
	LineHeight string  `json:"lineHeight"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Rect returns the sample's geometry as a labelled capture region.
func (s StyleSample) Rect(label string) Rect {
	return Rect{Left: s.Left, Top: s.Top, Width: s.Width, Height: s.Height, Label: label}
}

// ImageRef is a static view of one <img> element.
type ImageRef struct {
	Src string
	Alt string
}

// AnchorRef is a static view of one <a> element.
type AnchorRef struct {
	Href string
	Text string
}

// Document is the queryable parsed-markup view of a rendered page.
// Rules consume this interface so they can be tested on synthetic pages
// without a browser.
type Document interface {
	Title() string
	HeadingLevels() []int
	Images() []ImageRef
	Anchors() []AnchorRef
	HasViewportMeta() bool
	UnlabeledFormControl() (id string, found bool)
	HasFeedbackHooks() bool
	NavLinkTexts(max int) []string
}

// PageSignals holds everything the rule battery needs for one page visit.
// The parsed document is read-only and scoped to this visit.
type PageSignals struct {
	URL          string
	Doc          Document
	StyleSamples []StyleSample

	ViewportMetaPresent bool
	MediaQueryCount     int
	KeyboardReachable   int
	NegativeTabindex    int
	NavigationMs        float64

	// ContentPreview is a Markdown excerpt of the page's main content,
	// carried through to the report.
	ContentPreview string
}

// PageShot pairs a scanned URL with its unannotated page screenshot.
type PageShot struct {
	URL        string `json:"url"`
	Screenshot string `json:"screenshot"`
	Preview    string `json:"preview,omitempty"`
}

// ScanResult is the complete output of one scan, handed whole to a renderer.
type ScanResult struct {
	Findings []Finding  `json:"findings"`
	Pages    []PageShot `json:"pages"`
}

// SeverityCounts tallies findings per severity for the summary.
func (r *ScanResult) SeverityCounts() map[Severity]int {
	counts := map[Severity]int{SeverityHigh: 0, SeverityMedium: 0, SeverityLow: 0}
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// ResultBuilder is the append-only accumulator threaded through the per-page
// and aggregation stages.
type ResultBuilder struct {
	result ScanResult
}

// NewResultBuilder creates an empty ResultBuilder.
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{}
}

// Append records a finding. Findings are immutable once appended.
func (b *ResultBuilder) Append(f Finding) {
	b.result.Findings = append(b.result.Findings, f)
}

// AddPage records a page-level screenshot.
func (b *ResultBuilder) AddPage(shot PageShot) {
	b.result.Pages = append(b.result.Pages, shot)
}

// Result returns the accumulated scan result.
func (b *ResultBuilder) Result() *ScanResult {
	return &b.result
}

// Browser is the headless-browser capability surface the pipeline depends on.
type Browser interface {
	// Navigate loads the URL and waits for the settle delay.
	Navigate(ctx context.Context, url string) error
	// HTML returns the rendered DOM serialization (post-script state).
	HTML(ctx context.Context) (string, error)
	// Evaluate runs the script in the page and unmarshals the result into out.
	Evaluate(ctx context.Context, script string, out any) error
	// Screenshot captures the full page to the given file path.
	Screenshot(ctx context.Context, path string) error
	// Close releases the browser session.
	Close() error
}

// Locator answers supplementary geometry queries against the live page.
// Rules must tolerate a nil Locator and soft failures (nil rect, error):
// evidence degrades to the banner fallback, the finding still fires.
type Locator interface {
	Locate(ctx context.Context, script string) (*Rect, error)
	LocateAll(ctx context.Context, script string, max int) ([]Rect, error)
}

// Rule is one independent heuristic. Evaluate returns zero or more findings
// for the page; it must not abort on locator failures.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, sig *PageSignals, loc Locator) []Finding
}

// Capturer overlays markers for the given regions, screenshots the page, and
// removes the markers. Returns the screenshot identifier (file name).
type Capturer interface {
	Capture(ctx context.Context, regions []Rect, tag, label string) (string, error)
}

// LivenessChecker probes a URL for the dead-link and broken-image rules.
// A non-nil error means the fetch itself failed (timeout, DNS, refused).
type LivenessChecker interface {
	Check(ctx context.Context, url string) (status int, err error)
}

// FetchResult holds raw HTML from a plain HTTP fetch (crawl discovery).
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Fetcher retrieves raw HTML from a URL without a browser.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Renderer converts a ScanResult into a final report document.
type Renderer interface {
	Render(result *ScanResult, shotsDir string) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".pdf").
	Extension() string
}
