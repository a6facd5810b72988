// Package signal implements the Signal Extractor: it turns one rendered page
// into the PageSignals the rule battery consumes — a parsed markup tree from
// goquery plus computed-style and interaction counts pulled from the live DOM.
package signal

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/karthik-anand/webaudit/core"
)

// ParsedPage is the static-analysis half of a page's signals: a read-only
// goquery tree over the rendered DOM, exposed through core.Document so rules
// stay testable on synthetic HTML.
type ParsedPage struct {
	doc *goquery.Document
}

var _ core.Document = (*ParsedPage)(nil)

// Parse builds a ParsedPage from a rendered HTML serialization.
func Parse(html string) (*ParsedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &ParsedPage{doc: doc}, nil
}

// Title returns the trimmed <title> text, empty when absent.
func (p *ParsedPage) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// HeadingLevels returns the levels of all headings in document order.
func (p *ParsedPage) HeadingLevels() []int {
	var levels []int
	p.doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if len(name) == 2 && name[0] == 'h' {
			levels = append(levels, int(name[1]-'0'))
		}
	})
	return levels
}

// Images returns all <img> elements in document order.
func (p *ParsedPage) Images() []core.ImageRef {
	var imgs []core.ImageRef
	p.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		imgs = append(imgs, core.ImageRef{Src: src, Alt: alt})
	})
	return imgs
}

// Anchors returns all <a> elements in document order. A missing href comes
// back as the empty string, same as an empty one.
func (p *ParsedPage) Anchors() []core.AnchorRef {
	var anchors []core.AnchorRef
	p.doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		anchors = append(anchors, core.AnchorRef{
			Href: href,
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return anchors
}

// HasViewportMeta reports whether a viewport meta tag is present.
func (p *ParsedPage) HasViewportMeta() bool {
	return p.doc.Find(`meta[name="viewport"]`).Length() > 0
}

// UnlabeledFormControl finds the first form control lacking both a
// <label for> association and an ancestor <label> wrapper. The returned id
// may be empty when the control has none.
func (p *ParsedPage) UnlabeledFormControl() (string, bool) {
	var offenderID string
	found := false
	p.doc.Find("form").EachWithBreak(func(_ int, form *goquery.Selection) bool {
		form.Find("input, select, textarea").EachWithBreak(func(_ int, inp *goquery.Selection) bool {
			id, hasID := inp.Attr("id")
			if hasID && p.doc.Find(fmt.Sprintf(`label[for=%q]`, id)).Length() > 0 {
				return true
			}
			if inp.ParentsFiltered("label").Length() > 0 {
				return true
			}
			offenderID = id
			found = true
			return false
		})
		return !found
	})
	return offenderID, found
}

// HasFeedbackHooks reports whether the page has any alert role or
// live-region attribute.
func (p *ParsedPage) HasFeedbackHooks() bool {
	return p.doc.Find(`[role="alert"], [aria-live]`).Length() > 0
}

// NavLinkTexts returns the trimmed text of up to max links inside <nav>
// elements, in document order. Used for the cross-page navigation signature.
func (p *ParsedPage) NavLinkTexts(max int) []string {
	var texts []string
	p.doc.Find("nav a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		texts = append(texts, strings.TrimSpace(s.Text()))
		return max <= 0 || len(texts) < max
	})
	return texts
}
