// Package aggregate implements the cross-page checks that run once after all
// pages in a scan: duplicate titles and inconsistent navigation.
package aggregate

import (
	"strings"

	"github.com/karthik-anand/webaudit/core"
)

// NavSignatureLinks caps how many nav links feed the signature.
const NavSignatureLinks = 10

// State accumulates the cross-page projections of each visited page. It is
// written once per page during the scan loop and read only after the loop.
type State struct {
	pages   []string
	titles  map[string]string
	navSigs map[string]string
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		titles:  make(map[string]string),
		navSigs: make(map[string]string),
	}
}

// Record stores the title and navigation signature of one page, keeping
// first-seen page order.
func (s *State) Record(url, title string, navTexts []string) {
	if _, seen := s.titles[url]; !seen {
		s.pages = append(s.pages, url)
	}
	s.titles[url] = title
	s.navSigs[url] = Signature(navTexts)
}

// Signature joins the visible text of nav links into the per-page navigation
// signature. Pages without nav links get an empty signature.
func Signature(navTexts []string) string {
	if len(navTexts) > NavSignatureLinks {
		navTexts = navTexts[:NavSignatureLinks]
	}
	if len(navTexts) == 0 {
		return ""
	}
	return strings.Join(navTexts, "|")
}

// Findings evaluates both cross-page checks. Single-page scans produce
// nothing; there is no cross-page state to compare.
func (s *State) Findings() []core.Finding {
	var findings []core.Finding
	findings = append(findings, s.duplicateTitles()...)
	findings = append(findings, s.inconsistentNav()...)
	return findings
}

// duplicateTitles flags every page sharing a non-empty title with another.
func (s *State) duplicateTitles() []core.Finding {
	if len(s.pages) < 2 {
		return nil
	}
	counts := make(map[string]int)
	for _, page := range s.pages {
		counts[s.titles[page]]++
	}

	var findings []core.Finding
	for _, page := range s.pages {
		title := s.titles[page]
		if title == "" || counts[title] < 2 {
			continue
		}
		findings = append(findings, core.Finding{
			Rule:        "Non-unique page title",
			PageURL:     page,
			Description: "Each page should have a unique, descriptive title.",
			Severity:    core.SeverityMedium,
		})
	}
	return findings
}

// inconsistentNav flags pages whose non-empty navigation signature differs
// from the majority signature. Ties break by first-seen order; pages with
// empty signatures are exempt.
func (s *State) inconsistentNav() []core.Finding {
	if len(s.pages) < 2 {
		return nil
	}

	counts := make(map[string]int)
	for _, page := range s.pages {
		counts[s.navSigs[page]]++
	}

	majority := ""
	best := 0
	for _, page := range s.pages {
		sig := s.navSigs[page]
		if counts[sig] > best {
			best = counts[sig]
			majority = sig
		}
	}
	if majority == "" {
		return nil
	}

	var findings []core.Finding
	for _, page := range s.pages {
		sig := s.navSigs[page]
		if sig == "" || sig == majority {
			continue
		}
		findings = append(findings, core.Finding{
			Rule:        "Inconsistent navigation",
			PageURL:     page,
			Description: "Use a uniform navigation structure across pages.",
			Severity:    core.SeverityLow,
		})
	}
	return findings
}
