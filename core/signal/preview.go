// Package signal — report content previews.
// Isolates the main content of a page and converts it to a short Markdown
// excerpt for the report.
package signal

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// previewMaxRunes bounds the Markdown excerpt carried into the report.
const previewMaxRunes = 600

// noiseSelectors are elements stripped before building the preview.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "svg", "canvas",
	"form", "button", "input", "select", "textarea",
}

// ContentPreview isolates the main content of the page (<main>, <article>,
// then <body>) and converts it to a Markdown excerpt of at most maxRunes.
func ContentPreview(html string, maxRunes int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return "", nil
	}

	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting content to markdown: %w", err)
	}

	return truncate(strings.TrimSpace(markdown), maxRunes), nil
}

// truncate cuts s at a rune boundary, appending an ellipsis when shortened.
func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "…"
}
