// Package crawl discovers the internal pages of a site for whole-site
// audits. It tries sitemap.xml first and falls back to breadth-first link
// crawling, filtering out off-site URLs and static assets.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/karthik-anand/webaudit/core"
	"github.com/karthik-anand/webaudit/logging"
)

// DefaultPageLimit caps breadth-first discovery so a large site cannot
// turn one audit into an unbounded crawl.
const DefaultPageLimit = 100

// Discoverer finds the set of internal page URLs reachable from a start
// URL. Results come back in discovery order with the start URL first.
type Discoverer struct {
	fetcher core.Fetcher
	limit   int
	log     *logging.Logger
}

// NewDiscoverer creates a Discoverer. A non-positive limit falls back to
// DefaultPageLimit.
func NewDiscoverer(fetcher core.Fetcher, limit int, log *logging.Logger) *Discoverer {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Discoverer{fetcher: fetcher, limit: limit, log: log}
}

type sitemapEntry struct {
	Loc string `xml:"loc"`
}

type sitemapDoc struct {
	Entries []sitemapEntry `xml:"url"`
}

// Discover returns the internal URLs to audit, starting from startURL.
// The start URL itself is always part of the result.
func (d *Discoverer) Discover(ctx context.Context, startURL string) ([]string, error) {
	base, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parsing start URL: %w", err)
	}

	if urls := d.fromSitemap(ctx, base); len(urls) > 0 {
		d.log.Infof("discovered %d pages from sitemap.xml", len(urls))
		return urls, nil
	}

	d.log.Debugf("no usable sitemap, crawling links from %s", startURL)
	return d.fromLinks(ctx, startURL, base.Host)
}

// fromSitemap parses <host>/sitemap.xml. Any failure means "no sitemap"
// and discovery falls through to link crawling.
func (d *Discoverer) fromSitemap(ctx context.Context, base *url.URL) []string {
	sitemapURL := fmt.Sprintf("%s://%s/sitemap.xml", base.Scheme, base.Host)
	result, err := d.fetcher.Fetch(ctx, sitemapURL)
	if err != nil || result.StatusCode != 200 {
		return nil
	}

	var doc sitemapDoc
	if err := xml.Unmarshal([]byte(result.HTML), &doc); err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var urls []string
	for _, entry := range doc.Entries {
		loc := Canonical(entry.Loc)
		if loc == "" || seen[loc] || !SameHost(loc, base.Host) || IsStaticAsset(loc) {
			continue
		}
		seen[loc] = true
		urls = append(urls, loc)
		if len(urls) >= d.limit {
			break
		}
	}
	return urls
}

// fromLinks walks anchors breadth-first, same host only, up to the limit.
func (d *Discoverer) fromLinks(ctx context.Context, startURL, host string) ([]string, error) {
	frontier := []string{Canonical(startURL)}
	seen := map[string]bool{frontier[0]: true}

	for i := 0; i < len(frontier) && len(frontier) < d.limit; i++ {
		current := frontier[i]

		result, err := d.fetcher.Fetch(ctx, current)
		if err != nil {
			d.log.Debugf("skipping %s: %v", current, err)
			continue
		}

		for _, link := range pageLinks(result.HTML, current) {
			link = Canonical(link)
			if link == "" || seen[link] || !SameHost(link, host) || IsStaticAsset(link) {
				continue
			}
			seen[link] = true
			frontier = append(frontier, link)
			if len(frontier) >= d.limit {
				break
			}
		}
	}

	return frontier, nil
}

// pageLinks extracts absolute anchor targets from a page, resolving
// relative hrefs against the page URL.
func pageLinks(html, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveHref(href, base); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links
}

func resolveHref(href string, base *url.URL) string {
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
