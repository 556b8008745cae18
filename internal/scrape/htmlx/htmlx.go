// Package htmlx holds the shared static-HTML scraping helpers: fetch a page,
// pick the first container matching a prioritized selector list, pull cell
// text. Source-specific selectors stay in the source files.
package htmlx

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tjrates-service/internal/scrape"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Get fetches a URL and parses the body as a DOM document. Non-2xx responses
// and network failures are transport errors; an unparsable body is a format
// error.
func Get(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, scrape.Transportf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, scrape.Transportf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, scrape.Transportf("get %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, scrape.Formatf("parse %s: %w", url, err)
	}
	return doc, nil
}

// Parse builds a document from already rendered HTML.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scrape.Formatf("parse rendered html: %w", err)
	}
	return doc, nil
}

// FirstMatch returns the selection for the first selector in the prioritized
// list that matches at least one node, or nil when none do.
func FirstMatch(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return nil
}

// Text returns the selection's trimmed text.
func Text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
