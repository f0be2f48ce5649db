// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/knowtree/internal/httputil"
	"github.com/pdiddy/knowtree/pkg/types"
)

// duckduckgoBase is the DuckDuckGo HTML search endpoint. Declared as a
// var so tests can substitute an httptest server.
var duckduckgoBase = "https://html.duckduckgo.com/html/"

// maxSearchBodyBytes caps how much of the results page is read (1 MiB).
const maxSearchBodyBytes = 1 << 20

// DuckDuckGoBackend scrapes the keyless DuckDuckGo HTML results page.
// It needs no API key, at the cost of parsing markup instead of JSON.
type DuckDuckGoBackend struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (b *DuckDuckGoBackend) Name() string { return ProviderDuckDuckGo }

// Search requests the results page for query and parses up to limit
// organic results from it.
func (b *DuckDuckGoBackend) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	reqURL := duckduckgoBase + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	ua := b.UserAgent
	if ua == "" {
		ua = httputil.BrowserUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DuckDuckGo returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading DuckDuckGo response: %w", err)
	}

	return parseResultsPage(string(body), limit)
}

// parseResultsPage extracts organic results from the DuckDuckGo HTML
// results page. Result blocks are divs whose class carries both "result"
// and "results_links".
func parseResultsPage(page string, limit int) ([]types.SearchResult, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo page: %w", err)
	}

	var results []types.SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attrValue(n, "class")
			if strings.Contains(class, "result") && strings.Contains(class, "results_links") {
				r := parseResultBlock(n)
				if r.URL != "" && r.Title != "" {
					results = append(results, r)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results, nil
}

// parseResultBlock pulls title, URL, and snippet out of one result div.
func parseResultBlock(block *html.Node) types.SearchResult {
	var r types.SearchResult

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			class := attrValue(n, "class")
			switch {
			case strings.Contains(class, "result__a"):
				r.URL = decodeRedirect(attrValue(n, "href"))
				r.Title = textContent(n)
			case strings.Contains(class, "result__snippet"):
				r.Snippet = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(block)

	return r
}

// decodeRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=<target>
// redirect links to the target URL.
func decodeRedirect(href string) string {
	const redirectPrefix = "//duckduckgo.com/l/?uddg="
	if !strings.HasPrefix(href, redirectPrefix) {
		return href
	}
	target := strings.TrimPrefix(href, redirectPrefix)
	// Later parameters (&rut=...) sit outside the escaped target; ampersands
	// inside the target itself are escaped as %26.
	if idx := strings.Index(target, "&"); idx > 0 {
		target = target[:idx]
	}
	decoded, err := url.QueryUnescape(target)
	if err != nil {
		return href
	}
	return decoded
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// textContent returns the concatenated text inside a node.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
