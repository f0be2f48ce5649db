// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/knowtree/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search.json"

// SerpAPIBackend queries Google organic results through SerpAPI with a
// single structured request per search.
type SerpAPIBackend struct {
	APIKey string
	Client *http.Client
}

// Name returns the backend identifier.
func (b *SerpAPIBackend) Name() string { return ProviderSerpAPI }

// Search requests limit organic results for query.
func (b *SerpAPIBackend) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	params := url.Values{
		"engine":  {"google"},
		"q":       {query},
		"num":     {strconv.Itoa(limit)},
		"api_key": {b.APIKey},
	}
	reqURL := serpAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SerpAPI request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SerpAPI returned HTTP %d", resp.StatusCode)
	}

	var sr serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing SerpAPI response: %w", err)
	}

	if sr.Error != "" {
		return nil, fmt.Errorf("SerpAPI error: %s", sr.Error)
	}
	if sr.OrganicResults == nil {
		return nil, fmt.Errorf("SerpAPI response has no organic results field")
	}

	results := make([]types.SearchResult, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		results = append(results, types.SearchResult{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.Link,
		})
	}
	return results, nil
}

// SerpAPI JSON structures.
type serpAPIResponse struct {
	OrganicResults []serpAPIOrganicResult `json:"organic_results"`
	Error          string                 `json:"error"`
}

type serpAPIOrganicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}
