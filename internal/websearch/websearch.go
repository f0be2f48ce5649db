// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries a web search provider for organic results.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/knowtree/pkg/types"
)

// Provider names accepted in SearchConfig.Provider.
const (
	ProviderSerpAPI    = "serpapi"
	ProviderDuckDuckGo = "duckduckgo"
)

// Result count bounds for one search.
const (
	minResults = 1
	maxResults = 10
)

// Backend queries a single search provider.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error)
}

// NewBackend constructs the backend named by cfg.Provider. An empty
// provider selects serpapi. The serpapi backend requires cfg.APIKey.
func NewBackend(cfg types.SearchConfig) (Backend, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Provider {
	case "", ProviderSerpAPI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("serpapi backend requires an API key")
		}
		return &SerpAPIBackend{APIKey: cfg.APIKey, Client: client}, nil
	case ProviderDuckDuckGo:
		return &DuckDuckGoBackend{Client: client, UserAgent: cfg.UserAgent}, nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}

// Client wraps a Backend with the stage's swallow-failures contract:
// callers always receive a result slice, never an error.
type Client struct {
	backend Backend
	logger  *zap.Logger
}

// NewClient builds a Client. A nil logger disables logging.
func NewClient(backend Backend, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{backend: backend, logger: logger}
}

// Search returns up to numResults organic results for query, in provider
// rank order. numResults is clamped to [1, 10]. Any provider failure
// (request error, error payload, missing result data) yields an empty
// slice and a log entry for operators; no error reaches the caller.
// Fields the provider omits are empty strings.
func (c *Client) Search(ctx context.Context, query string, numResults int) []types.SearchResult {
	if numResults < minResults {
		numResults = minResults
	}
	if numResults > maxResults {
		numResults = maxResults
	}

	results, err := c.backend.Search(ctx, query, numResults)
	if err != nil {
		c.logger.Warn("web search failed",
			zap.String("backend", c.backend.Name()),
			zap.String("query", query),
			zap.Error(err))
		return nil
	}

	if len(results) > numResults {
		results = results[:numResults]
	}
	return results
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []types.SearchResult, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %s\n", "Rank", "Title", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range results {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-60s  %s\n", i+1, title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(w, "      %s\n", r.Snippet)
		}
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.SearchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
