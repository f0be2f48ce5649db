// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleSerpAPIJSON = `{
  "search_metadata": {"status": "Success"},
  "organic_results": [
    {
      "position": 1,
      "title": "Quantum Computing - Wikipedia",
      "snippet": "A quantum computer exploits superposition and entanglement.",
      "link": "https://en.wikipedia.org/wiki/Quantum_computing"
    },
    {
      "position": 2,
      "title": "What is Quantum Computing?",
      "link": "https://example.com/quantum"
    }
  ]
}`

func TestSerpAPIBackendSearch(t *testing.T) {
	var gotQuery map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleSerpAPIJSON)
	}))
	defer ts.Close()

	old := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = old }()

	b := &SerpAPIBackend{APIKey: "test-key", Client: ts.Client()}
	results, err := b.Search(context.Background(), "quantum computing", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Title != "Quantum Computing - Wikipedia" {
		t.Errorf("Title = %q", results[0].Title)
	}
	if results[0].URL != "https://en.wikipedia.org/wiki/Quantum_computing" {
		t.Errorf("URL = %q", results[0].URL)
	}
	if results[0].Snippet != "A quantum computer exploits superposition and entanglement." {
		t.Errorf("Snippet = %q", results[0].Snippet)
	}

	// The second result omits snippet; it must surface as an empty string.
	if results[1].Snippet != "" {
		t.Errorf("missing snippet = %q, want empty", results[1].Snippet)
	}

	// Request must carry the structured query parameters.
	if got := gotQuery["engine"]; len(got) != 1 || got[0] != "google" {
		t.Errorf("engine param = %v", got)
	}
	if got := gotQuery["q"]; len(got) != 1 || got[0] != "quantum computing" {
		t.Errorf("q param = %v", got)
	}
	if got := gotQuery["num"]; len(got) != 1 || got[0] != "5" {
		t.Errorf("num param = %v", got)
	}
	if got := gotQuery["api_key"]; len(got) != 1 || got[0] != "test-key" {
		t.Errorf("api_key param = %v", got)
	}
}

func TestSerpAPIBackendErrorPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"error": "Invalid API key."}`)
	}))
	defer ts.Close()

	old := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = old }()

	b := &SerpAPIBackend{APIKey: "bad", Client: ts.Client()}
	_, err := b.Search(context.Background(), "anything", 3)
	if err == nil || !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("expected error payload to surface, got: %v", err)
	}
}

func TestSerpAPIBackendMissingOrganicResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"search_metadata": {"status": "Success"}}`)
	}))
	defer ts.Close()

	old := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = old }()

	b := &SerpAPIBackend{APIKey: "test-key", Client: ts.Client()}
	_, err := b.Search(context.Background(), "anything", 3)
	if err == nil || !strings.Contains(err.Error(), "no organic results") {
		t.Errorf("expected missing-field error, got: %v", err)
	}
}

func TestSerpAPIBackendEmptyOrganicResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"organic_results": []}`)
	}))
	defer ts.Close()

	old := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = old }()

	b := &SerpAPIBackend{APIKey: "test-key", Client: ts.Client()}
	results, err := b.Search(context.Background(), "obscure query", 3)
	if err != nil {
		t.Fatalf("an empty result list is not an error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestSerpAPIBackendHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := serpAPIBase
	serpAPIBase = ts.URL
	defer func() { serpAPIBase = old }()

	b := &SerpAPIBackend{APIKey: "test-key", Client: ts.Client()}
	_, err := b.Search(context.Background(), "anything", 3)
	if err == nil || !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("expected HTTP error, got: %v", err)
	}
}
